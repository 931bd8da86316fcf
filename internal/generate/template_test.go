package generate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name         string
		template     string
		replacements map[string]string
		want         string
		wantErr      bool
	}{
		{
			name:         "single placeholder",
			template:     "seed = {{ initialSeed }};",
			replacements: map[string]string{"initialSeed": "42"},
			want:         "seed = 42;",
		},
		{
			name:         "repeated placeholder keeps order",
			template:     "{{a}}-{{ b }}-{{a}}",
			replacements: map[string]string{"a": "1", "b": "2"},
			want:         "1-2-1",
		},
		{
			name:         "replacement text is not rescanned",
			template:     "{{ a }}",
			replacements: map[string]string{"a": "{{ b }}"},
			want:         "{{ b }}",
		},
		{
			name:     "no placeholders",
			template: "plain",
			want:     "plain",
		},
		{
			name:         "missing replacement",
			template:     "{{ a }} {{ b }}",
			replacements: map[string]string{"a": "1"},
			wantErr:      true,
		},
		{
			name:         "unused replacement",
			template:     "{{ a }}",
			replacements: map[string]string{"a": "1", "b": "2"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, tt.replacements)
			if tt.wantErr {
				if !errors.Is(err, ErrTemplateMismatch) {
					t.Fatalf("expected ErrTemplateMismatch, got %v", err)
				}
				if got != "" {
					t.Errorf("expected no partial output, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "node_runner.js")
	out := filepath.Join(dir, "out.js")
	if err := os.WriteFile(tmpl, []byte("const fuzz = {{ fuzzRuns }};"), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	if err := os.WriteFile(out, []byte("stale content that is longer"), 0644); err != nil {
		t.Fatalf("failed to write output: %v", err)
	}

	if err := RenderFile(tmpl, out, map[string]string{"fuzzRuns": "100"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "const fuzz = 100;" {
		t.Errorf("unexpected output %q", data)
	}

	t.Run("missing template", func(t *testing.T) {
		if err := RenderFile(filepath.Join(dir, "nope.js"), out, nil); err == nil {
			t.Error("expected error for missing template")
		}
	})
}
