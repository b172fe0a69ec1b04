package main

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tex2pdf "github.com/alnah/go-tex2pdf"
)

// ---------------------------------------------------------------------------
// TestTemplateStyles
// ---------------------------------------------------------------------------

func TestTemplateStyles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       map[string]any
		configured []string
		want       []string
		wantData   any
	}{
		{
			name:       "configured styles fill empty data",
			data:       map[string]any{},
			configured: []string{"tex2pdf"},
			want:       []string{"tex2pdf"},
			wantData:   []string{"tex2pdf"},
		},
		{
			name:       "data styles first, no duplicates",
			data:       map[string]any{"styles": []any{"draft", "tex2pdf", "draft", 7}},
			configured: []string{"tex2pdf", "house"},
			want:       []string{"draft", "tex2pdf", "house"},
		},
		{
			name: "nothing to copy",
			data: map[string]any{"title": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := templateStyles(tt.data, tt.configured)
			if !slices.Equal(got, tt.want) {
				t.Errorf("templateStyles() = %v, want %v", got, tt.want)
			}
			if want, ok := tt.wantData.([]string); ok {
				if gotData, _ := tt.data[stylesKey].([]string); !slices.Equal(gotData, want) {
					t.Errorf("data[styles] = %v, want %v", tt.data[stylesKey], want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadTemplateData
// ---------------------------------------------------------------------------

func TestLoadTemplateData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	writeFile(t, good, "title: Report\nauthors: [A, B]\n")
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "title: [unclosed\n")

	data, err := loadTemplateData(good)
	if err != nil {
		t.Fatalf("loadTemplateData() error = %v", err)
	}
	if data["title"] != "Report" {
		t.Errorf("title = %v", data["title"])
	}

	if data, err := loadTemplateData(""); err != nil || len(data) != 0 {
		t.Errorf("loadTemplateData(\"\") = %v, %v, want empty map", data, err)
	}
	if _, err := loadTemplateData(bad); !errors.Is(err, ErrDataParse) {
		t.Errorf("bad YAML error = %v, want ErrDataParse", err)
	}
	if _, err := loadTemplateData(filepath.Join(dir, "missing.yaml")); exitCodeFor(err) != ExitIO {
		t.Errorf("missing file error = %v, want an I/O error", err)
	}
}

// ---------------------------------------------------------------------------
// TestRun_RenderErrors - Failures before any compiler runs
// ---------------------------------------------------------------------------

func TestRun_RenderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no template", []string{"render"}, ExitUsage},
		{"two templates", []string{"render", "article", "letter"}, ExitUsage},
		{"unknown template", []string{"render", "no-such-template"}, ExitUsage},
		{"invalid template name", []string{"render", "../escape"}, ExitUsage},
		{"bad flag", []string{"render", "--nope", "article"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(nil)
			args := append(tt.args, "-o", filepath.Join(t.TempDir(), "out.pdf"))
			if code := run(context.Background(), args, env); code != tt.wantCode {
				t.Errorf("exit = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestRunRender_TemplateNotFoundHint(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(nil)
	err := runRenderCmd(context.Background(), []string{"memo", "-o", filepath.Join(t.TempDir(), "m.pdf")}, env)

	if !errors.Is(err, tex2pdf.ErrTemplateNotFound) {
		t.Fatalf("error = %v, want ErrTemplateNotFound", err)
	}
	if hint := hintFor(err, env); hint == "" {
		t.Error("expected a hint listing available templates")
	}
	if stderr.Len() != 0 {
		t.Errorf("runRenderCmd should leave printing to run(), got %q", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestNewTemplateRenderer - Image paths and clock
// ---------------------------------------------------------------------------

func TestNewTemplateRenderer(t *testing.T) {
	t.Parallel()

	loader, err := tex2pdf.NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}
	dir := t.TempDir()
	fixed := func() time.Time { return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC) }

	r := newTemplateRenderer(loader, dir, "monokai", fixed)
	out, err := r.Render(context.Background(), "article", map[string]any{
		"title": "T",
		"body":  "![chart](img/chart.png)",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, filepath.Join(dir, "img", "chart.png")) {
		t.Errorf("image path not resolved against %s:\n%s", dir, out)
	}
	if !strings.Contains(out, "2024") {
		t.Errorf("date not taken from the injected clock:\n%s", out)
	}
}

func TestDataDir(t *testing.T) {
	t.Parallel()

	if got := dataDir(""); got != "." {
		t.Errorf("dataDir(\"\") = %q, want .", got)
	}
	if got := dataDir(filepath.Join("a", "b.yaml")); got != "a" {
		t.Errorf("dataDir() = %q, want a", got)
	}
}
