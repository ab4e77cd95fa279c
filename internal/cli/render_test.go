package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderGraphDOT(t *testing.T) {
	out, _, err := execute(t, filepath.Join(t.TempDir(), "Saved"), "render-graph", "testdata/door.json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, `digraph "EventGraph"`) {
		t.Errorf("output is not DOT:\n%s", out)
	}
	if !strings.Contains(out, "Event BeginPlay") {
		t.Errorf("DOT does not label the event node:\n%s", out)
	}
}

func TestRenderGraphToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "door.dot")
	if _, _, err := execute(t, filepath.Join(dir, "Saved"), "render-graph", "testdata/door.json", "-o", path, "--detailed"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "taillabel") {
		t.Errorf("detailed DOT has no pin labels:\n%s", data)
	}
}

func TestRenderGraphErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown graph", []string{"--graph", "Nope"}, `no graph named "Nope"`},
		{"unknown format", []string{"-o", "door.png"}, "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"render-graph", "testdata/door.json"}, tt.args...)
			for i, a := range args {
				if strings.HasSuffix(a, ".png") {
					args[i] = filepath.Join(dir, a)
				}
			}
			_, _, err := execute(t, filepath.Join(dir, "Saved"), args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
