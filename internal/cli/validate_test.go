package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		args     []string
		wantErr  bool
		wantOut  []string
		dontWant []string
	}{
		{
			name:    "valid document",
			file:    "testdata/door.json",
			wantOut: []string{"testdata/door.json is valid"},
			dontWant: []string{"warning"},
		},
		{
			name:    "missing function reference",
			file:    "testdata/broken.json",
			wantErr: true,
			wantOut: []string{
				"[WARNING] Version mismatch: JSON is 1.9.0, current is 2.0.0",
				"[ERROR] Node A1000000000000000000000000000004: CallFunction node has no FunctionReference",
			},
			dontWant: []string{"is valid"},
		},
		{
			name:    "offline",
			file:    "testdata/door.json",
			args:    []string{"--offline"},
			wantOut: []string{"is valid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"validate-file", tt.file}, tt.args...)
			out, _, err := execute(t, filepath.Join(t.TempDir(), "Saved"), args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			for _, s := range tt.wantOut {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.dontWant {
				if strings.Contains(out, s) {
					t.Errorf("output unexpectedly contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestValidateFileMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"metadata": `), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, filepath.Join(dir, "Saved"), "validate-file", path)
	if err == nil {
		t.Fatal("expected failure for malformed JSON")
	}
	if !strings.Contains(out, "[ERROR] Invalid JSON:") {
		t.Errorf("output = %q, want an Invalid JSON error", out)
	}
}

func TestValidateFileMissing(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := execute(t, filepath.Join(dir, "Saved"), "validate-file", filepath.Join(dir, "none.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestValidateFileJSON(t *testing.T) {
	out, _, err := execute(t, filepath.Join(t.TempDir(), "Saved"), "validate-file", "--json", "testdata/broken.json")
	if err == nil {
		t.Fatal("expected failure for an invalid document")
	}

	var res struct {
		Issues []struct {
			Severity string `json:"severity"`
			NodeGUID string `json:"nodeGuid"`
		} `json:"issues"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(res.Issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(res.Issues))
	}
	if res.Issues[1].Severity != "ERROR" || res.Issues[1].NodeGUID != "A1000000000000000000000000000004" {
		t.Errorf("second issue = %+v", res.Issues[1])
	}
}
