package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/bpserial/pkg/registry"
	"github.com/matzehuels/bpserial/pkg/schema"
)

func TestGenerateNodeCatalogDefaultPath(t *testing.T) {
	saved := filepath.Join(t.TempDir(), "Saved")
	out, _, err := execute(t, saved, "generate-node-catalog")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(saved, "BlueprintSerializer", "node_catalog.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("catalog not written: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output does not name %s:\n%s", path, out)
	}
	for _, want := range []string{`"generatedAt"`, `"nodeTypeCount"`, `"className": "K2Node_CallFunction"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("catalog missing %s", want)
		}
	}
}

func TestGenerateMasterSchema(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "Saved")
	out := filepath.Join(dir, "schema", "master.json")
	if _, _, err := execute(t, saved, "generate-master-schema", out); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	s, err := schema.ReadJSON(f)
	if err != nil {
		t.Fatal(err)
	}

	reg := registry.Builtin()
	if s.EngineVersion != reg.HostVersion() {
		t.Errorf("engineVersion = %q, want %q", s.EngineVersion, reg.HostVersion())
	}
	if got, want := len(s.NodeSchemas), len(reg.ConcreteNodeClasses()); got != want {
		t.Errorf("got %d node schemas, want %d", got, want)
	}
	if s.Node("K2Node_CallFunction") == nil {
		t.Error("schema has no entry for K2Node_CallFunction")
	}
	if _, err := os.Stat(filepath.Join(saved, "BlueprintSerializer", schema.CacheKey)); err != nil {
		t.Errorf("schema cache not written: %v", err)
	}
}

func TestGenerateMasterSchemaStdout(t *testing.T) {
	out, _, err := execute(t, filepath.Join(t.TempDir(), "Saved"), "generate-master-schema", "-")
	if err != nil {
		t.Fatal(err)
	}
	s, err := schema.Parse([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not a schema: %v", err)
	}
	if s.SchemaVersion != schema.Version {
		t.Errorf("schemaVersion = %q, want %q", s.SchemaVersion, schema.Version)
	}
}

func TestGenerateMasterSchemaRefreshReplacesStaleCache(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "Saved")
	cached := filepath.Join(saved, "BlueprintSerializer", schema.CacheKey)
	if err := os.MkdirAll(filepath.Dir(cached), 0o755); err != nil {
		t.Fatal(err)
	}
	stale := `{"engineVersion": "` + registry.DefaultHostVersion + `", "schemaVersion": "2.0.0", "nodeSchemas": []}`
	if err := os.WriteFile(cached, []byte(stale), 0o644); err != nil {
		t.Fatal(err)
	}

	// Without --refresh the stored schema is served as is.
	out, _, err := execute(t, saved, "generate-master-schema", "-")
	if err != nil {
		t.Fatal(err)
	}
	s, err := schema.Parse([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.NodeSchemas) != 0 {
		t.Fatalf("expected the stored schema, got %d nodes", len(s.NodeSchemas))
	}

	out, _, err = execute(t, saved, "generate-master-schema", "--refresh", "-")
	if err != nil {
		t.Fatal(err)
	}
	if s, err = schema.Parse([]byte(out)); err != nil {
		t.Fatal(err)
	}
	if len(s.NodeSchemas) == 0 {
		t.Error("--refresh did not regenerate the schema")
	}
}
