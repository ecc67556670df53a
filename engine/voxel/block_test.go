package voxel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewBlockRegistryValidation(t *testing.T) {
	tests := []struct {
		name string
		defs []BlockDef
	}{
		{"air id", []BlockDef{{ID: 0, Name: "void"}}},
		{"duplicate id", []BlockDef{{ID: 1, Name: "stone"}, {ID: 1, Name: "dirt"}}},
		{"missing name", []BlockDef{{ID: 2}}},
	}
	for _, tt := range tests {
		if _, err := NewBlockRegistry(tt.defs...); err == nil {
			t.Fatalf("%s: expected an error", tt.name)
		}
	}
}

func TestBlockRegistryLookups(t *testing.T) {
	registry := newTestRegistry(t)
	if registry.IsOpaque(AIR) || !registry.IsOpaque(testStone) || registry.IsOpaque(testGlass) {
		t.Fatalf("wrong opacity table")
	}
	if registry.IsOpaque(999) {
		t.Fatalf("unknown ids must not be opaque")
	}
	if id, ok := registry.GetBlockByName("water"); !ok || id != testWater {
		t.Fatalf("water lookup: %d %v", id, ok)
	}
	if registry.Name(testIce) != "ice" || registry.Name(999) != "" {
		t.Fatalf("wrong names")
	}
	ids := registry.IDs()
	if len(ids) != 5 || ids[0] != testStone || ids[4] != testIce {
		t.Fatalf("ids %v", ids)
	}
}

func TestLoadBlockRegistry(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "blocks.yaml")
	content := "blocks:\n  - {id: 1, name: stone, opaque: true}\n  - {id: 7, name: leaves}\n"
	if err := os.WriteFile(good, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	registry, err := LoadBlockRegistry(good)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !registry.IsOpaque(1) || registry.IsOpaque(7) || registry.Name(7) != "leaves" {
		t.Fatalf("unexpected registry contents")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err = os.WriteFile(bad, []byte("blocks:\n  - {id: 1, name: a}\n  - {id: 1, name: b}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err = LoadBlockRegistry(bad); err == nil {
		t.Fatalf("duplicate ids accepted")
	}
	if _, err = LoadBlockRegistry(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}
