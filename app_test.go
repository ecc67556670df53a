package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memmaker/voxelmesh/engine/util"
)

func testConfig(t *testing.T) util.MesherConfig {
	t.Helper()
	dir := t.TempDir()
	blocks := filepath.Join(dir, "blocks.yaml")
	content := "blocks:\n  - {id: 1, name: stone, opaque: true}\n  - {id: 2, name: glass}\n  - {id: 3, name: water}\n"
	if err := os.WriteFile(blocks, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	atlas := filepath.Join(dir, "atlas.idx")
	if err := os.WriteFile(atlas, []byte("stone 0\nglass 1\nwater 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := util.DefaultConfig()
	cfg.BlocksFile = blocks
	cfg.AtlasIndexFile = atlas
	cfg.GridFile = filepath.Join(dir, "grid.nbt.zst")
	cfg.Workers = 2
	return cfg
}

func TestDemoGridEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	if err := writeDemoGrid(cfg); err != nil {
		t.Fatalf("demo grid: %v", err)
	}
	report, err := runMesher(cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.mesh.Skipped != 0 || report.mesh.Sections != 2 {
		t.Fatalf("%d meshed, %d skipped", report.mesh.Sections, report.mesh.Skipped)
	}
	if report.mesh.Stats.OpaqueFaces == 0 || report.mesh.Stats.TransparentFaces == 0 {
		t.Fatalf("stats %+v", report.mesh.Stats)
	}
	if report.cachedTiles == 0 {
		t.Fatalf("tile cache unused")
	}

	var out bytes.Buffer
	printReport(&out, report)
	for _, key := range []string{"sections=2x1x1", "opaque_faces=", "transparent_faces=", "time_mesh_ms="} {
		if !strings.Contains(out.String(), key) {
			t.Fatalf("report misses %q:\n%s", key, out.String())
		}
	}
}

func TestRunMesherMissingGrid(t *testing.T) {
	cfg := testConfig(t)
	if _, err := runMesher(cfg); err == nil {
		t.Fatalf("missing grid file accepted")
	}
}
