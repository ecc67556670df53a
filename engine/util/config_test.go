package util

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "mesher.yaml")
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "workers: 3\ngrid_file: maps/test.nbt.zst\nlog_categories: [mesh, io]\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defaults := DefaultConfig()
	if cfg.Workers != 3 || cfg.GridFile != "maps/test.nbt.zst" {
		t.Fatalf("values not applied: %+v", cfg)
	}
	if cfg.BlocksFile != defaults.BlocksFile || cfg.TileCacheHint != defaults.TileCacheHint {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if len(cfg.LogCategories) != 2 {
		t.Fatalf("categories %v", cfg.LogCategories)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"negative workers": "workers: -2\n",
		"log level":        "log_level: loud\n",
		"category":         "log_categories: [render]\n",
		"empty grid":       "grid_file: \"\"\n",
		"syntax":           "workers: [\n",
	}
	for name, content := range tests {
		if _, err := LoadConfig(writeConfig(t, content)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestLogFilters(t *testing.T) {
	defer SetLogLevel(LogLevelInfo)
	defer SetLogCategories(LogAll)

	lvl, err := ParseLogLevel("warn")
	if err != nil || lvl != LogLevelWarning {
		t.Fatalf("parse level: %v %v", lvl, err)
	}
	cat, err := ParseLogCategories([]string{"mesh", "IO"})
	if err != nil || cat != LogMesh|LogIO {
		t.Fatalf("parse categories: %v %v", cat, err)
	}
	SetLogLevel(lvl)
	SetLogCategories(cat)
	if !IsLogEnabled(LogMesh, LogLevelError) || IsLogEnabled(LogMesh, LogLevelInfo) {
		t.Fatalf("level filter wrong")
	}
	if IsLogEnabled(LogConfig, LogLevelError) {
		t.Fatalf("category filter wrong")
	}
}

func TestTimerConcurrentStages(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				timer.Start("stage")()
			}
		}()
	}
	wg.Wait()
	state, ok := timer.GetState("stage")
	if !ok || state.Count() != 100 {
		t.Fatalf("stage ran %d times", state.Count())
	}
	if _, ok = timer.GetState("never"); ok {
		t.Fatalf("unknown stage reported")
	}
	timer.Reset()
	if state, _ = timer.GetState("stage"); state.Count() != 0 {
		t.Fatalf("reset kept %d runs", state.Count())
	}
}
