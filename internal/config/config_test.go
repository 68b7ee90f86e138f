package config

import (
	"os"
	"path/filepath"
	"testing"
)

// configPath returns the config.toml location LoadConfig will use; the
// test binary lives in a temp dir, so writing there is safe.
func configPath(t *testing.T) string {
	t.Helper()
	dir, err := GetExeDir()
	if err != nil {
		t.Fatalf("GetExeDir: %v", err)
	}
	p := filepath.Join(dir, "config.toml")
	t.Cleanup(func() { os.Remove(p) })
	return p
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	os.Remove(configPath(t))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 20831 {
		t.Fatalf("default port=%d", cfg.Server.Port)
	}
	if cfg.Pipeline.TargetSheet != "UNOPS Total Distribution" {
		t.Fatalf("default target sheet=%q", cfg.Pipeline.TargetSheet)
	}
	if len(cfg.Pipeline.Sources) != 1 || cfg.Pipeline.Sources[0].Label != "UNOPS" {
		t.Fatalf("default sources=%+v", cfg.Pipeline.Sources)
	}
}

func TestSaveAndLoadConfigRoundtrip(t *testing.T) {
	configPath(t)

	cfg := DefaultConfig()
	cfg.Server.Port = 9999
	cfg.Server.DevMode = true
	cfg.Pipeline.Sources = append(cfg.Pipeline.Sources, SourceRule{
		Label:                "NGO",
		Sheet:                "NGO Fuel Distribution",
		Tokens:               []string{"NGO"},
		InsertCategoryColumn: true,
	})

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Server.Port != 9999 || !loaded.Server.DevMode {
		t.Fatalf("server section lost: %+v", loaded.Server)
	}
	if len(loaded.Pipeline.Sources) != 2 {
		t.Fatalf("sources=%+v", loaded.Pipeline.Sources)
	}
	ngo := loaded.Pipeline.Sources[1]
	if ngo.Label != "NGO" || !ngo.InsertCategoryColumn || len(ngo.Tokens) != 1 {
		t.Fatalf("source rule lost: %+v", ngo)
	}
}

func TestLoadConfigRestoresEmptySources(t *testing.T) {
	p := configPath(t)
	if err := os.WriteFile(p, []byte("[server]\nport = 1234\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 1234 {
		t.Fatalf("port=%d", cfg.Server.Port)
	}
	// a config without source rules keeps the defaults instead of an
	// unusable empty pipeline
	if len(cfg.Pipeline.Sources) != 1 || cfg.Pipeline.Sources[0].Label != "UNOPS" {
		t.Fatalf("sources=%+v", cfg.Pipeline.Sources)
	}
}

func TestEnsureDataDirCreatesSubdirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join("testdata-tmp", "data")
	t.Cleanup(func() {
		if dir, err := GetExeDir(); err == nil {
			os.RemoveAll(filepath.Join(dir, "testdata-tmp"))
		}
	})

	dir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	for _, sub := range []string{"uploads", "exports"} {
		if st, err := os.Stat(filepath.Join(dir, sub)); err != nil || !st.IsDir() {
			t.Fatalf("missing %s subdir: %v", sub, err)
		}
	}
}
