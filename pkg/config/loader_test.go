package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("../../config/kinfit.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log_level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.Model != ModelHougenWatson {
		t.Errorf("Expected model %s, got %s", ModelHougenWatson, cfg.Model)
	}
	if cfg.Optimizer.MaxIterations != 9000 {
		t.Errorf("Expected 9000 iterations, got %d", cfg.Optimizer.MaxIterations)
	}
	if cfg.Optimizer.Starts != 4 || cfg.Optimizer.MaxParallel != 2 {
		t.Errorf("Expected 4 starts on 2 workers, got %d/%d", cfg.Optimizer.Starts, cfg.Optimizer.MaxParallel)
	}

	ms, ok := cfg.ModelSettingsFor(ModelMarsVanKrevelen)
	if !ok {
		t.Fatal("expected mars-van-krevelen settings")
	}
	if len(ms.Initial) != 2 || ms.Lower[0] != 1e-6 || ms.Upper[1] != 1000 {
		t.Errorf("unexpected mars-van-krevelen settings %+v", ms)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("optimizer:\n  method: annealing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestModelSettingsFor(t *testing.T) {
	cfg := Default()

	hw, ok := cfg.ModelSettingsFor(ModelHougenWatson)
	if !ok {
		t.Fatal("expected hougen-watson defaults")
	}
	for i, v := range hw.Initial {
		if v < hw.Lower[i] || v > hw.Upper[i] {
			t.Fatalf("default initial guess %v outside bounds at %d", hw.Initial, i)
		}
	}

	cfg.Models = map[string]ModelSettings{
		ModelHougenWatson: {Initial: []float64{0.02, 6, 16}},
		"custom":          {Initial: []float64{1}, Lower: []float64{0}, Upper: []float64{2}},
	}
	hw, _ = cfg.ModelSettingsFor(ModelHougenWatson)
	if hw.Initial[1] != 6 {
		t.Fatalf("expected override initial guess, got %v", hw.Initial)
	}
	if hw.Upper[2] != 20 {
		t.Fatalf("expected default upper bounds to be kept, got %v", hw.Upper)
	}

	if _, ok := cfg.ModelSettingsFor("custom"); !ok {
		t.Fatal("expected override-only model to resolve")
	}
	if _, ok := cfg.ModelSettingsFor("langmuir"); ok {
		t.Fatal("expected unknown model to be missing")
	}
}
