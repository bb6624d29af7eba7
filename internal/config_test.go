package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg := LoadConfig(t.TempDir())

	if cfg.Server != DefaultServerURL {
		t.Errorf("Server = %q, want default", cfg.Server)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
	if len(cfg.Prompts) == 0 {
		t.Error("default prompt templates missing")
	}
}

func TestLoadConfig_UnreadableFileDegradesToDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(":\t not yaml ["), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg := LoadConfig(dir)

	if cfg.Server != DefaultServerURL || cfg.Model != DefaultModel {
		t.Errorf("corrupt config did not degrade to defaults: %+v", cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("model: mistral\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg := LoadConfig(dir)

	if cfg.Model != "mistral" {
		t.Errorf("Model = %q, want overridden", cfg.Model)
	}
	if cfg.Server != DefaultServerURL {
		t.Errorf("Server = %q, want default kept", cfg.Server)
	}
	if cfg.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want default kept", cfg.Temperature)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Config{
		Server:      "http://localhost:9999",
		Model:       "qwen2.5",
		Temperature: 0.2,
		Prompts:     map[string]string{"saludo": "Di hola"},
	}

	if err := SaveConfig(dir, want); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	got := LoadConfig(dir)

	if got.Server != want.Server || got.Model != want.Model || got.Temperature != want.Temperature {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if got.Prompts["saludo"] != "Di hola" {
		t.Errorf("Prompts = %v", got.Prompts)
	}
}
