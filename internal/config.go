package internal

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults matching a local backend install.
const (
	DefaultModel       = "llama3.2"
	DefaultTemperature = 0.7
)

// Config carries client settings and the starter prompt templates. It
// lives as config.yaml in the state directory; a missing or unreadable
// file falls back to defaults, the file is never required.
type Config struct {
	Server      string            `yaml:"server"`
	Model       string            `yaml:"model"`
	Temperature float64           `yaml:"temperature"`
	Prompts     map[string]string `yaml:"prompts,omitempty"`
}

// DefaultConfig returns the built-in settings, including the stock
// study prompt templates.
func DefaultConfig() Config {
	return Config{
		Server:      DefaultServerURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Prompts: map[string]string{
			"matematicas":  "Explícame paso a paso cómo resolver un sistema de ecuaciones lineales de dos incógnitas.",
			"fisica":       "Ayúdame a diferenciar la cinemática de la dinámica con ejemplos sencillos.",
			"programacion": "Explícame qué es la recursión y muéstrame un ejemplo en Python.",
			"historia":     "Resume las causas principales de la Revolución Francesa en menos de 6 puntos.",
			"literatura":   "Analiza el conflicto central de 'La casa de Bernarda Alba' en lenguaje sencillo.",
			"quimica":      "Describe el proceso de enlace covalente y da un ejemplo práctico.",
		},
	}
}

// LoadConfig reads config.yaml from dir, filling any missing field from
// the defaults. Unreadable files degrade to defaults with a warning.
func LoadConfig(dir string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		if !os.IsNotExist(err) {
			LogWarn("read config: %v", err)
		}
		return cfg
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		LogWarn("parse config: %v", err)
		return cfg
	}

	if loaded.Server != "" {
		cfg.Server = loaded.Server
	}
	if loaded.Model != "" {
		cfg.Model = loaded.Model
	}
	if loaded.Temperature > 0 {
		cfg.Temperature = loaded.Temperature
	}
	if len(loaded.Prompts) > 0 {
		cfg.Prompts = loaded.Prompts
	}
	return cfg
}

// SaveConfig writes config.yaml to dir, creating the directory if
// needed.
func SaveConfig(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
}
