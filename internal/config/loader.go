package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads runner settings.
// Search order: customPath -> ~/.runner/configs/runner.yaml -> ./configs/runner.yaml -> embedded default
//
// Only an explicit customPath can fail; the implicit locations fall through
// to the next candidate when missing or malformed. The result is normalized.
func Load(customPath string) (Settings, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := UserConfigPath(); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "runner.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultRunnerYAML)
	if err != nil {
		return DefaultSettings(), nil
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of DefaultSettings, so a partial
// document only overrides the fields it names, then normalizes the result.
func Parse(data []byte) (Settings, error) {
	cfg := DefaultSettings()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, err
	}
	return cfg.Normalize(), nil
}

// Marshal encodes settings as YAML.
func Marshal(cfg Settings) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// UserConfigPath returns the per-user config location, or empty if home is unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".runner", "configs", "runner.yaml")
}

// ApplyPreset adjusts speed tuning for a difficulty preset.
// The empty preset and DifficultyNormal leave the settings untouched.
func ApplyPreset(cfg *Settings, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.Start *= 0.85
		cfg.Speed.Max *= 0.85
		cfg.Speed.RampPerSec *= 0.75
		cfg.Timing.Coyote += cfg.Timing.Coyote / 2
	case DifficultyHard:
		cfg.Speed.Start *= 1.3
		cfg.Speed.Max *= 1.2
		cfg.Speed.RampPerSec *= 1.5
		cfg.Speed.ExtraRampAfter /= 2
	case DifficultyFixed:
		cfg.Speed.RampPerSec = 0
		cfg.Speed.ExtraRampBonus = 0
	}
	*cfg = cfg.Normalize()
}
