package metadata

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	vterrors "github.com/valtown/vt/internal/errors"
)

// Config is vt's local/global override document. Unknown keys are
// rejected on write (strict) but tolerated on read (for forward
// compatibility), per spec.md §9.
type Config struct {
	APIKey      string `yaml:"apiKey,omitempty"`
	DefaultHost string `yaml:"defaultHost,omitempty"`
	CoreRemote  string `yaml:"coreRemote,omitempty"`
}

// knownKeys is the set Config's strict writer checks against.
var knownKeys = map[string]bool{"apiKey": true, "defaultHost": true, "coreRemote": true}

// GlobalConfigDir returns <XDG_CONFIG_HOME>/vt, resolving the home
// directory the way the teacher resolves ~/.githelper.
func GlobalConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vt"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vt"), nil
}

func localConfigPath(root string) string { return filepath.Join(Dir(root), "config.yaml") }

// LoadConfig loads the global config, then deep-merges the local
// .vt/config.yaml over it per-key (local wins), per spec.md §9's
// configuration-precedence note. Reading tolerates unknown keys; they are
// simply ignored by the typed Config (forward compatibility).
func LoadConfig(root string) (Config, error) {
	var cfg Config

	globalDir, err := GlobalConfigDir()
	if err != nil {
		return cfg, err
	}
	if err := readYAMLTolerant(filepath.Join(globalDir, "config.yaml"), &cfg); err != nil {
		return cfg, err
	}

	var local Config
	if err := readYAMLTolerant(localConfigPath(root), &local); err != nil {
		return cfg, err
	}
	mergeConfig(&cfg, local)

	if env := os.Getenv("VAL_TOWN_API_KEY"); env != "" {
		cfg.APIKey = env
	}

	return cfg, nil
}

func readYAMLTolerant(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, out)
}

func mergeConfig(base *Config, overlay Config) {
	if overlay.APIKey != "" {
		base.APIKey = overlay.APIKey
	}
	if overlay.DefaultHost != "" {
		base.DefaultHost = overlay.DefaultHost
	}
	if overlay.CoreRemote != "" {
		base.CoreRemote = overlay.CoreRemote
	}
}

// SaveLocalConfig writes .vt/config.yaml, rejecting unknown keys found in
// a raw pass over the document first (strict-on-write).
func SaveLocalConfig(root string, raw map[string]interface{}, cfg Config) error {
	for key := range raw {
		if !knownKeys[key] {
			return vterrors.ConfigInvalid(localConfigPath(root), "unknown key '"+key+"'")
		}
	}

	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(localConfigPath(root), data, 0o644)
}
