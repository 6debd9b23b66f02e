package config

import (
	"os"

	"github.com/wricardo/merge2048/game/engine"
)

// Resolve loads the configuration a host was pointed at. ref may be a path
// to a config file, a config name inside dir, or empty for dir's default.
// With an empty ref and a missing dir the built-in default is returned.
func Resolve(dir, ref string) (*engine.GameConfig, error) {
	if ref != "" {
		if info, err := os.Stat(ref); err == nil && !info.IsDir() {
			return engine.LoadGameConfig(ref)
		}
	}

	m, err := NewManager(dir)
	if err != nil {
		if ref == "" {
			return engine.DefaultConfig(), nil
		}
		return nil, err
	}
	if ref == "" {
		return m.GetDefault(), nil
	}
	return m.LoadConfig(ref)
}
