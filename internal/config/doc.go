// Package config manages the shoplist YAML configuration file.
//
// The file lives in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/shoplist/config.yaml or $HOME/.config/shoplist/config.yaml
//   - macOS: $HOME/.config/shoplist/config.yaml
//   - Windows: %LOCALAPPDATA%\shoplist\config.yaml
//
// A missing file is not an error; Load returns Default(). Command-line flags
// override file values after loading.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	store, err := cfg.NewStore()
package config
