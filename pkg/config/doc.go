// Package config loads ocp's user settings.
//
// Settings are layered with koanf: embedded defaults, then the optional
// ocp.toml in the config directory, then OCP_* environment variables, then
// overrides from command-line flags. Later layers win.
package config
