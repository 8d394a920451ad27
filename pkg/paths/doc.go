// Package paths provides centralized path handling for ocp.
//
// It follows the XDG Base Directory specification:
//
//   - Config: $XDG_CONFIG_HOME/ocp (config.json registry, ocp.toml, backups/)
//   - Cache: $XDG_CACHE_HOME/ocp (repositories/, resolved-profiles/)
//   - State: $XDG_STATE_HOME/ocp (ocp.log)
//   - Target: $XDG_CONFIG_HOME/opencode (where the active profile is linked)
//
// # Environment Variables
//
//   - OCP_CONFIG_DIR: override the config directory
//   - OCP_CACHE_DIR: override the cache directory
//   - OCP_TARGET_DIR: override the target directory
//   - OCP_WORKING_DIR: override the directory `ocp profile create` edits
//
// A leading ~ in any override is expanded to the user's home directory.
package paths
