// Package configs manages user configuration for passkeep.
//
// Configuration is stored in TOML format at the user level:
//
//   - User config: <user config dir>/passkeep/config.toml
//
// # User Configuration
//
// The user config stores:
//   - The default vault path used when --vault is not given
//   - Whether the vault passphrase may be cached in the OS keyring
//   - Map of known vaults (name -> UUID, path, creation timestamp)
//
// A vault UUID is generated when the vault is first initialized and
// identifies the vault in the config regardless of where it is moved.
//
// # Settings
//
// Global settings are initialized at startup:
//   - UserPasskeepSettings: user config path and default vault location
//
// The default vault location is ~/.passkeep unless overridden by the
// PASSKEEP_HOME environment variable.
package configs
