package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type UserConfig struct {
	Defaults Defaults               `toml:"defaults"`
	Vaults   map[string]VaultConfig `toml:"vaults"`
}

type Defaults struct {
	Vault              string `toml:"vault"`
	RememberPassphrase bool   `toml:"remember_passphrase"`
}

type VaultConfig struct {
	UUID      string    `toml:"vault_uuid"`
	Path      string    `toml:"path"`
	CreatedAt time.Time `toml:"created_at"`
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields an empty config, not an error.
func LoadUserConfig() (*UserConfig, error) {
	configPath := filepath.Join(UserPasskeepSettings.UserConfigsPath, "config.toml")

	config := &UserConfig{
		Vaults: make(map[string]VaultConfig),
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if config.Vaults == nil {
		config.Vaults = make(map[string]VaultConfig)
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	configPath := filepath.Join(UserPasskeepSettings.UserConfigsPath, "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}

// RegisterVault records a vault in the user config, assigning it a fresh
// UUID if it is not already known. The first registered vault becomes the
// default.
func RegisterVault(name, path string) (*VaultConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	if existing, ok := config.Vaults[name]; ok {
		return &existing, nil
	}

	vc := VaultConfig{
		UUID:      uuid.New().String(),
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
	config.Vaults[name] = vc

	if config.Defaults.Vault == "" {
		config.Defaults.Vault = name
	}

	if err := SaveUserConfig(config); err != nil {
		return nil, err
	}

	return &vc, nil
}

// LookupVault resolves a vault name from the user config to its path.
// Returns the path and true if found.
func LookupVault(name string) (string, bool) {
	config, err := LoadUserConfig()
	if err != nil {
		return "", false
	}
	vc, ok := config.Vaults[name]
	if !ok {
		return "", false
	}
	return vc.Path, true
}
