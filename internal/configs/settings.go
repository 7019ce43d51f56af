package configs

import (
	"log"
	"os"
	"path/filepath"
)

type UserSettings struct {
	UserConfigsPath  string
	DefaultVaultPath string
}

var UserPasskeepSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	vaultPath := os.Getenv("PASSKEEP_HOME")
	if vaultPath == "" {
		vaultPath = filepath.Join(homeDir, ".passkeep")
	}

	UserPasskeepSettings = &UserSettings{
		UserConfigsPath:  filepath.Join(configDir, "passkeep"),
		DefaultVaultPath: vaultPath,
	}
}
