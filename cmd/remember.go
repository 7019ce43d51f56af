package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/configs"
	pkerrors "passkeep/internal/errors"
	"passkeep/internal/passphrase"
)

var rememberCmd = &cobra.Command{
	Use:   "remember",
	Short: "Caches the vault passphrase in the OS keyring",
	Long: `Verifies the passphrase against the vault and stores it in the
operating system keyring, so later commands stop prompting. Undo with
'passkeep forget'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting remember command")

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		pass, err := resolvePassphrase(store.Root())
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		if !store.Check(pass) {
			return Logger.ErrorfAndReturn("%w", pkerrors.ErrWrongPassphrase)
		}

		if err := passphrase.Remember(store.Root(), pass, nil); err != nil {
			return Logger.ErrorfAndReturn("failed to store passphrase in OS keyring: %v", err)
		}

		config, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load user config: %v", err)
		}
		config.Defaults.RememberPassphrase = true
		if err := configs.SaveUserConfig(config); err != nil {
			return Logger.ErrorfAndReturn("failed to save user config: %v", err)
		}

		cmd.Println(color.GreenString("✓") + " Passphrase cached in the OS keyring")
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Removes the cached passphrase from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting forget command")

		root := resolveVaultPath()
		if err := passphrase.Forget(root, nil); err != nil {
			Logger.Warnf("Failed to remove passphrase from OS keyring: %v", err)
		}

		config, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load user config: %v", err)
		}
		config.Defaults.RememberPassphrase = false
		if err := configs.SaveUserConfig(config); err != nil {
			return Logger.ErrorfAndReturn("failed to save user config: %v", err)
		}

		cmd.Println(color.GreenString("✓") + " Cached passphrase removed")
		return nil
	},
}
