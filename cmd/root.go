package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"passkeep/internal/configs"
	logger "passkeep/internal/logging"
)

var (
	verbose        bool
	debug          bool
	vaultPath      string
	passphraseFlag string
	Logger         logger.Logger

	RootCmd = &cobra.Command{
		Use:   "passkeep",
		Short: "Passkeep - an OpenPGP-encrypted personal credential vault.",
		Long: `Passkeep stores credentials as individual encrypted files under a
directory tree. Every password is encrypted at rest as an armored PGP
message addressed to the vault's own key pair; names, logins and comments
stay readable so the vault can be browsed and searched without a
passphrase.

Run 'passkeep init' once to provision a vault, then use add, get, show,
search, update and remove to manage credentials.
`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing passkeep command with verbose=%t, debug=%t", verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Welcome to Passkeep! Run 'passkeep --help' to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	RootCmd.PersistentFlags().StringVarP(&vaultPath, "vault", "D", "", "path to the vault directory (default ~/.passkeep)")
	RootCmd.PersistentFlags().StringVar(&passphraseFlag, "passphrase", "", "vault passphrase (prefer the prompt or PASSKEEP_PASSPHRASE)")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(updateCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(keyCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(rememberCmd)
	RootCmd.AddCommand(forgetCmd)
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVaultPath returns the vault directory for this invocation: the
// --vault flag (a path, or the name of a vault registered in the user
// config), falling back to the configured default location.
func resolveVaultPath() string {
	if vaultPath == "" {
		return configs.UserPasskeepSettings.DefaultVaultPath
	}
	if _, err := os.Stat(vaultPath); err == nil {
		return vaultPath
	}
	if path, ok := configs.LookupVault(vaultPath); ok {
		return path
	}
	return vaultPath
}

// Helper functions for testing

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global flag variables to their defaults for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	vaultPath = ""
	passphraseFlag = ""
}

// SetVaultPath sets the vault path flag for testing.
func SetVaultPath(path string) {
	vaultPath = path
}

// SetPassphrase sets the passphrase flag for testing.
func SetPassphrase(p string) {
	passphraseFlag = p
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
