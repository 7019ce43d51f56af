package cmd

import (
	"os"
	"path/filepath"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/audit"
	"passkeep/internal/configs"
	"passkeep/internal/passphrase"
	"passkeep/internal/vault"
)

var initImportPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Provisions a new vault with a fresh or imported key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		root := resolveVaultPath()

		if vault.KeyringExists(root) {
			Logger.Debugf("Keyring already present at %s", root)
			finalMessage := color.RedString("✗") + " A vault already exists at " + color.YellowString(root) + "\n" +
				color.CyanString("→") + " Run " + color.YellowString("passkeep add") + " to store credentials in it"
			cmd.Println(finalMessage)
			return nil
		}

		pass, err := resolveInitPassphrase()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}

		var bundle string
		if initImportPath != "" {
			Logger.Debugf("Importing key bundle from %s", initImportPath)
			data, err := os.ReadFile(initImportPath)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read key bundle %s: %v", initImportPath, err)
			}
			bundle = string(data)
		}

		spinner, cleanup := startSpinner("Generating vault key pair...", verbose)
		defer cleanup()

		opts := []vault.Option{}
		if bundle != "" {
			opts = append(opts, vault.WithImport(bundle))
		}

		store, err := vault.Create(root, pass, opts...)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to create vault: %v", err)
		}

		fingerprint, err := store.Key(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read vault key: %v", err)
		}
		Logger.Infof("Vault created with fingerprint %s", fingerprint)

		if _, err := configs.RegisterVault(filepath.Base(root), root); err != nil {
			Logger.Warnf("Failed to register vault in user config: %v", err)
		}

		audit.Log(filepath.Join(root, vault.KeysDirName), audit.Entry{Operation: "init"})

		spinner.Stop()
		figure.NewColorFigure("Passkeep", "alligator2", "green", true).Print()

		finalMessage := color.GreenString("✓") + " Vault created at " + color.YellowString(root) + "\n" +
			"Key fingerprint: " + color.CyanString(fingerprint) + "\n" +
			color.CyanString("→") + " Run " + color.YellowString("passkeep add <name> <login>") + " to store your first credential"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// resolveInitPassphrase prompts twice for a fresh passphrase unless one
// was supplied by flag or environment.
func resolveInitPassphrase() (string, error) {
	if passphraseFlag != "" {
		return passphraseFlag, nil
	}
	if env := os.Getenv(passphrase.EnvVar); env != "" {
		return env, nil
	}

	first, err := passphrase.PromptTerminal("Passphrase: ")
	if err != nil {
		return "", err
	}
	second, err := passphrase.PromptTerminal("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", Logger.ErrorfAndReturn("passphrases do not match")
	}
	return first, nil
}

func init() {
	initCmd.Flags().StringVar(&initImportPath, "import", "", "provision the keyring from an exported armored key bundle")
}
