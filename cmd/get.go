package cmd

import (
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/audit"
	"passkeep/internal/vault"
)

var getCopy bool

var getCmd = &cobra.Command{
	Use:   "get <name> [login]",
	Short: "Looks up stored credentials by name",
	Long: `Prints the credentials stored under <name>. Passwords are shown masked;
use 'passkeep show' to reveal one, or --copy to place it on the clipboard
without displaying it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		login := ""
		if len(args) == 2 {
			login = args[1]
		}
		Logger.Infof("Starting get command for name=%s login=%s", name, login)

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		credentials, err := store.Get(name, login)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to get credentials: %v", err)
		}

		if len(credentials) == 0 {
			cmd.Println(color.RedString("✗") + " No credentials stored under " + color.CyanString(name))
			return nil
		}

		if getCopy {
			if len(credentials) > 1 {
				return Logger.ErrorfAndReturn("--copy needs a single credential; pass the login too")
			}
			pass, err := resolvePassphrase(store.Root())
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
			}
			revealed, err := store.Reveal(credentials[0], pass)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to decrypt password: %v", err)
			}
			if err := clipboard.WriteAll(revealed.Password); err != nil {
				return Logger.ErrorfAndReturn("failed to copy to clipboard: %v", err)
			}
			audit.Log(filepath.Join(store.Root(), vault.KeysDirName), audit.Entry{
				Operation: "reveal",
				Name:      revealed.Name,
				Login:     revealed.Login,
			})
			cmd.Println(color.GreenString("✓") + " Password copied to clipboard")
			return nil
		}

		for _, c := range credentials {
			printCredentialLine(c.Name, c.Login, c.Comment)
		}
		return nil
	},
}

func init() {
	getCmd.Flags().BoolVar(&getCopy, "copy", false, "copy the decrypted password to the clipboard")
}
