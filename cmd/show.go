package cmd

import (
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/audit"
	pkerrors "passkeep/internal/errors"
	"passkeep/internal/vault"
)

var showCopy bool

var showCmd = &cobra.Command{
	Use:   "show <name> <login>",
	Short: "Decrypts and reveals one credential",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, login := args[0], args[1]
		Logger.Infof("Starting show command for %s@%s", login, name)

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		credentials, err := store.Get(name, login)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to get credential: %v", err)
		}
		if len(credentials) == 0 {
			cmd.Println(color.RedString("✗") + " No credential stored for " + color.CyanString(login+"@"+name))
			return nil
		}

		pass, err := resolvePassphrase(store.Root())
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}

		// Fast-fail on a wrong passphrase before touching the ciphertext.
		if !store.Check(pass) {
			return Logger.ErrorfAndReturn("%w", pkerrors.ErrWrongPassphrase)
		}

		revealed, err := store.Reveal(credentials[0], pass)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to decrypt password: %v", err)
		}

		audit.Log(filepath.Join(store.Root(), vault.KeysDirName), audit.Entry{
			Operation: "reveal",
			Name:      revealed.Name,
			Login:     revealed.Login,
		})

		if showCopy {
			if err := clipboard.WriteAll(revealed.Password); err != nil {
				return Logger.ErrorfAndReturn("failed to copy to clipboard: %v", err)
			}
			cmd.Println(color.GreenString("✓") + " Password copied to clipboard")
			return nil
		}

		cmd.Printf("Name:     %s\n", revealed.Name)
		cmd.Printf("Login:    %s\n", revealed.Login)
		cmd.Printf("Password: %s\n", revealed.Password)
		if revealed.Comment != "" {
			cmd.Printf("Comment:  %s\n", revealed.Comment)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showCopy, "copy", false, "copy the decrypted password to the clipboard instead of printing it")
}
