package cmd

import (
	"errors"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/audit"
	pkerrors "passkeep/internal/errors"
	"passkeep/internal/passphrase"
	"passkeep/internal/vault"
)

var (
	addPassword string
	addComment  string
)

var addCmd = &cobra.Command{
	Use:   "add <name> <login>",
	Short: "Encrypts and stores a new credential",
	Long: `Stores a credential under <name>/<login>. The name may contain slashes
to file the credential under nested categories, e.g.
"emails/misc/example.com". The password is encrypted to the vault's own
key; adding never needs the passphrase.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, login := args[0], args[1]
		Logger.Infof("Starting add command for %s@%s", login, name)

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		password := addPassword
		if password == "" {
			password, err = passphrase.PromptTerminal("Password for " + login + "@" + name + ": ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
		}

		credential, err := store.Add(name, login, password, addComment)
		if err != nil {
			if errors.Is(err, pkerrors.ErrCredentialExists) {
				finalMessage := color.RedString("✗") + " A credential for " + color.CyanString(login+"@"+name) + " already exists\n" +
					color.CyanString("→") + " Run " + color.YellowString("passkeep update "+name+" "+login) + " to change it"
				cmd.Println(finalMessage)
				return nil
			}
			return Logger.ErrorfAndReturn("failed to add credential: %v", err)
		}

		audit.Log(filepath.Join(store.Root(), vault.KeysDirName), audit.Entry{
			Operation: "add",
			Name:      credential.Name,
			Login:     credential.Login,
		})

		Logger.Infof("Stored credential for %s@%s", credential.Login, credential.Name)
		cmd.Println(color.GreenString("✓") + " Stored " + color.CyanString(credential.Login+"@"+credential.Name))
		return nil
	},
}

// notInitializedOr renders a friendly hint when the vault has no keyring
// and falls back to plain error logging otherwise.
func notInitializedOr(err error) error {
	if errors.Is(err, pkerrors.ErrKeyNotFound) {
		return Logger.ErrorfAndReturn("vault has not been initialized; run `passkeep init` first")
	}
	return Logger.ErrorfAndReturn("failed to open vault: %v", err)
}

func init() {
	addRecordFlags(addCmd.Flags(), &addPassword, &addComment)
}
