package cmd

import (
	"errors"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/audit"
	pkerrors "passkeep/internal/errors"
	"passkeep/internal/vault"
)

var (
	updateName     string
	updateLogin    string
	updatePassword string
	updateComment  string
)

var updateCmd = &cobra.Command{
	Use:   "update <name> <login>",
	Short: "Changes fields of a stored credential",
	Long: `Overwrites fields of the credential stored under <name>/<login>. Only
the flags you pass are changed; a new password is re-encrypted, and a new
name or login relocates the record inside the vault.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, login := args[0], args[1]
		Logger.Infof("Starting update command for %s@%s", login, name)

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		var toUpdate vault.Update
		if cmd.Flags().Changed("name") {
			toUpdate.Name = &updateName
		}
		if cmd.Flags().Changed("login") {
			toUpdate.Login = &updateLogin
		}
		if cmd.Flags().Changed("password") {
			toUpdate.Password = &updatePassword
		}
		if cmd.Flags().Changed("comment") {
			toUpdate.Comment = &updateComment
		}

		if toUpdate.Name == nil && toUpdate.Login == nil && toUpdate.Password == nil && toUpdate.Comment == nil {
			cmd.Println(color.RedString("✗") + " Nothing to update\n" +
				color.CyanString("→") + " Pass at least one of " + color.YellowString("--name --login --password --comment"))
			return nil
		}

		credential, err := store.UpdateCredential(name, login, toUpdate)
		if err != nil {
			if errors.Is(err, pkerrors.ErrCredentialNotFound) {
				cmd.Println(color.RedString("✗") + " No credential stored for " + color.CyanString(login+"@"+name))
				return nil
			}
			return Logger.ErrorfAndReturn("failed to update credential: %v", err)
		}

		audit.Log(filepath.Join(store.Root(), vault.KeysDirName), audit.Entry{
			Operation: "update",
			Name:      credential.Name,
			Login:     credential.Login,
		})

		cmd.Println(color.GreenString("✓") + " Updated " + color.CyanString(credential.Login+"@"+credential.Name))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name> <login>",
	Short: "Deletes a stored credential",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, login := args[0], args[1]
		Logger.Infof("Starting remove command for %s@%s", login, name)

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		if err := store.Remove(name, login); err != nil {
			if errors.Is(err, pkerrors.ErrCredentialNotFound) {
				cmd.Println(color.RedString("✗") + " No credential stored for " + color.CyanString(login+"@"+name))
				return nil
			}
			return Logger.ErrorfAndReturn("failed to remove credential: %v", err)
		}

		audit.Log(filepath.Join(store.Root(), vault.KeysDirName), audit.Entry{
			Operation: "remove",
			Name:      name,
			Login:     login,
		})

		cmd.Println(color.GreenString("✓") + " Removed " + color.CyanString(login+"@"+name))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "new credential name")
	updateCmd.Flags().StringVarP(&updateLogin, "login", "l", "", "new login")
	addRecordFlags(updateCmd.Flags(), &updatePassword, &updateComment)
}
