package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	keyPrivate bool
	keyExport  bool
	keyOutput  string
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Shows or exports the vault's key",
	Long: `Prints the fingerprint of the vault's encryption identity. With
--export, writes the armored key material instead (public only, or the
full key pair with --private) so it can be backed up or imported into
another vault with 'passkeep init --import'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key command (private=%t export=%t)", keyPrivate, keyExport)

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		if keyExport {
			bundle, err := store.ExportKey(keyPrivate)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to export key: %v", err)
			}
			if keyOutput != "" {
				if err := os.WriteFile(keyOutput, []byte(bundle), 0600); err != nil {
					return Logger.ErrorfAndReturn("failed to write key bundle: %v", err)
				}
				cmd.Println(color.GreenString("✓") + " Key material written to " + color.YellowString(keyOutput))
				return nil
			}
			cmd.Print(bundle)
			return nil
		}

		fingerprint, err := store.Key(keyPrivate)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read key fingerprint: %v", err)
		}
		cmd.Println(fingerprint)
		return nil
	},
}

func init() {
	keyCmd.Flags().BoolVar(&keyPrivate, "private", false, "use the secret key instead of the public one")
	keyCmd.Flags().BoolVar(&keyExport, "export", false, "write armored key material instead of the fingerprint")
	keyCmd.Flags().StringVarP(&keyOutput, "output", "o", "", "write the exported key material to a file")
}
