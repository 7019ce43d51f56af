package cmd

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/audit"
	"passkeep/internal/vault"
)

var searchGlob bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches credential names",
	Long: `Lists the credentials whose name contains <query> as a case-insensitive
substring. With --glob the query is a doublestar pattern matched against
the full logical name instead, e.g. "emails/**" or "*.com".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		Logger.Infof("Starting search command for %q (glob=%t)", query, searchGlob)

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		var matched []vault.Credential
		if searchGlob {
			matched, err = store.Filter(query)
		} else {
			matched, err = store.Search(query)
		}
		if err != nil {
			return Logger.ErrorfAndReturn("search failed: %v", err)
		}

		audit.Log(filepath.Join(store.Root(), vault.KeysDirName), audit.Entry{
			Operation: "search",
			Query:     query,
			Matched:   len(matched),
		})

		if len(matched) == 0 {
			cmd.Println(color.RedString("✗") + " No credentials match " + color.CyanString(query))
			return nil
		}

		for _, c := range matched {
			printCredentialLine(c.Name, c.Login, c.Comment)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every stored credential",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		credentials, err := store.List()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to list credentials: %v", err)
		}

		if len(credentials) == 0 {
			cmd.Println(color.RedString("✗") + " The vault is empty\n" +
				color.CyanString("→") + " Run " + color.YellowString("passkeep add <name> <login>") + " to store a credential")
			return nil
		}

		for _, c := range credentials {
			printCredentialLine(c.Name, c.Login, c.Comment)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchGlob, "glob", false, "treat the query as a glob pattern over the full name")
}
