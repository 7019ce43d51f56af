package cmd

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"passkeep/internal/audit"
	"passkeep/internal/vault"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Shows the vault's audit log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		store, err := openStore()
		if err != nil {
			return notInitializedOr(err)
		}

		entries, err := audit.ReadEntries(filepath.Join(store.Root(), vault.KeysDirName))
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read audit log: %v", err)
		}

		if len(entries) == 0 {
			cmd.Println(color.RedString("✗") + " The audit log is empty")
			return nil
		}

		for _, e := range entries {
			line := e.Timestamp + "  " + color.CyanString(e.Operation)
			if e.Name != "" {
				line += "  " + e.Login + "@" + e.Name
			}
			if e.Query != "" {
				line += "  query=" + e.Query
			}
			cmd.Println(line)
		}
		return nil
	},
}
