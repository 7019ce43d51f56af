package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/pflag"

	"passkeep/internal/configs"
	"passkeep/internal/passphrase"
	"passkeep/internal/ui"
	"passkeep/internal/vault"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. Returns the spinner and a function that should
// be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup
// function calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// openStore opens the vault at the resolved path without provisioning a
// new keyring; commands other than init expect the vault to exist.
func openStore() (*vault.Store, error) {
	return vault.Open(resolveVaultPath())
}

// resolvePassphrase resolves the vault passphrase for commands that
// decrypt, honoring the flag, environment, OS keyring and prompt chain.
func resolvePassphrase(root string) (string, error) {
	useKeyring := false
	if config, err := configs.LoadUserConfig(); err == nil {
		useKeyring = config.Defaults.RememberPassphrase
	}

	return passphrase.Source{
		Flag:       passphraseFlag,
		Account:    root,
		UseKeyring: useKeyring,
	}.Resolve()
}

// addRecordFlags binds the credential field flags shared by add and update.
func addRecordFlags(flags *pflag.FlagSet, password, comment *string) {
	flags.StringVarP(password, "password", "p", "", "credential password (prompted when omitted)")
	flags.StringVarP(comment, "comment", "c", "", "free-text comment")
}

// maskedPassword is what list-style output shows in place of a password.
const maskedPassword = "***"

// printCredentialLine prints one credential in the two-column browse format.
func printCredentialLine(name, login, comment string) {
	line := fmt.Sprintf("%s  %s  %s", ui.Highlight.Sprint(name), login, maskedPassword)
	if comment != "" {
		line += "  " + ui.Muted.Sprint(comment)
	}
	fmt.Println(line)
}
