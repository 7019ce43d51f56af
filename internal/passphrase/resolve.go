package passphrase

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

// EnvVar is consulted after the flag and before the OS keyring.
const EnvVar = "PASSKEEP_PASSPHRASE"

// Source describes where a passphrase may come from.
type Source struct {
	// Flag is the --passphrase flag value; wins when non-empty.
	Flag string

	// Account identifies the vault in the OS keyring (its root path).
	Account string

	// UseKeyring enables the OS keyring lookup step.
	UseKeyring bool

	// Keyring is the keyring implementation; nil selects the OS default.
	Keyring KeyringAPI

	// Prompt is the interactive fallback; nil selects the terminal prompt.
	Prompt func(label string) (string, error)
}

// Resolve returns the vault passphrase, trying flag, environment, OS
// keyring, and finally an interactive prompt.
func (s Source) Resolve() (string, error) {
	if s.Flag != "" {
		return s.Flag, nil
	}

	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}

	if s.UseKeyring {
		kr := s.Keyring
		if kr == nil {
			kr = defaultKeyring()
		}
		if value, err := kr.Get(Service, s.Account); err == nil && value != "" {
			return value, nil
		}
	}

	prompt := s.Prompt
	if prompt == nil {
		prompt = PromptTerminal
	}
	return prompt("Passphrase: ")
}

// Remember stores the passphrase for account in the OS keyring.
func Remember(account, value string, kr KeyringAPI) error {
	if kr == nil {
		kr = defaultKeyring()
	}
	return kr.Set(Service, account, value)
}

// Forget removes the stored passphrase for account from the OS keyring.
func Forget(account string, kr KeyringAPI) error {
	if kr == nil {
		kr = defaultKeyring()
	}
	return kr.Delete(Service, account)
}

// PromptTerminal reads a passphrase from the terminal with echo disabled.
func PromptTerminal(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	value, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(value), nil
}
