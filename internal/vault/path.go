package vault

import (
	"fmt"
	"path/filepath"
	"strings"

	pkerrors "passkeep/internal/errors"
)

const (
	// Extension marks a file as a credential record.
	Extension = ".cred"

	// KeysDirName is the reserved subdirectory holding the keyring.
	KeysDirName = ".keys"
)

// ValidateName rejects credential names that would escape the vault root
// or collide with the reserved keyring directory. Names are slash-
// delimited category chains; every segment must be a plain directory name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", pkerrors.ErrInvalidName)
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return fmt.Errorf("absolute name %q: %w", name, pkerrors.ErrInvalidName)
	}
	if strings.ContainsRune(name, '\\') {
		return fmt.Errorf("backslash in name %q: %w", name, pkerrors.ErrInvalidName)
	}
	for i, segment := range strings.Split(name, "/") {
		switch segment {
		case "", ".", "..":
			return fmt.Errorf("unsafe segment in name %q: %w", name, pkerrors.ErrInvalidName)
		}
		if i == 0 && segment == KeysDirName {
			return fmt.Errorf("name %q collides with the keyring directory: %w", name, pkerrors.ErrInvalidName)
		}
	}
	return nil
}

// ValidateLogin rejects logins that cannot serve as a file name.
func ValidateLogin(login string) error {
	if login == "" {
		return fmt.Errorf("empty login: %w", pkerrors.ErrInvalidName)
	}
	if strings.ContainsAny(login, "/\\") || login == "." || login == ".." {
		return fmt.Errorf("unsafe login %q: %w", login, pkerrors.ErrInvalidName)
	}
	return nil
}

// ExpandPath maps a logical credential identity to its file location
// under root. Pure function, no I/O.
func ExpandPath(root, name, login string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := ValidateLogin(login); err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(name), login+Extension), nil
}
