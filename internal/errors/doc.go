// Package errors provides typed error values for the passkeep vault.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Credential errors: problems with the logical credential set
//     (ErrCredentialExists, ErrCredentialNotFound, ErrInvalidName)
//   - Record errors: problems with a credential file's content
//     (ErrMalformedRecord)
//   - Keyring errors: problems with the vault identity
//     (ErrKeyNotFound, ErrDecryptionFailed)
//
// # Usage
//
// Return errors from internal packages:
//
//	if _, err := os.Stat(path); err == nil {
//	    return Credential{}, pkerrors.ErrCredentialExists
//	}
//
// Handle errors in the CLI layer:
//
//	cred, err := store.Add(name, login, password, comment)
//	if errors.Is(err, pkerrors.ErrCredentialExists) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("removing %s@%s: %w", login, name, pkerrors.ErrCredentialNotFound)
package errors
