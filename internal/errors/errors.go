package errors

import "errors"

// Credential errors indicate problems with the logical credential set.
var (
	// ErrCredentialExists indicates a credential with the same name and login
	// is already stored.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrCredentialNotFound indicates no credential matches the given name
	// and login.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrInvalidName indicates a credential name that would escape the vault
	// root or is otherwise unsafe as a path.
	ErrInvalidName = errors.New("invalid credential name")
)

// Record errors indicate problems with a credential file's content.
var (
	// ErrMalformedRecord indicates a credential file could not be parsed.
	ErrMalformedRecord = errors.New("malformed credential record")
)

// Keyring errors indicate problems with the vault's cryptographic identity.
var (
	// ErrKeyNotFound indicates the keyring is empty or missing.
	ErrKeyNotFound = errors.New("key not found in keyring")

	// ErrDecryptionFailed indicates a wrong passphrase or a ciphertext that
	// is malformed or not addressed to this identity.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrWrongPassphrase indicates the passphrase did not match the keyring's
	// passphrase check.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)
