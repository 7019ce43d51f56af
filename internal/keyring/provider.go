package keyring

// Identity describes the keyring's encryption identity.
type Identity struct {
	// Fingerprint is the uppercase hex fingerprint of the primary key.
	Fingerprint string

	// Name and Email are taken from the key's primary user ID.
	Name  string
	Email string
}

// Provider is the capability interface over the cryptography engine.
// The vault store consumes the engine exclusively through it, so any
// OpenPGP-compatible implementation can be selected at construction time.
type Provider interface {
	// Exists reports whether the keyring directory already holds an identity.
	Exists() bool

	// Create generates a fresh key pair protected by passphrase and writes
	// it to the keyring directory. It generates unconditionally; callers
	// gate on Exists.
	Create(passphrase string) (Identity, error)

	// Import provisions the keyring from an armored key bundle (public and
	// secret blocks, possibly concatenated) instead of generating.
	Import(bundle, passphrase string) (Identity, error)

	// Export returns the armored public key material, or the public and
	// secret material concatenated when private is true.
	Export(private bool) (string, error)

	// Encrypt returns an armored ciphertext addressed to the identity with
	// the given fingerprint. Never requires the passphrase.
	Encrypt(plaintext, recipient string) (string, error)

	// Decrypt decrypts an armored ciphertext using the secret key unlocked
	// by passphrase. Fails with ErrDecryptionFailed on a wrong passphrase
	// or a ciphertext not addressed to this identity.
	Decrypt(armored, passphrase string) (string, error)

	// Fingerprint returns the identity's fingerprint from the public ring,
	// or from the secret ring when private is true. Fails with
	// ErrKeyNotFound when the keyring is empty.
	Fingerprint(private bool) (string, error)

	// Check reports whether passphrase matches the keyring's passphrase.
	Check(passphrase string) bool
}
