// Package keyring wraps the OpenPGP engine behind a capability interface.
//
// A keyring is a directory holding exactly one encryption identity as
// armored key material:
//
//	<dir>/pubring.asc        public key
//	<dir>/secring.asc        passphrase-protected secret key
//	<dir>/passphrase.check   bcrypt hash used for fast passphrase checks
//
// The Provider interface exposes the operations the vault store needs:
// key-pair generation and import, encrypt-to-identity, decrypt-with-
// passphrase, fingerprint lookup, and export. Any OpenPGP-compatible
// engine can be substituted behind it; the concrete implementation here
// uses ProtonMail/go-crypto.
//
// All side effects stay inside the keyring directory. Key material is
// re-read from disk on every operation; the provider holds no state
// beyond its configuration.
package keyring
