// Package vault implements the encrypted credential store.
//
// # Layout
//
// A vault is a directory tree. The reserved .keys subdirectory holds the
// OpenPGP keyring; every other leaf file corresponds to exactly one
// logical credential:
//
//	<root>/.keys/                      keyring (see package keyring)
//	<root>/<name-as-path>/<login>.cred one credential record
//
// A credential name may contain slashes to express nested categories
// ("emails/misc/example.com"); each segment maps to a directory level.
// Removing the last credential of a category also removes the now-empty
// category directories up to, but excluding, the vault root.
//
// # Records
//
// A record file is YAML with four fields: name, login, password and
// comment. Name, login and comment are stored in the clear; the password
// value is an armored PGP message addressed to the vault's own identity.
// Get and Search never decrypt; Reveal decrypts a single record on
// demand with the vault passphrase.
//
// # Consistency
//
// The store keeps no in-memory cache; every read re-walks the tree, so
// results always reflect the current on-disk state. Mutations write
// through a temporary file and rename it into place, and directories
// created for a failed write are removed again. The vault is designed
// for a single active writer; no cross-process locking is performed.
package vault
