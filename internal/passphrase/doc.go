// Package passphrase resolves the vault passphrase for CLI commands.
//
// Resolution order:
//
//  1. The --passphrase flag value, when given
//  2. The PASSKEEP_PASSPHRASE environment variable
//  3. The OS keyring, when the user opted in with remember-passphrase
//  4. An interactive terminal prompt (input hidden)
//
// The OS keyring integration is a minimal interface so tests can inject
// a fake; the default implementation uses zalando/go-keyring.
package passphrase
