package passphrase

import "github.com/zalando/go-keyring"

// Service is the OS keyring service name under which vault passphrases
// are stored. The account is the vault root path.
const Service = "passkeep"

// KeyringAPI is a minimal abstraction over the OS keyring, so tests can
// substitute a fake and platforms without a keyring degrade gracefully.
type KeyringAPI interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, account string) (string, error) {
	return keyring.Get(service, account)
}

func (osKeyring) Set(service, account, value string) error {
	return keyring.Set(service, account, value)
}

func (osKeyring) Delete(service, account string) error {
	return keyring.Delete(service, account)
}

func defaultKeyring() KeyringAPI {
	return osKeyring{}
}
