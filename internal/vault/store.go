package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	pkerrors "passkeep/internal/errors"
	"passkeep/internal/keyring"
)

// Store is the credential store rooted at a vault directory. All
// operations are synchronous and read the current on-disk state; nothing
// is cached between calls. A Store assumes a single active writer.
type Store struct {
	root        string
	provider    keyring.Provider
	fingerprint string
}

type storeConfig struct {
	provider     keyring.Provider
	keyBits      int
	importBundle string
}

// Option configures store creation.
type Option func(*storeConfig)

// WithProvider substitutes the cryptography engine. Used to select an
// alternative OpenPGP implementation at construction time.
func WithProvider(p keyring.Provider) Option {
	return func(c *storeConfig) { c.provider = p }
}

// WithKeyBits overrides the generated key length. Tests pass a short
// length to keep keyring provisioning fast.
func WithKeyBits(bits int) Option {
	return func(c *storeConfig) { c.keyBits = bits }
}

// WithImport provisions the keyring from an exported armored key bundle
// instead of generating a fresh identity.
func WithImport(bundle string) Option {
	return func(c *storeConfig) { c.importBundle = bundle }
}

// Create opens the store at root, provisioning the keyring first when the
// vault has none. An existing keyring is never regenerated; in that case
// passphrase is not verified here; decryption is the arbiter.
func Create(root, passphrase string, opts ...Option) (*Store, error) {
	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory at %s: %w", root, err)
	}

	provider := cfg.provider
	if provider == nil {
		var kopts []keyring.Option
		if cfg.keyBits > 0 {
			kopts = append(kopts, keyring.WithKeyBits(cfg.keyBits))
		}
		provider = keyring.NewPGP(filepath.Join(root, KeysDirName), kopts...)
	}

	if !provider.Exists() {
		var err error
		if cfg.importBundle != "" {
			_, err = provider.Import(cfg.importBundle, passphrase)
		} else {
			_, err = provider.Create(passphrase)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to provision keyring: %w", err)
		}
	}

	fingerprint, err := provider.Fingerprint(false)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring fingerprint: %w", err)
	}

	return &Store{
		root:        root,
		provider:    provider,
		fingerprint: fingerprint,
	}, nil
}

// KeyringExists reports whether root already holds a keyring.
func KeyringExists(root string) bool {
	return keyring.NewPGP(filepath.Join(root, KeysDirName)).Exists()
}

// Open opens an existing store at root. Unlike Create it never
// provisions a keyring: a vault without one yields ErrKeyNotFound.
func Open(root string, opts ...Option) (*Store, error) {
	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	provider := cfg.provider
	if provider == nil {
		provider = keyring.NewPGP(filepath.Join(root, KeysDirName))
	}

	if !provider.Exists() {
		return nil, fmt.Errorf("no keyring at %s: %w", root, pkerrors.ErrKeyNotFound)
	}

	fingerprint, err := provider.Fingerprint(false)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring fingerprint: %w", err)
	}

	return &Store{
		root:        root,
		provider:    provider,
		fingerprint: fingerprint,
	}, nil
}

// Root returns the vault root directory.
func (s *Store) Root() string {
	return s.root
}

// Add stores a new credential. The password is encrypted to the vault's
// own identity before it touches disk. The returned record is the logical
// one: it carries the caller-supplied plaintext password, so no decrypt
// round-trip is needed to use it.
func (s *Store) Add(name, login, password, comment string) (Credential, error) {
	path, err := ExpandPath(s.root, name, login)
	if err != nil {
		return Credential{}, err
	}

	if _, err := os.Stat(path); err == nil {
		return Credential{}, fmt.Errorf("%s@%s: %w", login, name, pkerrors.ErrCredentialExists)
	} else if !os.IsNotExist(err) {
		return Credential{}, fmt.Errorf("failed to check for existing credential: %w", err)
	}

	ciphertext, err := s.provider.Encrypt(password, s.fingerprint)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to encrypt password: %w", err)
	}

	stored := Credential{Name: name, Login: login, Password: ciphertext, Comment: comment}
	if err := s.writeRecord(path, stored); err != nil {
		return Credential{}, err
	}

	return Credential{Name: name, Login: login, Password: password, Comment: comment}, nil
}

// Get returns the credentials stored under name. With a non-empty login
// it returns at most one record, still wrapped in a slice for interface
// uniformity. Passwords are returned as stored (ciphertext); a missing
// credential yields an empty slice, never an error.
func (s *Store) Get(name, login string) ([]Credential, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if login == "" {
		all, err := s.List()
		if err != nil {
			return nil, err
		}
		matched := []Credential{}
		for _, c := range all {
			if c.Name == name {
				matched = append(matched, c)
			}
		}
		return matched, nil
	}

	path, err := ExpandPath(s.root, name, login)
	if err != nil {
		return nil, err
	}

	c, err := readRecord(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Credential{}, nil
		}
		return nil, err
	}
	return []Credential{c}, nil
}

// List returns every credential in the vault in filesystem enumeration
// order.
func (s *Store) List() ([]Credential, error) {
	credentials := []Credential{}

	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == KeysDirName && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), Extension) {
			return nil
		}

		c, err := readRecord(path)
		if err != nil {
			return err
		}
		credentials = append(credentials, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return credentials, nil
}

// Search returns the credentials whose name contains query as a
// case-insensitive substring. An empty query matches everything; a query
// matching nothing yields an empty slice.
func (s *Store) Search(query string) ([]Credential, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	matched := []Credential{}
	for _, c := range all {
		if c.Matches(query) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Filter returns the credentials whose logical name matches the doublestar
// glob pattern, e.g. "emails/**" or "*.com".
func (s *Store) Filter(pattern string) ([]Credential, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	all, err := s.List()
	if err != nil {
		return nil, err
	}

	matched := []Credential{}
	for _, c := range all {
		ok, err := doublestar.Match(pattern, c.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Remove deletes a credential and prunes category directories left empty,
// up to but excluding the vault root.
func (s *Store) Remove(name, login string) error {
	path, err := ExpandPath(s.root, name, login)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s@%s: %w", login, name, pkerrors.ErrCredentialNotFound)
		}
		return fmt.Errorf("failed to check credential file: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}

	return s.pruneEmptyDirs(filepath.Dir(path))
}

// Update describes a partial credential update. Nil fields keep their
// stored value.
type Update struct {
	Name     *string
	Login    *string
	Password *string
	Comment  *string
}

// UpdateCredential overwrites the stored fields of an existing credential.
// A changed password is re-encrypted; a changed name or login relocates
// the record (remove-then-add), so exactly one file exists per logical
// credential at all times. The returned record is logical in the same
// sense as Add: a freshly supplied password is returned in the clear,
// an untouched one as stored ciphertext.
func (s *Store) UpdateCredential(name, login string, toUpdate Update) (Credential, error) {
	oldPath, err := ExpandPath(s.root, name, login)
	if err != nil {
		return Credential{}, err
	}

	stored, err := readRecord(oldPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Credential{}, fmt.Errorf("%s@%s: %w", login, name, pkerrors.ErrCredentialNotFound)
		}
		return Credential{}, err
	}

	if toUpdate.Name != nil {
		stored.Name = *toUpdate.Name
	}
	if toUpdate.Login != nil {
		stored.Login = *toUpdate.Login
	}
	if toUpdate.Comment != nil {
		stored.Comment = *toUpdate.Comment
	}
	if toUpdate.Password != nil {
		ciphertext, err := s.provider.Encrypt(*toUpdate.Password, s.fingerprint)
		if err != nil {
			return Credential{}, fmt.Errorf("failed to encrypt password: %w", err)
		}
		stored.Password = ciphertext
	}

	newPath, err := ExpandPath(s.root, stored.Name, stored.Login)
	if err != nil {
		return Credential{}, err
	}

	if newPath != oldPath {
		if _, err := os.Stat(newPath); err == nil {
			return Credential{}, fmt.Errorf("%s@%s: %w", stored.Login, stored.Name, pkerrors.ErrCredentialExists)
		} else if !os.IsNotExist(err) {
			return Credential{}, fmt.Errorf("failed to check target path: %w", err)
		}
	}

	if err := s.writeRecord(newPath, stored); err != nil {
		return Credential{}, err
	}

	if newPath != oldPath {
		if err := os.Remove(oldPath); err != nil {
			return Credential{}, fmt.Errorf("failed to remove relocated credential: %w", err)
		}
		if err := s.pruneEmptyDirs(filepath.Dir(oldPath)); err != nil {
			return Credential{}, err
		}
	}

	logical := stored
	if toUpdate.Password != nil {
		logical.Password = *toUpdate.Password
	}
	return logical, nil
}

// Reveal returns a copy of the credential with its password decrypted.
func (s *Store) Reveal(c Credential, passphrase string) (Credential, error) {
	plaintext, err := s.provider.Decrypt(c.Password, passphrase)
	if err != nil {
		return Credential{}, err
	}
	c.Password = plaintext
	return c, nil
}

// Encrypt is a pass-through to the keyring provider, addressed to the
// vault's own identity.
func (s *Store) Encrypt(text string) (string, error) {
	return s.provider.Encrypt(text, s.fingerprint)
}

// Decrypt is a pass-through to the keyring provider.
func (s *Store) Decrypt(armored, passphrase string) (string, error) {
	return s.provider.Decrypt(armored, passphrase)
}

// Key returns the vault identity's fingerprint.
func (s *Store) Key(private bool) (string, error) {
	return s.provider.Fingerprint(private)
}

// Check reports whether passphrase matches the vault passphrase.
func (s *Store) Check(passphrase string) bool {
	return s.provider.Check(passphrase)
}

// ExportKey returns the armored key material for backup or transfer.
func (s *Store) ExportKey(private bool) (string, error) {
	return s.provider.Export(private)
}

func readRecord(path string) (Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credential{}, err
	}
	c, err := Deserialize(string(data))
	if err != nil {
		return Credential{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return c, nil
}

// writeRecord serializes the credential and writes it atomically through
// a temporary file. Category directories created for the write are
// removed again if the write fails.
func (s *Store) writeRecord(path string, c Credential) error {
	dir := filepath.Dir(path)

	created, err := makeCategoryDirs(s.root, dir)
	if err != nil {
		return err
	}

	text, err := c.Serialize()
	if err != nil {
		removeDirs(created)
		return err
	}

	tmp, err := os.CreateTemp(dir, ".passkeep-*")
	if err != nil {
		removeDirs(created)
		return fmt.Errorf("failed to create temporary record file: %w", err)
	}

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		removeDirs(created)
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		removeDirs(created)
		return fmt.Errorf("failed to close record file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		removeDirs(created)
		return fmt.Errorf("failed to move record into place: %w", err)
	}

	return nil
}

// makeCategoryDirs creates dir and any missing ancestors below root,
// returning the directories it created, deepest first.
func makeCategoryDirs(root, dir string) ([]string, error) {
	var missing []string
	for d := dir; d != root && strings.HasPrefix(d, root); d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to check category directory: %w", err)
		}
		missing = append(missing, d)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create category directories: %w", err)
	}

	return missing, nil
}

// removeDirs removes directories in order (deepest first), ignoring
// failures: cleanup after a failed write must not mask the write error.
func removeDirs(dirs []string) {
	for _, d := range dirs {
		_ = os.Remove(d)
	}
}

// pruneEmptyDirs removes dir and its ancestors while they are empty,
// stopping at (and never removing) the vault root.
func (s *Store) pruneEmptyDirs(dir string) error {
	for d := dir; d != s.root && strings.HasPrefix(d, s.root); d = filepath.Dir(d) {
		entries, err := os.ReadDir(d)
		if err != nil {
			return fmt.Errorf("failed to read category directory: %w", err)
		}
		if len(entries) > 0 {
			break
		}
		if err := os.Remove(d); err != nil {
			return fmt.Errorf("failed to remove empty category directory: %w", err)
		}
	}
	return nil
}
