package keyring

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"golang.org/x/crypto/bcrypt"

	pkerrors "passkeep/internal/errors"
)

const (
	// PubringName and SecringName are the armored key files inside the
	// keyring directory.
	PubringName = "pubring.asc"
	SecringName = "secring.asc"

	// CheckName holds a bcrypt hash of the keyring passphrase for fast
	// verification without a decrypt round-trip.
	CheckName = "passphrase.check"

	messageType = "PGP MESSAGE"

	defaultKeyBits = 2048
	defaultName    = "Passkeep"
	defaultComment = "Generated by passkeep"
	defaultEmail   = "passkeep@localhost"
)

// PGP is the OpenPGP Provider implementation backed by ProtonMail/go-crypto.
// Key material is read from disk on every call; the struct itself is
// stateless apart from configuration.
type PGP struct {
	dir  string
	bits int

	name    string
	comment string
	email   string
}

// Option configures a PGP provider at construction time.
type Option func(*PGP)

// WithKeyBits overrides the RSA key length. Tests use a short length to
// keep key generation fast.
func WithKeyBits(bits int) Option {
	return func(p *PGP) { p.bits = bits }
}

// WithIdentity overrides the generated key's user ID.
func WithIdentity(name, email string) Option {
	return func(p *PGP) {
		p.name = name
		p.email = email
	}
}

// NewPGP returns a provider rooted at dir. The directory is created on
// first Create or Import.
func NewPGP(dir string, opts ...Option) *PGP {
	p := &PGP{
		dir:     dir,
		bits:    defaultKeyBits,
		name:    defaultName,
		comment: defaultComment,
		email:   defaultEmail,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dir returns the keyring directory.
func (p *PGP) Dir() string {
	return p.dir
}

func (p *PGP) pubringPath() string { return filepath.Join(p.dir, PubringName) }
func (p *PGP) secringPath() string { return filepath.Join(p.dir, SecringName) }
func (p *PGP) checkPath() string   { return filepath.Join(p.dir, CheckName) }

// Exists reports whether both key rings are present on disk.
func (p *PGP) Exists() bool {
	if _, err := os.Stat(p.pubringPath()); err != nil {
		return false
	}
	if _, err := os.Stat(p.secringPath()); err != nil {
		return false
	}
	return true
}

// Create generates a fresh identity protected by passphrase and writes the
// armored rings plus the passphrase check file.
func (p *PGP) Create(passphrase string) (Identity, error) {
	config := &packet.Config{RSABits: p.bits}

	entity, err := openpgp.NewEntity(p.name, p.comment, p.email, config)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to generate key pair: %w", err)
	}

	if passphrase != "" {
		if err := lockEntity(entity, passphrase); err != nil {
			return Identity{}, err
		}
	}

	if err := p.writeRings([]*openpgp.Entity{entity}, passphrase); err != nil {
		return Identity{}, err
	}

	return identityOf(entity), nil
}

// Import provisions the keyring from an exported armored bundle. The bundle
// may contain separate public and secret key blocks; all of them are read.
func (p *PGP) Import(bundle, passphrase string) (Identity, error) {
	var entities openpgp.EntityList
	for _, block := range splitArmored(bundle) {
		ents, err := openpgp.ReadArmoredKeyRing(strings.NewReader(block))
		if err != nil {
			return Identity{}, fmt.Errorf("failed to read key bundle: %w", err)
		}
		entities = append(entities, ents...)
	}

	// Prefer the entity carrying secret key material; without it the
	// keyring could never decrypt.
	var keyEntity *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			keyEntity = e
			break
		}
	}
	if keyEntity == nil {
		return Identity{}, fmt.Errorf("key bundle contains no secret key: %w", pkerrors.ErrKeyNotFound)
	}

	if err := p.writeRings([]*openpgp.Entity{keyEntity}, passphrase); err != nil {
		return Identity{}, err
	}

	return identityOf(keyEntity), nil
}

// Export returns the armored public material, plus the secret material when
// private is true.
func (p *PGP) Export(private bool) (string, error) {
	pub, err := os.ReadFile(p.pubringPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", pkerrors.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read public ring: %w", err)
	}
	out := strings.TrimRight(string(pub), "\n") + "\n"

	if private {
		sec, err := os.ReadFile(p.secringPath())
		if err != nil {
			if os.IsNotExist(err) {
				return "", pkerrors.ErrKeyNotFound
			}
			return "", fmt.Errorf("failed to read secret ring: %w", err)
		}
		out += strings.TrimRight(string(sec), "\n") + "\n"
	}

	return out, nil
}

// Encrypt produces an armored ciphertext addressed to the identity with the
// given fingerprint.
func (p *PGP) Encrypt(plaintext, recipient string) (string, error) {
	entities, err := p.readRing(p.pubringPath())
	if err != nil {
		return "", err
	}

	var to *openpgp.Entity
	for _, e := range entities {
		if fingerprintOf(e) == recipient {
			to = e
			break
		}
	}
	if to == nil {
		return "", fmt.Errorf("no key with fingerprint %s: %w", recipient, pkerrors.ErrKeyNotFound)
	}

	var buf bytes.Buffer
	armorWriter, err := armor.Encode(&buf, messageType, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start armor block: %w", err)
	}

	plainWriter, err := openpgp.Encrypt(armorWriter, []*openpgp.Entity{to}, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	if _, err := io.WriteString(plainWriter, plaintext); err != nil {
		return "", fmt.Errorf("failed to write plaintext: %w", err)
	}
	if err := plainWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to finish encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to finish armor block: %w", err)
	}

	return buf.String(), nil
}

// Decrypt unlocks the secret key with passphrase and decrypts the armored
// ciphertext.
func (p *PGP) Decrypt(armored, passphrase string) (string, error) {
	entities, err := p.readRing(p.secringPath())
	if err != nil {
		return "", err
	}

	for _, e := range entities {
		if err := unlockEntity(e, passphrase); err != nil {
			return "", fmt.Errorf("%w: %v", pkerrors.ErrDecryptionFailed, err)
		}
	}

	block, err := armor.Decode(strings.NewReader(armored))
	if err != nil {
		return "", fmt.Errorf("%w: not an armored message", pkerrors.ErrDecryptionFailed)
	}

	md, err := openpgp.ReadMessage(block.Body, entities, nil, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkerrors.ErrDecryptionFailed, err)
	}

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkerrors.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// Fingerprint returns the identity's fingerprint from the public ring, or
// from the secret ring when private is true.
func (p *PGP) Fingerprint(private bool) (string, error) {
	path := p.pubringPath()
	if private {
		path = p.secringPath()
	}

	entities, err := p.readRing(path)
	if err != nil {
		return "", err
	}
	if len(entities) == 0 {
		return "", pkerrors.ErrKeyNotFound
	}

	return fingerprintOf(entities[0]), nil
}

// Check reports whether passphrase matches the stored passphrase check.
// When the check file is missing (keyrings imported by older versions),
// it falls back to attempting to unlock the secret key.
func (p *PGP) Check(passphrase string) bool {
	hash, err := os.ReadFile(p.checkPath())
	if err == nil {
		return bcrypt.CompareHashAndPassword(hash, []byte(passphrase)) == nil
	}

	entities, err := p.readRing(p.secringPath())
	if err != nil || len(entities) == 0 {
		return false
	}
	return unlockEntity(entities[0], passphrase) == nil
}

func (p *PGP) readRing(path string) (openpgp.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkerrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to open keyring file %s: %w", path, err)
	}
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keyring file %s: %w", path, err)
	}
	return entities, nil
}

// writeRings writes the armored public and secret rings and the bcrypt
// passphrase check file.
func (p *PGP) writeRings(entities []*openpgp.Entity, passphrase string) error {
	if err := os.MkdirAll(p.dir, 0700); err != nil {
		return fmt.Errorf("failed to create keyring directory at %s: %w", p.dir, err)
	}

	var pub bytes.Buffer
	pubArmor, err := armor.Encode(&pub, openpgp.PublicKeyType, nil)
	if err != nil {
		return fmt.Errorf("failed to start public armor block: %w", err)
	}
	for _, e := range entities {
		if err := e.Serialize(pubArmor); err != nil {
			return fmt.Errorf("failed to serialize public key: %w", err)
		}
	}
	if err := pubArmor.Close(); err != nil {
		return fmt.Errorf("failed to finish public armor block: %w", err)
	}

	var sec bytes.Buffer
	secArmor, err := armor.Encode(&sec, openpgp.PrivateKeyType, nil)
	if err != nil {
		return fmt.Errorf("failed to start secret armor block: %w", err)
	}
	for _, e := range entities {
		if e.PrivateKey == nil {
			continue
		}
		if err := e.SerializePrivateWithoutSigning(secArmor, nil); err != nil {
			return fmt.Errorf("failed to serialize secret key: %w", err)
		}
	}
	if err := secArmor.Close(); err != nil {
		return fmt.Errorf("failed to finish secret armor block: %w", err)
	}

	if err := os.WriteFile(p.pubringPath(), pub.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write public ring: %w", err)
	}
	if err := os.WriteFile(p.secringPath(), sec.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write secret ring: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash passphrase: %w", err)
	}
	if err := os.WriteFile(p.checkPath(), hash, 0600); err != nil {
		return fmt.Errorf("failed to write passphrase check: %w", err)
	}

	return nil
}

// lockEntity protects all private key packets with passphrase.
func lockEntity(e *openpgp.Entity, passphrase string) error {
	if e.PrivateKey != nil && !e.PrivateKey.Encrypted {
		if err := e.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
			return fmt.Errorf("failed to protect private key: %w", err)
		}
	}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil && !sub.PrivateKey.Encrypted {
			if err := sub.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
				return fmt.Errorf("failed to protect subkey: %w", err)
			}
		}
	}
	return nil
}

// unlockEntity decrypts all private key packets with passphrase.
func unlockEntity(e *openpgp.Entity, passphrase string) error {
	if e.PrivateKey != nil && e.PrivateKey.Encrypted {
		if err := e.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
			return err
		}
	}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			if err := sub.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return err
			}
		}
	}
	return nil
}

func fingerprintOf(e *openpgp.Entity) string {
	return fmt.Sprintf("%X", e.PrimaryKey.Fingerprint)
}

func identityOf(e *openpgp.Entity) Identity {
	id := Identity{Fingerprint: fingerprintOf(e)}
	for _, uid := range e.Identities {
		if uid.UserId != nil {
			id.Name = uid.UserId.Name
			id.Email = uid.UserId.Email
		}
		break
	}
	return id
}

// splitArmored splits text into individual armored blocks. Exported key
// bundles often concatenate the public and secret blocks in one file.
func splitArmored(text string) []string {
	var blocks []string
	var current []string
	inBlock := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-----BEGIN PGP ") {
			inBlock = true
			current = current[:0]
		}
		if inBlock {
			current = append(current, line)
		}
		if strings.HasPrefix(trimmed, "-----END PGP ") {
			inBlock = false
			blocks = append(blocks, strings.Join(current, "\n")+"\n")
		}
	}

	return blocks
}
