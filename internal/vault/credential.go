package vault

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	pkerrors "passkeep/internal/errors"
)

// Credential is the in-memory value object for one secret. Whether the
// Password field holds plaintext or armored ciphertext depends on where
// the value came from: records returned by Get, List and Search carry the
// ciphertext as stored; records returned by Add and Reveal carry the
// plaintext. A Credential is a plain value; mutating a copy returned by
// the store never mutates the store.
type Credential struct {
	Name     string `yaml:"name"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Comment  string `yaml:"comment"`
}

// Serialize encodes the credential as the record file content.
func (c Credential) Serialize() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize credential: %w", err)
	}
	return string(out), nil
}

// Deserialize parses record file content back into a credential.
func Deserialize(text string) (Credential, error) {
	var c Credential
	if err := yaml.Unmarshal([]byte(text), &c); err != nil {
		return Credential{}, fmt.Errorf("%w: %v", pkerrors.ErrMalformedRecord, err)
	}
	if c.Name == "" && c.Login == "" {
		return Credential{}, fmt.Errorf("%w: missing name and login", pkerrors.ErrMalformedRecord)
	}
	return c, nil
}

// Matches reports whether the credential's name contains query as a
// case-insensitive substring. An empty query matches everything.
func (c Credential) Matches(query string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
}
