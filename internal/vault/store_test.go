package vault

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	pkerrors "passkeep/internal/errors"
	"passkeep/internal/keyring"
)

const testPassphrase = "dummy_passphrase"

var (
	testKeysOnce sync.Once
	testKeysDir  string
	testKeysErr  error
)

// newTestStore opens a store over a fresh vault directory. The keyring is
// generated once per test run with a short key and copied into each vault,
// so tests don't pay for key generation repeatedly.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	testKeysOnce.Do(func() {
		dir, err := os.MkdirTemp("", "passkeep-test-keys-*")
		if err != nil {
			testKeysErr = err
			return
		}
		if _, err := keyring.NewPGP(dir, keyring.WithKeyBits(1024)).Create(testPassphrase); err != nil {
			testKeysErr = err
			return
		}
		testKeysDir = dir
	})
	if testKeysErr != nil {
		t.Fatalf("Failed to build test keyring: %v", testKeysErr)
	}

	root := t.TempDir()
	keysDir := filepath.Join(root, KeysDirName)
	if err := os.MkdirAll(keysDir, 0700); err != nil {
		t.Fatalf("Failed to create keys dir: %v", err)
	}
	for _, name := range []string{keyring.PubringName, keyring.SecringName, keyring.CheckName} {
		data, err := os.ReadFile(filepath.Join(testKeysDir, name))
		if err != nil {
			t.Fatalf("Failed to read test keyring file %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(keysDir, name), data, 0600); err != nil {
			t.Fatalf("Failed to copy test keyring file %s: %v", name, err)
		}
	}

	store, err := Open(root)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	return store
}

func mustAdd(t *testing.T, s *Store, name, login string) Credential {
	t.Helper()
	c, err := s.Add(name, login, "secret", "Some comments")
	if err != nil {
		t.Fatalf("Add failed for %s@%s: %v", login, name, err)
	}
	return c
}

func TestCreateProvisionsKeyring(t *testing.T) {
	root := t.TempDir()

	store, err := Create(root, testPassphrase, WithKeyBits(1024))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, name := range []string{keyring.PubringName, keyring.SecringName} {
		path := filepath.Join(root, KeysDirName, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected keyring file %s to exist: %v", path, err)
		}
	}

	if _, err := store.Key(false); err != nil {
		t.Errorf("Expected fingerprint after provisioning, got: %v", err)
	}
}

func TestCreateDoesNotRegenerateExistingKeyring(t *testing.T) {
	store := newTestStore(t)
	before, err := store.Key(false)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	reopened, err := Create(store.Root(), testPassphrase, WithKeyBits(1024))
	if err != nil {
		t.Fatalf("Create on existing vault failed: %v", err)
	}
	after, err := reopened.Key(false)
	if err != nil {
		t.Fatalf("Key failed after reopen: %v", err)
	}

	if before != after {
		t.Errorf("Expected the existing identity to survive, got %s then %s", before, after)
	}
}

func TestOpenWithoutKeyringFails(t *testing.T) {
	if _, err := Open(t.TempDir()); !errors.Is(err, pkerrors.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got: %v", err)
	}
}

func TestAddCreatesRecordFileNamedAfterLogin(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")

	path := filepath.Join(store.Root(), "example.com", "john.doe"+Extension)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected record file at %s: %v", path, err)
	}
	if info.IsDir() {
		t.Fatalf("Expected a file at %s", path)
	}
}

func TestAddCreatesNestedCategoryDirectories(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "emails/misc/example.com", "john.doe")

	for _, dir := range []string{"emails", filepath.Join("emails", "misc")} {
		info, err := os.Stat(filepath.Join(store.Root(), dir))
		if err != nil || !info.IsDir() {
			t.Errorf("Expected category directory %s, got err=%v", dir, err)
		}
	}
}

func TestAddReturnsLogicalRecord(t *testing.T) {
	store := newTestStore(t)

	credential, err := store.Add("example.com", "john.doe", "secret", "Some comments")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if credential.Password != "secret" {
		t.Errorf("Expected the returned record to carry the plaintext password, got: %q", credential.Password)
	}

	// The stored record must carry ciphertext, not the plaintext.
	stored, err := store.Get("example.com", "john.doe")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("Expected 1 stored record, got: %d", len(stored))
	}
	if !strings.Contains(stored[0].Password, "-----BEGIN PGP MESSAGE-----") {
		t.Errorf("Expected stored password to be an armored PGP message, got: %q", stored[0].Password)
	}
	if strings.Contains(stored[0].Password, "secret") {
		t.Error("Plaintext password leaked into the stored record")
	}
}

func TestAddDuplicateFailsAndKeepsOriginal(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")

	path := filepath.Join(store.Root(), "example.com", "john.doe"+Extension)
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read stored record: %v", err)
	}

	_, err = store.Add("example.com", "john.doe", "other", "other")
	if !errors.Is(err, pkerrors.ErrCredentialExists) {
		t.Fatalf("Expected ErrCredentialExists, got: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to re-read stored record: %v", err)
	}
	if string(original) != string(after) {
		t.Error("Expected the first record to be untouched by the failed add")
	}
}

func TestAddRejectsEscapingName(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Add("../outside", "john.doe", "secret", ""); !errors.Is(err, pkerrors.ErrInvalidName) {
		t.Errorf("Expected ErrInvalidName, got: %v", err)
	}

	// Nothing may be created outside or inside the root by the rejected add.
	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("Failed to read vault root: %v", err)
	}
	for _, e := range entries {
		if e.Name() != KeysDirName {
			t.Errorf("Unexpected entry %s after rejected add", e.Name())
		}
	}
}

func TestGetByNameReturnsAllLogins(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")
	mustAdd(t, store, "example.com", "jonny.doe")
	mustAdd(t, store, "archive.org", "john.doe")

	found, err := store.Get("example.com", "")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 records, got: %d", len(found))
	}
	for _, c := range found {
		if c.Name != "example.com" {
			t.Errorf("Expected only example.com records, got: %s", c.Name)
		}
	}
}

func TestGetByNameAndLoginReturnsOne(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")
	mustAdd(t, store, "example.com", "jonny.doe")

	found, err := store.Get("example.com", "john.doe")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Expected 1 record, got: %d", len(found))
	}
	if found[0].Login != "john.doe" {
		t.Errorf("Expected login john.doe, got: %s", found[0].Login)
	}
}

func TestGetMissingReturnsEmptyNotError(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")

	cases := []struct{ name, login string }{
		{"not-added-name", ""},
		{"example.com", "nobody"},
		{"not-added-name", "john.doe"},
	}
	for _, tc := range cases {
		found, err := store.Get(tc.name, tc.login)
		if err != nil {
			t.Fatalf("Get(%q, %q) failed: %v", tc.name, tc.login, err)
		}
		if len(found) != 0 {
			t.Errorf("Get(%q, %q): expected empty result, got %d", tc.name, tc.login, len(found))
		}
	}
}

func TestListReturnsEveryCredential(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")
	mustAdd(t, store, "archive.org", "jane")
	mustAdd(t, store, "emails/misc/example.com", "jane")

	all, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 credentials, got: %d", len(all))
	}
}

func TestSearchMatchesCaseInsensitiveSubstrings(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")
	mustAdd(t, store, "github.com", "john.doe")
	mustAdd(t, store, "twitter.com", "john.doe")

	cases := []struct {
		query string
		want  int
	}{
		{"it", 2}, // github, twitter
		{"github", 1},
		{"GITHUB", 1},
		{"not there", 0},
		{"", 3},
	}
	for _, tc := range cases {
		found, err := store.Search(tc.query)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", tc.query, err)
		}
		if len(found) != tc.want {
			t.Errorf("Search(%q): expected %d, got %d", tc.query, tc.want, len(found))
		}
	}
}

func TestFilterMatchesGlobPatterns(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")
	mustAdd(t, store, "emails/misc/example.com", "jane")
	mustAdd(t, store, "emails/work/corp.example.com", "jane")

	cases := []struct {
		pattern string
		want    int
	}{
		{"emails/**", 2},
		{"*.com", 1},
		{"**/example.com", 2},
		{"nothing/*", 0},
	}
	for _, tc := range cases {
		found, err := store.Filter(tc.pattern)
		if err != nil {
			t.Fatalf("Filter(%q) failed: %v", tc.pattern, err)
		}
		if len(found) != tc.want {
			t.Errorf("Filter(%q): expected %d, got %d", tc.pattern, tc.want, len(found))
		}
	}

	if _, err := store.Filter("[unclosed"); err == nil {
		t.Error("Expected an error for an invalid pattern")
	}
}

func TestRemoveDeletesFileAndEmptyCategoryDir(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")

	if err := store.Remove("example.com", "john.doe"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.Root(), "example.com")); !os.IsNotExist(err) {
		t.Errorf("Expected empty category directory to be removed, got: %v", err)
	}
	if _, err := os.Stat(store.Root()); err != nil {
		t.Errorf("Vault root must survive pruning: %v", err)
	}
}

func TestRemovePrunesEmptyAncestorsOnly(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "emails/misc/example.com", "jane")
	mustAdd(t, store, "emails/work/corp.example.com", "jane")

	if err := store.Remove("emails/misc/example.com", "jane"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.Root(), "emails", "misc")); !os.IsNotExist(err) {
		t.Errorf("Expected emails/misc to be pruned, got: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "emails", "work")); err != nil {
		t.Errorf("Expected emails/work to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "emails")); err != nil {
		t.Errorf("Expected emails to survive while non-empty: %v", err)
	}
}

func TestRemoveMissingCredentialFails(t *testing.T) {
	store := newTestStore(t)

	err := store.Remove("none", "none")
	if !errors.Is(err, pkerrors.ErrCredentialNotFound) {
		t.Errorf("Expected ErrCredentialNotFound, got: %v", err)
	}
}

func TestUpdateRelocatesOnLoginChange(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")

	newLogin := "doe.john"
	updated, err := store.UpdateCredential("example.com", "john.doe", Update{Login: &newLogin})
	if err != nil {
		t.Fatalf("UpdateCredential failed: %v", err)
	}
	if updated.Login != newLogin {
		t.Errorf("Expected login %s, got: %s", newLogin, updated.Login)
	}

	found, err := store.Get("example.com", newLogin)
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Expected the relocated record, got %d results", len(found))
	}

	old, err := store.Get("example.com", "john.doe")
	if err != nil {
		t.Fatalf("Get of old login failed: %v", err)
	}
	if len(old) != 0 {
		t.Errorf("Expected the old login to be gone, got %d results", len(old))
	}
}

func TestUpdateRelocatesOnNameChangeAndPrunes(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "emails/misc/example.com", "jane")

	newName := "example.com"
	if _, err := store.UpdateCredential("emails/misc/example.com", "jane", Update{Name: &newName}); err != nil {
		t.Fatalf("UpdateCredential failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.Root(), "emails")); !os.IsNotExist(err) {
		t.Errorf("Expected the old category chain to be pruned, got: %v", err)
	}

	found, err := store.Get("example.com", "jane")
	if err != nil || len(found) != 1 {
		t.Fatalf("Expected the record under its new name, got n=%d err=%v", len(found), err)
	}
}

func TestUpdateReencryptsChangedPassword(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")

	newPassword := "correct horse battery staple"
	updated, err := store.UpdateCredential("example.com", "john.doe", Update{Password: &newPassword})
	if err != nil {
		t.Fatalf("UpdateCredential failed: %v", err)
	}
	if updated.Password != newPassword {
		t.Errorf("Expected the logical record to carry the new plaintext, got: %q", updated.Password)
	}

	stored, err := store.Get("example.com", "john.doe")
	if err != nil || len(stored) != 1 {
		t.Fatalf("Get failed: n=%d err=%v", len(stored), err)
	}
	revealed, err := store.Reveal(stored[0], testPassphrase)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if revealed.Password != newPassword {
		t.Errorf("Expected revealed password %q, got: %q", newPassword, revealed.Password)
	}
}

func TestUpdateMissingCredentialFails(t *testing.T) {
	store := newTestStore(t)

	comment := "nope"
	_, err := store.UpdateCredential("none", "none", Update{Comment: &comment})
	if !errors.Is(err, pkerrors.ErrCredentialNotFound) {
		t.Errorf("Expected ErrCredentialNotFound, got: %v", err)
	}
}

func TestUpdateOntoExistingCredentialFails(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")
	mustAdd(t, store, "example.com", "jonny.doe")

	newLogin := "jonny.doe"
	_, err := store.UpdateCredential("example.com", "john.doe", Update{Login: &newLogin})
	if !errors.Is(err, pkerrors.ErrCredentialExists) {
		t.Errorf("Expected ErrCredentialExists, got: %v", err)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	store := newTestStore(t)

	for _, text := range []string{"secret", "", "line one\nline two\n", "unicode: påsskèep ✓"} {
		encrypted, err := store.Encrypt(text)
		if err != nil {
			t.Fatalf("Encrypt(%q) failed: %v", text, err)
		}
		if !strings.Contains(encrypted, "-----BEGIN PGP MESSAGE-----") ||
			!strings.Contains(encrypted, "-----END PGP MESSAGE-----") {
			t.Errorf("Expected armored ciphertext, got: %q", encrypted)
		}

		decrypted, err := store.Decrypt(encrypted, testPassphrase)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != text {
			t.Errorf("Round trip mismatch: got %q, want %q", decrypted, text)
		}
	}
}

func TestDecryptWithWrongPassphraseFails(t *testing.T) {
	store := newTestStore(t)

	encrypted, err := store.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if _, err := store.Decrypt(encrypted, "wrong"); !errors.Is(err, pkerrors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got: %v", err)
	}
}

func TestDecryptMalformedCiphertextFails(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Decrypt("not an armored message", testPassphrase); !errors.Is(err, pkerrors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got: %v", err)
	}
}

func TestKeyReturnsStableFingerprint(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Key(false)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("Expected a non-empty fingerprint")
	}

	second, err := store.Key(false)
	if err != nil {
		t.Fatalf("Key failed on second call: %v", err)
	}
	if first != second {
		t.Errorf("Expected a stable fingerprint, got %s then %s", first, second)
	}

	private, err := store.Key(true)
	if err != nil {
		t.Fatalf("Key(private) failed: %v", err)
	}
	if private != first {
		t.Errorf("Expected matching public and secret fingerprints, got %s and %s", first, private)
	}
}

func TestCheckPassphrase(t *testing.T) {
	store := newTestStore(t)

	if !store.Check(testPassphrase) {
		t.Error("Expected the correct passphrase to pass the check")
	}
	if store.Check("wrong") {
		t.Error("Expected a wrong passphrase to fail the check")
	}
}

func TestReturnedRecordsAreTransientCopies(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, "example.com", "john.doe")

	found, err := store.Get("example.com", "john.doe")
	if err != nil || len(found) != 1 {
		t.Fatalf("Get failed: n=%d err=%v", len(found), err)
	}

	found[0].Comment = "mutated by caller"

	again, err := store.Get("example.com", "john.doe")
	if err != nil || len(again) != 1 {
		t.Fatalf("Second get failed: n=%d err=%v", len(again), err)
	}
	if again[0].Comment == "mutated by caller" {
		t.Error("Mutating a returned record must not mutate the store")
	}
}
