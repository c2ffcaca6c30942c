package sessionclient

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/argon2"
)

const secureNonceSize = 12

// EncryptedCredentialStore decorates a CredentialStore with at-rest
// encryption of the token value. The key is derived with argon2id from a
// caller-supplied passphrase and salt, and the token is sealed with AES-GCM
// under a fresh nonce per write.
//
// A stored value that no longer decrypts (changed passphrase, tampered
// database) is reported as ErrNoCredential: an unreadable credential is the
// same as no credential.
type EncryptedCredentialStore struct {
	inner CredentialStore
	key   []byte
}

// DeriveStoreKey derives the 32-byte AES key used by the encrypted store.
func DeriveStoreKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// NewEncryptedCredentialStore wraps inner with at-rest token encryption.
func NewEncryptedCredentialStore(inner CredentialStore, passphrase, salt []byte) *EncryptedCredentialStore {
	return &EncryptedCredentialStore{
		inner: inner,
		key:   DeriveStoreKey(passphrase, salt),
	}
}

// Save seals the token and stores the ciphertext in the wrapped store.
func (s *EncryptedCredentialStore) Save(ctx context.Context, token string) error {
	sealed, err := s.seal([]byte(token))
	if err != nil {
		return err
	}
	return s.inner.Save(ctx, sealed)
}

// Load retrieves and opens the sealed token.
func (s *EncryptedCredentialStore) Load(ctx context.Context) (string, error) {
	sealed, err := s.inner.Load(ctx)
	if err != nil {
		return "", err
	}

	token, err := s.open(sealed)
	if err != nil {
		return "", ErrNoCredential
	}
	return token, nil
}

// Clear removes all stored authentication state from the wrapped store.
func (s *EncryptedCredentialStore) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *EncryptedCredentialStore) seal(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to initialize cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to initialize GCM")
	}

	nonce := make([]byte, secureNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate nonce")
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *EncryptedCredentialStore) open(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	if len(sealed) < secureNonceSize {
		return "", errors.New("sealed credential too short", errors.CategoryBadInput)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce, ciphertext := sealed[:secureNonceSize], sealed[secureNonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
