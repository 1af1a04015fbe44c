package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// SecretBox seals and opens the widget shared-secret transport token placed
// in embed snippets. Authenticated encryption: a tampered or foreign token
// fails to open rather than decrypting to garbage.
type SecretBox struct {
	key []byte
}

// NewSecretBox derives the AEAD key from the configured key material.
func NewSecretBox(keyMaterial string) *SecretBox {
	sum := sha256.Sum256([]byte(keyMaterial))
	return &SecretBox{key: sum[:]}
}

// Seal encrypts plaintext into a base64url token of nonce||ciphertext.
func (b *SecretBox) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a token produced by Seal.
func (b *SecretBox) Open(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("malformed secret token: %w", err)
	}

	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("malformed secret token")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("secret token failed to open: %w", err)
	}

	return string(plaintext), nil
}

// NewSharedSecret generates a bot's widget shared secret: 32 random bytes,
// hex encoded.
func NewSharedSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewSessionID generates an unguessable session identifier. 20 random bytes
// gives 160 bits of entropy.
func NewSessionID() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
