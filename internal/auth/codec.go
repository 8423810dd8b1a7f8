package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/nivkatz/toystore/internal/models"
)

// TokenCodec turns session claims into opaque bearer tokens and back.
// Claims are JSON-encoded and sealed with AES-256-GCM under a key derived
// from the process-wide secret. The codec holds no other state.
type TokenCodec struct {
	aead cipher.AEAD
}

// NewTokenCodec derives the encryption key from secret and prepares the
// AEAD. The secret must already have been validated at config load.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &TokenCodec{aead: aead}, nil
}

// Issue encrypts the claims into an opaque token. The nonce is random, so
// two tokens for the same claims differ.
func (c *TokenCodec) Issue(claims models.TokenClaims) (string, error) {
	plaintext, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Parse decrypts a token back into claims. It is a total function: any
// failure (corrupt ciphertext, wrong key, malformed payload) yields an
// error, never a panic. Callers treat an error as "no session".
func (c *TokenCodec) Parse(token string) (*models.TokenClaims, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("malformed token: too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	var claims models.TokenClaims
	if err := json.Unmarshal(plaintext, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("invalid claims: missing id")
	}

	return &claims, nil
}
