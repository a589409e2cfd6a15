package persistence

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// EncryptionConfig holds the keys for encrypting state at rest.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptedCodec struct {
	inner  Codec
	config EncryptionConfig
}

// envelope is the stored form of an encrypted state. Keeping it JSON makes
// the blob safe for TEXT columns and redis string values.
type envelope struct {
	Encrypted string `json:"__encrypted__"`
}

// NewEncryptedCodec wraps inner with AES-GCM encryption. A nil inner means
// plain JSON underneath.
func NewEncryptedCodec(config EncryptionConfig, inner Codec) (Codec, error) {
	if len(config.ActiveKey) != 32 {
		return nil, fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(config.ActiveKey))
	}
	for i, key := range config.FallbackKeys {
		if len(key) != 32 {
			return nil, fmt.Errorf("fallback key #%d must be 32 bytes (AES-256), got %d", i+1, len(key))
		}
	}
	if inner == nil {
		inner = JSON{}
	}
	return &encryptedCodec{inner: inner, config: config}, nil
}

func (c *encryptedCodec) Encode(state domain.State) ([]byte, error) {
	plainText, err := c.inner.Encode(state)
	if err != nil {
		return nil, err
	}

	ciphertext, err := encrypt(plainText, c.config.ActiveKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt state: %w", err)
	}

	return json.Marshal(envelope{
		Encrypted: base64.StdEncoding.EncodeToString(ciphertext),
	})
}

func (c *encryptedCodec) Decode(data []byte) (domain.State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.State{}, fmt.Errorf("decode state envelope: %w", err)
	}
	// Fail secure: with encryption configured, plain stored states are not
	// readable. Re-saving through this codec migrates them.
	if env.Encrypted == "" {
		return domain.State{}, errors.New("stored state is missing the encrypted envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Encrypted)
	if err != nil {
		return domain.State{}, fmt.Errorf("decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, c.config.ActiveKey, c.config.FallbackKeys)
	if err != nil {
		return domain.State{}, fmt.Errorf("decrypt state: %w", err)
	}

	return c.inner.Decode(plainText)
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	// Try active key first
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	// Try fallbacks in order
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
