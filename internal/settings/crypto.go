// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package settings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Cipher encrypts setting values at rest with AES-256-CBC. The wire
// format is hex(iv):hex(ciphertext) with PKCS#7 padding, so encrypted
// values survive as plain strings in the settings table.
type Cipher struct {
	key []byte
}

const cipherSalt = "harborview-settings"

// NewCipher derives a 32-byte AES key from the passphrase with scrypt.
// An empty passphrase is refused: storing secrets under a known key is
// worse than failing startup.
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("encryption key must not be empty (set ENCRYPTION_KEY)")
	}

	key, err := scrypt.Key([]byte(passphrase), []byte(cipherSalt), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	return &Cipher{key: key}, nil
}

// Encrypt returns hex(iv):hex(ciphertext) for the given plaintext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Values without the iv:ciphertext shape are
// returned unchanged: they predate encryption and are treated as
// legacy plaintext. A value that has the shape but fails to decrypt is
// an error, never silently passed through.
func (c *Cipher) Decrypt(stored string) (string, error) {
	idx := strings.IndexByte(stored, ':')
	if idx < 0 {
		return stored, nil
	}

	iv, err := hex.DecodeString(stored[:idx])
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("malformed IV in encrypted value")
	}

	ciphertext, err := hex.DecodeString(stored[idx+1:])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("malformed ciphertext in encrypted value")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt value: %w", err)
	}

	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding byte")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}
