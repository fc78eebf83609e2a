// Package vault шифрует учетные данные пользователя ключом, выведенным из парольной фразы.
//
// Формат токена: base64(salt || nonce || ciphertext || tag), где salt - 16 байт,
// nonce - 12 байт AES-GCM.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Параметры PBKDF2
	DefaultIterations = 100000
	KeyLength         = 32 // AES-256
	SaltLength        = 16
)

var (
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrEmptyPassphrase  = errors.New("empty passphrase")
)

// DeriveKey выводит 32-байтовый ключ из парольной фразы и соли (PBKDF2-HMAC-SHA256).
func DeriveKey(passphrase string, salt []byte) []byte {
	return deriveKey(passphrase, salt, DefaultIterations)
}

// EncodeKey возвращает URL-safe представление ключа.
func EncodeKey(key []byte) string {
	return base64.URLEncoding.EncodeToString(key)
}

func deriveKey(passphrase string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, iterations, KeyLength, sha256.New)
}

// Encrypt шифрует plaintext парольной фразой со свежей солью.
func Encrypt(plaintext, passphrase string) (string, error) {
	return encrypt(plaintext, passphrase, DefaultIterations)
}

// Decrypt расшифровывает токен. Любая ошибка сводится к ErrDecryptionFailed.
func Decrypt(token, passphrase string) (string, error) {
	return decrypt(token, passphrase, DefaultIterations)
}

func encrypt(plaintext, passphrase string, iterations int) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey(passphrase, salt, iterations)
	defer clearMemory(key)

	sealed, err := sealWithKey(key, []byte(plaintext))
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, len(salt)+len(sealed))
	out = append(out, salt...)
	out = append(out, sealed...)

	return base64.StdEncoding.EncodeToString(out), nil
}

func decrypt(token, passphrase string, iterations int) (string, error) {
	raw, err := base64.StdEncoding.Strict().DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: malformed token", ErrDecryptionFailed)
	}
	if len(raw) <= SaltLength {
		return "", fmt.Errorf("%w: token too short", ErrDecryptionFailed)
	}

	salt, sealed := raw[:SaltLength], raw[SaltLength:]

	key := deriveKey(passphrase, salt, iterations)
	defer clearMemory(key)

	plaintext, err := openWithKey(key, sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// sealWithKey шифрует данные AES-GCM, nonce идет первым
func sealWithKey(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func openWithKey(key, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize+gcm.Overhead() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}

// clearMemory затирает ключ после использования
func clearMemory(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
