package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// NonceSize is the AES-GCM nonce length used by every envelope variant.
const NonceSize = 12

var (
	// ErrUnsupportedFormat means the envelope tag was not recognized.
	ErrUnsupportedFormat = errors.New("unsupported envelope format")

	// ErrDecryptionFailed means authentication failed: wrong key, tampered
	// bytes, or a malformed payload. No partial plaintext is ever returned.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidPrivateKey means a supplied credential failed salted-hash
	// verification.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrMissingMasterSecret means no underlying secret is available to
	// decrypt with.
	ErrMissingMasterSecret = errors.New("missing master secret")
)

// EncryptAESGCM seals plaintext with AES-256-GCM. The nonce must be freshly
// random for every call under the same key; the envelope layer generates
// and transports it. The 16-byte authentication tag is appended to the
// returned ciphertext. No associated data is bound.
func EncryptAESGCM(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nil
}

// DecryptAESGCM opens ciphertext produced by EncryptAESGCM. Any bit flip in
// key, nonce or ciphertext yields ErrDecryptionFailed with no output.
func DecryptAESGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
