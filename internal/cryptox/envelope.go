package cryptox

import (
	"strings"

	"github.com/dberzins/envault/internal/common"
)

// Envelope format tags. The tag uniquely determines how the remaining
// payload is parsed; an envelope with an unknown tag is never partially
// trusted.
const (
	// SaltedPrefix marks the current format:
	// "v1:" + base64(salt[16] || nonce[12] || ciphertext+tag).
	SaltedPrefix = "v1:"

	// SaltlessPrefix marks the legacy format keyed by FastKey:
	// "s1:" + base64(nonce[12] || ciphertext+tag).
	SaltlessPrefix = "s1:"
)

// Variable is a plaintext name/value pair.
type Variable struct {
	Name  string
	Value string
}

// EncryptedVariable pairs a variable name with its sealed envelope string.
type EncryptedVariable struct {
	Name      string
	Encrypted string
}

// Seal encrypts plaintext under a passphrase and returns a salted "v1:"
// envelope. Each call uses a fresh random salt and nonce, so sealing the
// same plaintext twice yields different envelopes. The derived key does
// not outlive the call.
func Seal(plaintext, passphrase string) (string, error) {
	salt := common.GenerateRandByteArray(SaltSize)
	nonce := common.GenerateRandByteArray(NonceSize)

	key := DeriveKey([]byte(passphrase), salt, DefaultIterations)
	defer common.WipeByteArray(key)

	ciphertext, err := EncryptAESGCM(key, nonce, []byte(plaintext))
	if err != nil {
		return "", err
	}

	return SaltedPrefix + EncodeBase64(Concat(salt, nonce, ciphertext)), nil
}

// SealFast encrypts plaintext into a saltless "s1:" envelope keyed by a
// single hash pass over the passphrase.
//
// Deprecated: the saltless format has no per-call key salt and no
// stretching. Kept for compatibility with existing "s1:" data; new writes
// should use Seal.
func SealFast(plaintext, passphrase string) (string, error) {
	nonce := common.GenerateRandByteArray(NonceSize)

	key := FastKey([]byte(passphrase))
	defer common.WipeByteArray(key)

	ciphertext, err := EncryptAESGCM(key, nonce, []byte(plaintext))
	if err != nil {
		return "", err
	}

	return SaltlessPrefix + EncodeBase64(Concat(nonce, ciphertext)), nil
}

// Open parses an envelope string, re-derives the key for its format and
// decrypts. An unrecognized tag yields ErrUnsupportedFormat; anything
// wrong past the tag (bad base64, truncated payload, failed
// authentication) yields ErrDecryptionFailed.
func Open(envelope, passphrase string) (string, error) {
	switch {
	case strings.HasPrefix(envelope, SaltedPrefix):
		return openSalted(strings.TrimPrefix(envelope, SaltedPrefix), passphrase)
	case strings.HasPrefix(envelope, SaltlessPrefix):
		return openSaltless(strings.TrimPrefix(envelope, SaltlessPrefix), passphrase)
	default:
		return "", ErrUnsupportedFormat
	}
}

func openSalted(payload, passphrase string) (string, error) {
	raw, err := DecodeBase64(payload)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < SaltSize+NonceSize {
		return "", ErrDecryptionFailed
	}

	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+NonceSize]
	ciphertext := raw[SaltSize+NonceSize:]

	key := DeriveKey([]byte(passphrase), salt, DefaultIterations)
	defer common.WipeByteArray(key)

	plaintext, err := DecryptAESGCM(key, nonce, ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func openSaltless(payload, passphrase string) (string, error) {
	raw, err := DecodeBase64(payload)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < NonceSize {
		return "", ErrDecryptionFailed
	}

	nonce := raw[:NonceSize]
	ciphertext := raw[NonceSize:]

	key := FastKey([]byte(passphrase))
	defer common.WipeByteArray(key)

	plaintext, err := DecryptAESGCM(key, nonce, ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// SealVariables seals every value independently into a "v1:" envelope.
// Encryption failures are systemic (not data-dependent), so the first one
// aborts the batch.
func SealVariables(vars []Variable, passphrase string) ([]EncryptedVariable, error) {
	out := make([]EncryptedVariable, 0, len(vars))
	for _, v := range vars {
		encrypted, err := Seal(v.Value, passphrase)
		if err != nil {
			return nil, err
		}
		out = append(out, EncryptedVariable{Name: v.Name, Encrypted: encrypted})
	}
	return out, nil
}

// OpenVariables decrypts each entry independently and returns a
// name-to-plaintext map. A failed entry is omitted rather than aborting
// the batch; callers that enumerate for display should list names from
// the input, which stays intact.
func OpenVariables(vars []EncryptedVariable, passphrase string) map[string]string {
	out := make(map[string]string, len(vars))
	for _, v := range vars {
		plaintext, err := Open(v.Encrypted, passphrase)
		if err != nil {
			continue
		}
		out[v.Name] = plaintext
	}
	return out
}
