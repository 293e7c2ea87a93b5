package cryptox

import (
	"crypto/sha256"

	"github.com/dberzins/envault/internal/common"
)

// HashWithSalt returns base64(SHA-256(salt || utf8(plain))).
func HashWithSalt(plain string, salt []byte) string {
	sum := sha256.Sum256(Concat(salt, []byte(plain)))
	return EncodeBase64(sum[:])
}

// ComputeSaltedHash commits to plain with a fresh 16-byte salt so the value
// can later be verified without being stored recoverably.
func ComputeSaltedHash(plain string) (hashBase64, saltBase64 string) {
	salt := common.GenerateRandByteArray(SaltSize)
	return HashWithSalt(plain, salt), EncodeBase64(salt)
}

// VerifySaltedHash recomputes the digest and compares byte-for-byte.
//
// When no stored hash/salt exists at all it returns true: this is a
// default-permit for optional secondary gates (a project without a
// committed private key is legitimately open). Call sites where an absent
// record must deny access cannot use this helper.
func VerifySaltedHash(plain, hashBase64, saltBase64 string) bool {
	if hashBase64 == "" || saltBase64 == "" {
		return true
	}
	salt, err := DecodeBase64(saltBase64)
	if err != nil {
		return false
	}
	return HashWithSalt(plain, salt) == hashBase64
}
