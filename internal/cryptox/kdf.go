package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length produced by both derivation policies.
	KeySize = 32

	// SaltSize is the per-encryption salt length used by salted envelopes.
	SaltSize = 16

	// DefaultIterations is the PBKDF2 iteration count for salted envelopes.
	DefaultIterations = 100000
)

// DeriveKey stretches a passphrase into a 256-bit key with PBKDF2-SHA256.
// An empty passphrase derives deterministically like any other input;
// rejecting empty passphrases is the caller's job at the boundary.
func DeriveKey(passphrase, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key(passphrase, salt, iterations, KeySize, sha256.New)
}

// FastKey derives a key as a single unsalted SHA-256 pass over the
// passphrase bytes. No salt and no stretching, so brute-force resistance
// is much weaker than DeriveKey.
//
// Deprecated: retained only to read and write the legacy "s1:" envelope
// format. New code paths must use DeriveKey.
func FastKey(passphrase []byte) []byte {
	sum := sha256.Sum256(passphrase)
	return sum[:]
}
