// Package cryptox implements the secret-encryption core: passphrase key
// derivation, AES-GCM sealing/opening of versioned envelopes, and salted
// hash verification. Everything here is pure computation with no I/O; all
// functions are safe for concurrent use.
package cryptox

import "encoding/base64"

// EncodeBase64 encodes b using standard base64, the encoding used by the
// envelope wire format and the stored salted hashes.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes a standard-base64 string.
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// Concat joins byte slices into one freshly allocated buffer.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
