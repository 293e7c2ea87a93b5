package cryptox

import (
	"bytes"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveKey(password, salt, DefaultIterations)
	key2 := DeriveKey(password, salt, DefaultIterations)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"), DefaultIterations)
	key2 := DeriveKey(password, []byte("salt-2"), DefaultIterations)

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestDeriveKey_IterationsChangeResult(t *testing.T) {
	password := []byte("pw")
	salt := []byte("salt")

	key1 := DeriveKey(password, salt, 1000)
	key2 := DeriveKey(password, salt, 2000)

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different iteration counts")
	}
}

func TestDeriveKey_DefaultIterationsOnZero(t *testing.T) {
	password := []byte("pw")
	salt := []byte("salt")

	if !bytes.Equal(DeriveKey(password, salt, 0), DeriveKey(password, salt, DefaultIterations)) {
		t.Errorf("iterations<=0 must fall back to the default count")
	}
}

func TestDeriveKey_EmptyPassphraseIsDeterministic(t *testing.T) {
	salt := []byte("salt")

	key1 := DeriveKey(nil, salt, 1000)
	key2 := DeriveKey([]byte(""), salt, 1000)

	if !bytes.Equal(key1, key2) {
		t.Errorf("empty passphrase must derive deterministically")
	}
}

func TestFastKey_Deterministic(t *testing.T) {
	key1 := FastKey([]byte("word"))
	key2 := FastKey([]byte("word"))

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same input")
	}
	if len(key1) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(key1))
	}

	if bytes.Equal(key1, FastKey([]byte("other"))) {
		t.Errorf("expected different keys for different inputs")
	}
}
