package hash

import "testing"

func TestSHA256Hex(t *testing.T) {
	// Known vector for "abc".
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256Hex("abc"); got != want {
		t.Errorf("SHA256Hex(abc) = %s, want %s", got, want)
	}
}

func TestIteratedSHA256_Deterministic(t *testing.T) {
	a := IteratedSHA256("input", 100)
	b := IteratedSHA256("input", 100)
	if a != b {
		t.Error("same input and iterations must produce the same hash")
	}
	if a == IteratedSHA256("input", 101) {
		t.Error("different iteration counts must produce different hashes")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestNewSalt_UniqueAndHex(t *testing.T) {
	a, b := NewSalt(), NewSalt()
	if a == b {
		t.Error("two salts should not collide")
	}
	if len(a) != 32 {
		t.Errorf("salt length = %d, want 32 hex chars", len(a))
	}
}

func TestVerifyPassword(t *testing.T) {
	salt := NewSalt()
	stored := HashPassword("correct horse", salt)

	if !VerifyPassword("correct horse", salt, stored) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong horse", salt, stored) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("correct horse", NewSalt(), stored) {
		t.Error("wrong salt accepted")
	}
}

func TestHashPassword_SaltChangesHash(t *testing.T) {
	if HashPassword("pw", "salt-a") == HashPassword("pw", "salt-b") {
		t.Error("different salts must produce different hashes")
	}
}
