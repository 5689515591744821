package cli

import (
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestReadPassphrase_FromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if _, err := w.WriteString("correct horse battery staple\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = w.Close()

	sec, err := readPassphrase(r)
	if err != nil {
		t.Fatalf("readPassphrase failed: %v", err)
	}
	defer sec.Zero()
	if sec.Reveal() != "correct horse battery staple" {
		t.Fatalf("unexpected passphrase: %q", sec.Reveal())
	}
}

func TestReadPassphrase_EmptyInput(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	_ = w.Close()

	if _, err := readPassphrase(r); err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func TestHash_VerifiableWithBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("staple-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte("staple-horse")); err != nil {
		t.Fatalf("hash did not verify: %v", err)
	}
}
