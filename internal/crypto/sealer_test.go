package crypto

import (
	"bytes"
	"encoding/base64"
	"testing"
)

type login struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

func newTestSealer(t *testing.T, secret string) Sealer {
	t.Helper()
	s, err := NewSealer(secret, bytes.Repeat([]byte{0xAB}, 16))
	if err != nil {
		t.Fatalf("NewSealer error: %v", err)
	}
	return s
}

func TestSealer_RoundTrip(t *testing.T) {
	s := newTestSealer(t, "secret")

	blob, err := s.Seal(login{Username: "erika", PIN: "1234"})
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	var got login
	if err = s.Open(blob, &got); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if got.Username != "erika" || got.PIN != "1234" {
		t.Fatalf("got %+v, want erika/1234", got)
	}
}

func TestSealer_HidesPlaintext(t *testing.T) {
	s := newTestSealer(t, "secret")

	blob, err := s.Seal(login{Username: "erika", PIN: "987654"})
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("blob is not base64: %v", err)
	}
	if bytes.Contains(raw, []byte("987654")) {
		t.Fatalf("sealed blob contains the plaintext PIN")
	}
}

func TestSealer_NonceRandomness(t *testing.T) {
	s := newTestSealer(t, "secret")

	b1, err := s.Seal("same")
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	b2, err := s.Seal("same")
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if b1 == b2 {
		t.Fatalf("expected two seals of the same value to differ")
	}
}

func TestSealer_WrongKey(t *testing.T) {
	blob, err := newTestSealer(t, "secret").Seal("value")
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	var got string
	err = newTestSealer(t, "other").Open(blob, &got)
	if err == nil {
		t.Fatalf("expected Open with another key to fail")
	}
}

func TestSealer_CorruptBlob(t *testing.T) {
	s := newTestSealer(t, "secret")

	tests := map[string]string{
		"not base64": "%%%",
		"too short":  base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
	}
	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			var got string
			if err := s.Open(blob, &got); err == nil {
				t.Fatalf("expected error for %s blob", name)
			}
		})
	}
}
