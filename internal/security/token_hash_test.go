package security

import "testing"

func TestHashToken_Deterministic(t *testing.T) {
	h1 := HashToken("some-token")
	h2 := HashToken("some-token")
	if h1 != h2 {
		t.Error("HashToken should be deterministic")
	}
	if h1 == HashToken("other-token") {
		t.Error("different tokens should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}

func TestTokenHashEqual(t *testing.T) {
	stored := HashToken("the-token")
	if !TokenHashEqual("the-token", stored) {
		t.Error("TokenHashEqual should match identical token")
	}
	if TokenHashEqual("wrong-token", stored) {
		t.Error("TokenHashEqual should reject different token")
	}
	if TokenHashEqual("the-token", "") {
		t.Error("TokenHashEqual should reject empty stored hash")
	}
}

func TestNewRawToken(t *testing.T) {
	a, err := NewRawToken()
	if err != nil {
		t.Fatalf("NewRawToken: %v", err)
	}
	b, err := NewRawToken()
	if err != nil {
		t.Fatalf("NewRawToken: %v", err)
	}
	if a == "" || b == "" {
		t.Fatal("NewRawToken returned empty token")
	}
	if a == b {
		t.Error("NewRawToken should not repeat")
	}
}
