package auth

import "testing"

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !VerifyPassword("secret1", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected mismatched password to fail verification")
	}
}

func TestHash_EmbeddedSalt(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same input must differ (random salt)")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()

	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("malformed stored hash must fail verification, not panic")
	}
}
