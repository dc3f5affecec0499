package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/flixhub/apiserver/types"
)

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Issue(42, types.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id.Subject != 42 {
		t.Fatalf("subject mismatch: got %d want 42", id.Subject)
	}
	if id.Role != types.RoleAdmin {
		t.Fatalf("role mismatch: got %q", id.Role)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("test-secret", time.Hour)
	short := &TokenCodec{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := short.Issue(1, types.RoleUser)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = codec.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenCodec("right-secret", time.Hour)
	verifier := NewTokenCodec("wrong-secret", time.Hour)

	token, err := issuer.Issue(1, types.RoleUser)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestTokenCodec_Tampered(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Issue(1, types.RoleUser)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := codec.Verify(tampered); err == nil {
		t.Fatalf("expected tampered token to fail verification")
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "not.a.jwt"} {
		_, err := codec.Verify(token)
		if !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenCodec_UnknownRoleRejected(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Issue(1, types.Role("SUPERUSER"))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = codec.Verify(token)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for unknown role, got %v", err)
	}
}
