package identity

import (
	"strings"
	"testing"
)

func TestForUser(t *testing.T) {
	id := ForUser("u1")
	if !id.IsUser() {
		t.Fatalf("expected user identity")
	}
	if uid, ok := id.UserID(); !ok || uid != "u1" {
		t.Fatalf("unexpected user id %q ok=%v", uid, ok)
	}
	if _, ok := id.SessionToken(); ok {
		t.Fatalf("user identity must not expose a session token")
	}
	if id.Key() != "user:u1" {
		t.Fatalf("unexpected key %q", id.Key())
	}
}

func TestForSession(t *testing.T) {
	id := ForSession("tok")
	if id.IsUser() {
		t.Fatalf("expected anonymous identity")
	}
	if tok, ok := id.SessionToken(); !ok || tok != "tok" {
		t.Fatalf("unexpected token %q ok=%v", tok, ok)
	}
	if id.Key() != "session:tok" {
		t.Fatalf("unexpected key %q", id.Key())
	}
}

func TestZero(t *testing.T) {
	var id Identity
	if !id.Zero() {
		t.Fatalf("empty identity should be zero")
	}
	if ForSession("tok").Zero() || ForUser("u").Zero() {
		t.Fatalf("populated identities must not be zero")
	}
}

func TestMintSessionTokenUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		tok := MintSessionToken()
		if tok == "" || !strings.Contains(tok, "-") {
			t.Fatalf("unexpected token format %q", tok)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = struct{}{}
	}
}
