package auth

import (
	"errors"
	"testing"

	"github.com/flixhub/apiserver/types"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	admin := Identity{Subject: 1, Role: types.RoleAdmin}
	user := Identity{Subject: 2, Role: types.RoleUser}

	if err := Authorize(admin, types.RoleAdmin); err != nil {
		t.Fatalf("admin should pass admin check: %v", err)
	}
	if err := Authorize(user, types.RoleUser, types.RoleAdmin); err != nil {
		t.Fatalf("user should pass when role is listed: %v", err)
	}
	if err := Authorize(user, types.RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := Authorize(user); !errors.Is(err, ErrForbidden) {
		t.Fatalf("empty role list must deny, got %v", err)
	}
}

func TestAuthorizeOwnerOrRole(t *testing.T) {
	t.Parallel()

	owner := Identity{Subject: 7, Role: types.RoleUser}
	admin := Identity{Subject: 1, Role: types.RoleAdmin}
	other := Identity{Subject: 8, Role: types.RoleUser}

	if err := AuthorizeOwnerOrRole(owner, 7, types.RoleAdmin); err != nil {
		t.Fatalf("owner should pass regardless of role: %v", err)
	}
	if err := AuthorizeOwnerOrRole(admin, 7, types.RoleAdmin); err != nil {
		t.Fatalf("admin should pass on someone else's resource: %v", err)
	}
	if err := AuthorizeOwnerOrRole(other, 7, types.RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner non-admin, got %v", err)
	}
}
