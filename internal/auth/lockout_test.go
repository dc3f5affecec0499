package auth

import (
	"testing"
	"time"

	"github.com/flixhub/apiserver/types"
)

func TestLockoutPolicy_Locked(t *testing.T) {
	t.Parallel()

	policy := NewLockoutPolicy(5, 10*time.Minute)
	now := time.Now()

	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name string
		user types.User
		want bool
	}{
		{"no lock set", types.User{}, false},
		{"lock in future", types.User{LockedUntil: &future}, true},
		{"lock expired", types.User{LockedUntil: &past}, false},
		{"lock exactly now", types.User{LockedUntil: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Locked(tt.user, now); got != tt.want {
				t.Fatalf("Locked = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLockoutPolicy_LockExpiry(t *testing.T) {
	t.Parallel()

	policy := NewLockoutPolicy(5, 10*time.Minute)
	now := time.Now()

	for attempts := 1; attempts < 5; attempts++ {
		if got := policy.LockExpiry(attempts, now); got != nil {
			t.Fatalf("attempts=%d: expected nil expiry, got %v", attempts, got)
		}
	}

	for _, attempts := range []int{5, 6, 100} {
		got := policy.LockExpiry(attempts, now)
		if got == nil {
			t.Fatalf("attempts=%d: expected expiry, got nil", attempts)
		}
		if want := now.Add(10 * time.Minute); !got.Equal(want) {
			t.Fatalf("attempts=%d: expiry = %v, want %v", attempts, got, want)
		}
	}
}

func TestLockoutPolicy_Defaults(t *testing.T) {
	t.Parallel()

	policy := NewLockoutPolicy(0, 0)
	if policy.Threshold() != 5 {
		t.Fatalf("default threshold = %d, want 5", policy.Threshold())
	}
	if policy.Duration() != 10*time.Minute {
		t.Fatalf("default duration = %v, want 10m", policy.Duration())
	}
}

func TestLockoutPolicy_CounterSurvivesExpiry(t *testing.T) {
	t.Parallel()

	policy := NewLockoutPolicy(5, 10*time.Minute)
	now := time.Now()

	expired := now.Add(-time.Second)
	user := types.User{FailedLoginAttempts: 5, LockedUntil: &expired}

	if policy.Locked(user, now) {
		t.Fatalf("expired lock must not report locked")
	}

	// One more failure past an expired lock re-locks immediately.
	if got := policy.LockExpiry(user.FailedLoginAttempts+1, now); got == nil {
		t.Fatalf("expected a fresh lock after a failure past an expired lock")
	}
}
