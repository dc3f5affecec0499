package auth

import (
	"time"

	"github.com/flixhub/apiserver/types"
)

// LockoutPolicy tracks consecutive failed logins per account and locks an
// account once they reach a threshold. An account is either unlocked
// (attempts below threshold, locked_until unset or in the past) or locked
// (locked_until in the future). The counter is not reset when a lock merely
// expires; only a successful login resets it, so a single failure after an
// expired lock re-locks the account immediately.
type LockoutPolicy struct {
	threshold int
	duration  time.Duration
}

// NewLockoutPolicy constructs a policy. Non-positive values fall back to the
// defaults of 5 attempts and 10 minutes.
func NewLockoutPolicy(threshold int, duration time.Duration) *LockoutPolicy {
	if threshold <= 0 {
		threshold = 5
	}
	if duration <= 0 {
		duration = 10 * time.Minute
	}
	return &LockoutPolicy{threshold: threshold, duration: duration}
}

// Threshold returns the consecutive-failure count that triggers a lock.
func (p *LockoutPolicy) Threshold() int {
	return p.threshold
}

// Duration returns how long a triggered lock lasts.
func (p *LockoutPolicy) Duration() time.Duration {
	return p.duration
}

// Locked reports whether the account's lockout window is active at now.
// Callers must check this before any password comparison so a locked account
// never costs hashing work.
func (p *LockoutPolicy) Locked(user types.User, now time.Time) bool {
	return user.LockedUntil != nil && now.Before(*user.LockedUntil)
}

// LockExpiry returns the lock timestamp to store alongside the attempt count
// reached by a failure at now. It returns nil while attempts stay below the
// threshold; at or past the threshold it returns now + duration, which is
// strictly in the future at the moment it is set.
func (p *LockoutPolicy) LockExpiry(attempts int, now time.Time) *time.Time {
	if attempts < p.threshold {
		return nil
	}
	until := now.Add(p.duration)
	return &until
}
