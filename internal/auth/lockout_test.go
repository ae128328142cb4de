package auth

import (
	"testing"
	"time"
)

func TestLockout_LocksAfterMaxFailures(t *testing.T) {
	lt := NewLockoutTracker(3, 5*time.Minute)
	ip := "192.168.1.1"

	if lt.IsLocked(ip) {
		t.Error("new tracker should not have any locked keys")
	}

	lt.RecordFailure(ip)
	lt.RecordFailure(ip)
	if lt.IsLocked(ip) {
		t.Error("should not be locked after 2 failures (max is 3)")
	}

	lt.RecordFailure(ip)
	if !lt.IsLocked(ip) {
		t.Error("should be locked after 3 failures")
	}
	if lt.IsLocked("192.168.1.2") {
		t.Error("other keys must not be affected")
	}
}

func TestLockout_UnlocksAfterDuration(t *testing.T) {
	now := time.Now()
	lt := NewLockoutTracker(2, time.Minute)
	lt.now = func() time.Time { return now }

	lt.RecordFailure("10.0.0.1")
	lt.RecordFailure("10.0.0.1")
	if !lt.IsLocked("10.0.0.1") {
		t.Fatal("should be locked after max failures")
	}

	now = now.Add(61 * time.Second)
	if lt.IsLocked("10.0.0.1") {
		t.Error("should be unlocked after lockout duration expires")
	}

	lt.RecordFailure("10.0.0.1")
	if lt.IsLocked("10.0.0.1") {
		t.Error("count should restart once the lockout expired")
	}
}

func TestLockout_ResetClearsLockout(t *testing.T) {
	lt := NewLockoutTracker(2, 5*time.Minute)
	lt.RecordFailure("10.0.0.2")
	lt.RecordFailure("10.0.0.2")
	lt.Reset("10.0.0.2")
	if lt.IsLocked("10.0.0.2") {
		t.Error("should not be locked after reset")
	}
}
