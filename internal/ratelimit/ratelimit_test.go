package ratelimit

import (
	"testing"
	"time"
)

func TestAllowUnlimitedByDefault(t *testing.T) {
	l := New(Limit{}, nil)
	now := time.Now()
	for i := 0; i < 100; i++ {
		if !l.Allow("k", now) {
			t.Fatal("zero limit must be unlimited")
		}
	}
}

func TestAllowEnforcesWindow(t *testing.T) {
	l := New(Limit{MaxRequests: 2, WindowSeconds: 60}, nil)
	now := time.Now()

	if !l.Allow("k", now) || !l.Allow("k", now) {
		t.Fatal("first two requests must pass")
	}
	if l.Allow("k", now) {
		t.Error("third request in window must be rejected")
	}
}

func TestAllowWindowResets(t *testing.T) {
	l := New(Limit{MaxRequests: 1, WindowSeconds: 60}, nil)
	now := time.Now()

	l.Allow("k", now)
	if l.Allow("k", now.Add(30*time.Second)) {
		t.Error("request inside window must be rejected")
	}
	if !l.Allow("k", now.Add(61*time.Second)) {
		t.Error("request after window expiry must pass")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New(Limit{MaxRequests: 1, WindowSeconds: 60}, nil)
	now := time.Now()

	l.Allow("a", now)
	if !l.Allow("b", now) {
		t.Error("keys must not share counters")
	}
}

func TestPerKeyOverride(t *testing.T) {
	l := New(Limit{MaxRequests: 1, WindowSeconds: 60},
		map[string]Limit{"vip": {MaxRequests: 3, WindowSeconds: 60}})
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.Allow("vip", now) {
			t.Fatalf("override request %d must pass", i)
		}
	}
	if l.Allow("vip", now) {
		t.Error("override limit must still cap")
	}
}

func TestSetLimitsHotReload(t *testing.T) {
	l := New(Limit{MaxRequests: 1, WindowSeconds: 60}, nil)
	now := time.Now()

	l.Allow("k", now)
	if l.Allow("k", now) {
		t.Fatal("limit of one must reject second request")
	}

	l.SetLimits(Limit{MaxRequests: 5, WindowSeconds: 60}, nil)
	if !l.Allow("k", now) {
		t.Error("raised limit must admit request in the open window")
	}
}
