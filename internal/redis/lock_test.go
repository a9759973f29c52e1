package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLockFixture(t *testing.T) (Locker, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSlotLocker(client, 5*time.Second), mr, client
}

func TestWithSlotLockRunsAndReleases(t *testing.T) {
	locker, mr, _ := newLockFixture(t)

	ran := false
	err := locker.WithSlotLock(context.Background(), 1, "Mon 09:00", func(ctx context.Context) error {
		ran = true
		if !mr.Exists("lock:slot:1:Mon 09:00") {
			t.Error("lock key should exist inside the critical section")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with slot lock: %v", err)
	}
	if !ran {
		t.Fatal("critical section never ran")
	}
	if mr.Exists("lock:slot:1:Mon 09:00") {
		t.Error("lock key should be deleted after the critical section")
	}
}

func TestWithSlotLockContention(t *testing.T) {
	locker, mr, _ := newLockFixture(t)

	// Another holder owns the key already.
	if err := mr.Set("lock:slot:1:Mon 09:00", "other-token"); err != nil {
		t.Fatalf("seed lock key: %v", err)
	}

	err := locker.WithSlotLock(context.Background(), 1, "Mon 09:00", func(ctx context.Context) error {
		t.Error("critical section must not run while the lock is held elsewhere")
		return nil
	})
	if !errors.Is(err, ErrLockNotAcquired) {
		t.Errorf("got %v, want %v", err, ErrLockNotAcquired)
	}

	// The foreign holder's key survives the failed attempt.
	got, err := mr.Get("lock:slot:1:Mon 09:00")
	if err != nil || got != "other-token" {
		t.Errorf("lock key = %q (%v), want untouched", got, err)
	}
}

func TestWithSlotLockDistinctSlots(t *testing.T) {
	locker, _, _ := newLockFixture(t)

	// Locks for different doctor/slot pairs do not contend.
	err := locker.WithSlotLock(context.Background(), 1, "Mon 09:00", func(ctx context.Context) error {
		return locker.WithSlotLock(ctx, 2, "Mon 09:00", func(ctx context.Context) error {
			return locker.WithSlotLock(ctx, 1, "Mon 10:00", func(ctx context.Context) error {
				return nil
			})
		})
	})
	if err != nil {
		t.Fatalf("nested distinct locks: %v", err)
	}
}

func TestWithSlotLockPropagatesError(t *testing.T) {
	locker, mr, _ := newLockFixture(t)

	sentinel := errors.New("claim failed")
	err := locker.WithSlotLock(context.Background(), 1, "Mon 09:00", func(ctx context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want %v", err, sentinel)
	}
	if mr.Exists("lock:slot:1:Mon 09:00") {
		t.Error("lock should be released even when the critical section fails")
	}
}

func TestWithSlotLockReacquireAfterRelease(t *testing.T) {
	locker, _, _ := newLockFixture(t)

	for i := 0; i < 3; i++ {
		err := locker.WithSlotLock(context.Background(), 1, "Mon 09:00", func(ctx context.Context) error {
			return nil
		})
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
}
