// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreWithPath(filepath.Join(t.TempDir(), "identity.json"))
}

func TestCurrentEmptyStore(t *testing.T) {
	s := testStore(t)
	if s.Current() != nil {
		t.Error("fresh store should have no identity")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	s := NewStoreWithPath(path)

	id := Identity{UserID: "u1", Name: "Alice", Email: "alice@example.com"}
	if err := s.Save(id); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := s.Current()
	if got == nil || got.UserID != "u1" {
		t.Fatalf("Current = %+v, want user u1", got)
	}

	// A new store at the same path sees the persisted record.
	s2 := NewStoreWithPath(path)
	got2 := s2.Current()
	if got2 == nil || got2.Name != "Alice" || got2.Email != "alice@example.com" {
		t.Errorf("reloaded identity = %+v", got2)
	}
}

func TestSaveFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	s := NewStoreWithPath(path)

	if err := s.Save(Identity{UserID: "u1", Name: "A", Email: "a@b.c"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("identity file perm = %o, want 0600", perm)
	}
}

func TestClear(t *testing.T) {
	s := testStore(t)
	_ = s.Save(Identity{UserID: "u1", Name: "A", Email: "a@b.c"})

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Current() != nil {
		t.Error("identity survived Clear")
	}

	// Clearing again is a no-op.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear errored: %v", err)
	}
}

func TestSubscribeFanOut(t *testing.T) {
	s := testStore(t)

	var got []*Identity
	unsubscribe := s.Subscribe(func(id *Identity) {
		got = append(got, id)
	})

	_ = s.Save(Identity{UserID: "u1", Name: "A", Email: "a@b.c"})
	_ = s.Clear()

	if len(got) != 2 {
		t.Fatalf("subscriber ran %d times, want 2", len(got))
	}
	if got[0] == nil || got[0].UserID != "u1" {
		t.Errorf("first notification = %+v, want user u1", got[0])
	}
	if got[1] != nil {
		t.Errorf("clear notification = %+v, want nil", got[1])
	}

	unsubscribe()
	_ = s.Save(Identity{UserID: "u2", Name: "B", Email: "b@c.d"})
	if len(got) != 2 {
		t.Error("subscriber ran after unsubscribe")
	}
}

func TestSubscriberGetsCopy(t *testing.T) {
	s := testStore(t)

	s.Subscribe(func(id *Identity) {
		if id != nil {
			id.Name = "mutated"
		}
	})
	_ = s.Save(Identity{UserID: "u1", Name: "Alice", Email: "a@b.c"})

	if got := s.Current(); got.Name != "Alice" {
		t.Errorf("subscriber mutation leaked into the store: %q", got.Name)
	}
}

func TestCorruptRecordReadsAsNone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewStoreWithPath(path)
	if s.Current() != nil {
		t.Error("corrupt record yielded an identity")
	}

	// Still writable afterward.
	if err := s.Save(Identity{UserID: "u1", Name: "A", Email: "a@b.c"}); err != nil {
		t.Errorf("Save after corruption failed: %v", err)
	}
}

func TestRecordWithoutUserIDIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(path, []byte(`{"name":"A","email":"a@b.c"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if s := NewStoreWithPath(path); s.Current() != nil {
		t.Error("record without user_id should read as no identity")
	}
}
