package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
)

func TestDBGetSet(t *testing.T) {
	db, err := NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}

	testKey := "journal/000001/abc"
	testValue := []byte("test value")

	err = db.Set(testKey, testValue)
	if err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	val, err := db.Get(testKey)
	if err != nil {
		t.Fatalf("failed to get value: %v", err)
	}

	if string(val) != string(testValue) {
		t.Errorf("expected %s, got %s", string(testValue), string(val))
	}
}

func TestDBGetNotFound(t *testing.T) {
	db, err := NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}

	_, err = db.Get("journal/does-not-exist")
	if err == nil || !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestDBDelete(t *testing.T) {
	db, err := NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}

	testKey := "journal/000002/def"

	if err := db.Set(testKey, []byte("test value")); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	if err := db.Delete(testKey); err != nil {
		t.Fatalf("failed to delete value: %v", err)
	}

	_, err = db.Get(testKey)
	if err == nil || !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found error after delete, got %v", err)
	}
}

func TestDBList(t *testing.T) {
	db, err := NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}

	items := map[string][]byte{
		"journal/000001/a":    []byte("one"),
		"journal/000002/b":    []byte("two"),
		"unrelated/000003/c":  []byte("three"),
		"journal/by-op/x/d":   []byte("four"),
		"journal/by-op/x/e":   []byte("five"),
		"journal/by-op/y/f":   []byte("six"),
		"journal/by-op/y/fff": []byte("seven"),
	}
	if err := db.BatchSet(items); err != nil {
		t.Fatalf("failed to batch set: %v", err)
	}

	tests := []struct {
		name   string
		prefix string
		want   int
	}{
		{"all journal keys", "journal/", 6},
		{"by-op index", "journal/by-op/", 4},
		{"single op", "journal/by-op/y/", 2},
		{"no matches", "missing/", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.List(tt.prefix)
			if err != nil {
				t.Fatalf("List(%q) error = %v", tt.prefix, err)
			}
			if len(got) != tt.want {
				t.Errorf("List(%q) returned %d items, want %d", tt.prefix, len(got), tt.want)
			}
		})
	}
}

func TestDBBatchDelete(t *testing.T) {
	db, err := NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}

	keys := []string{"journal/000001/a", "journal/000002/b"}
	for _, key := range keys {
		if err := db.Set(key, []byte("value")); err != nil {
			t.Fatalf("failed to set %s: %v", key, err)
		}
	}

	if err := db.BatchDelete(keys); err != nil {
		t.Fatalf("failed to batch delete: %v", err)
	}

	for _, key := range keys {
		if _, err := db.Get(key); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected %s to be deleted, got %v", key, err)
		}
	}
}

func TestNewDBCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data")

	db, err := NewDB(path, logr.Discard())
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	defer db.Close()

	if err := db.Set("journal/000001/a", []byte("persisted")); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}
}
