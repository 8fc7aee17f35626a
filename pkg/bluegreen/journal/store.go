package journal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/deploylab/bluegreen/pkg/bluegreen/database"
)

// Key layout:
//
//	journal/<unixnano>/<id>                        primary, time ordered
//	journal/by-op/<op>/<unixnano>/<id>             secondary index
//	journal/by-subject/<subject>/<unixnano>/<id>   secondary index
//
// Index writes are best-effort; the primary record is authoritative.
type Store struct {
	db     *database.DB
	logger logr.Logger
}

func NewStore(db *database.DB, logger logr.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

func (s *Store) Record(entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	if err := s.db.Set(primaryKey(entry), data); err != nil {
		return fmt.Errorf("failed to store journal entry: %w", err)
	}

	if entry.Op != "" {
		if err := s.db.Set(opKey(entry), data); err != nil {
			s.logger.V(1).Info("failed to store op index", "op", entry.Op, "error", err)
		}
	}
	if entry.Subject != "" {
		if err := s.db.Set(subjectKey(entry), data); err != nil {
			s.logger.V(1).Info("failed to store subject index", "subject", entry.Subject, "error", err)
		}
	}

	return nil
}

func (s *Store) List(filters Filters) ([]Entry, error) {
	var prefix string
	switch {
	case filters.Subject != "":
		prefix = fmt.Sprintf("journal/by-subject/%s/", filters.Subject)
	case filters.Op != "":
		prefix = fmt.Sprintf("journal/by-op/%s/", filters.Op)
	default:
		prefix = "journal/"
	}

	items, err := s.db.List(prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	var entries []Entry
	for key, data := range items {
		// The bare "journal/" prefix also matches index keys; skip them
		// so entries are not returned twice.
		if prefix == "journal/" && isIndexKey(key) {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			s.logger.V(1).Info("skipping unreadable journal entry", "key", key, "error", err)
			continue
		}

		// The subject index prefix is not terminated, so "default" also
		// scans "default/Rollout/demo-app" keys. Re-check the decoded entry.
		if filters.Subject != "" && entry.Subject != filters.Subject {
			continue
		}
		if filters.Op != "" && entry.Op != filters.Op {
			continue
		}
		if filters.Level != "" && entry.Level != filters.Level {
			continue
		}
		if !filters.Since.IsZero() && entry.Time.Before(filters.Since) {
			continue
		}
		if !filters.Until.IsZero() && entry.Time.After(filters.Until) {
			continue
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Time.After(entries[j].Time)
	})

	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []Entry{}, nil
	}
	entries = entries[offset:]

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

func (s *Store) RecentErrors(limit int) ([]Entry, error) {
	return s.List(Filters{Level: LevelError, Limit: limit})
}

func (s *Store) Cleanup(before time.Time) error {
	items, err := s.db.List("journal/")
	if err != nil {
		return fmt.Errorf("failed to list journal entries for cleanup: %w", err)
	}

	cutoff := before.UnixNano()
	var keysToDelete []string

	for key, data := range items {
		if isIndexKey(key) {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			// Unreadable primary records are dropped outright.
			keysToDelete = append(keysToDelete, key)
			continue
		}

		if entry.Time.UnixNano() >= cutoff {
			continue
		}

		keysToDelete = append(keysToDelete, primaryKey(entry))
		if entry.Op != "" {
			keysToDelete = append(keysToDelete, opKey(entry))
		}
		if entry.Subject != "" {
			keysToDelete = append(keysToDelete, subjectKey(entry))
		}
	}

	if len(keysToDelete) == 0 {
		return nil
	}

	if err := s.db.BatchDelete(keysToDelete); err != nil {
		return fmt.Errorf("failed to delete old journal entries: %w", err)
	}

	s.logger.Info("Cleaned up journal", "deleted", len(keysToDelete), "before", before)
	return nil
}

func primaryKey(entry Entry) string {
	return fmt.Sprintf("journal/%020d/%s", entry.Time.UnixNano(), entry.ID)
}

func opKey(entry Entry) string {
	return fmt.Sprintf("journal/by-op/%s/%020d/%s", entry.Op, entry.Time.UnixNano(), entry.ID)
}

func subjectKey(entry Entry) string {
	return fmt.Sprintf("journal/by-subject/%s/%020d/%s", entry.Subject, entry.Time.UnixNano(), entry.ID)
}

func isIndexKey(key string) bool {
	return strings.HasPrefix(key, "journal/by-op/") || strings.HasPrefix(key, "journal/by-subject/")
}
