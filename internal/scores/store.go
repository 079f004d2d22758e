package scores

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"trivia-app/internal/kv"
)

const (
	KeyScores   = "scores"
	KeySort     = "scoreSort"
	KeyFilter   = "scoreFilter"
	KeyUsername = "triviaCurrentUser"
	KeyRemember = "triviaRemember"
)

// Store is the typed view over the key-value capability.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// GetScores never fails: unreadable or corrupt data reads as an empty list.
func (s *Store) GetScores(ctx context.Context) []Record {
	raw, ok, err := s.kv.Get(ctx, KeyScores)
	if err != nil {
		log.Printf("[scores] read failed, using empty list: %v", err)
		return []Record{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("[scores] stored list is corrupt, using empty list: %v", err)
		return []Record{}
	}
	if records == nil {
		return []Record{}
	}
	return records
}

// SetScores replaces the stored list.
func (s *Store) SetScores(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyScores, string(encoded))
}

// AppendScore is read-modify-write and not atomic across processes.
func (s *Store) AppendScore(ctx context.Context, record Record) error {
	records := s.GetScores(ctx)
	records = append(records, record)
	return s.SetScores(ctx, records)
}

func (s *Store) ClearScores(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyScores)
}

func (s *Store) SortMode(ctx context.Context) SortMode {
	return ParseSortMode(s.getString(ctx, KeySort))
}

func (s *Store) SetSortMode(ctx context.Context, mode SortMode) error {
	return s.kv.Set(ctx, KeySort, string(ParseSortMode(string(mode))))
}

func (s *Store) Filter(ctx context.Context) string {
	return s.getString(ctx, KeyFilter)
}

func (s *Store) SetFilter(ctx context.Context, filter string) error {
	if filter == "" {
		return s.kv.Delete(ctx, KeyFilter)
	}
	return s.kv.Set(ctx, KeyFilter, filter)
}

func (s *Store) Username(ctx context.Context) string {
	return strings.TrimSpace(s.getString(ctx, KeyUsername))
}

func (s *Store) SetUsername(ctx context.Context, name string) error {
	return s.kv.Set(ctx, KeyUsername, strings.TrimSpace(name))
}

func (s *Store) Remember(ctx context.Context) bool {
	remember, err := strconv.ParseBool(s.getString(ctx, KeyRemember))
	return err == nil && remember
}

func (s *Store) SetRemember(ctx context.Context, remember bool) error {
	return s.kv.Set(ctx, KeyRemember, strconv.FormatBool(remember))
}

// ForgetUsername drops the remembered identity and the consent flag.
func (s *Store) ForgetUsername(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyUsername); err != nil {
		return err
	}
	return s.kv.Delete(ctx, KeyRemember)
}

// Set and Delete expose raw preference writes for callers that already
// hold an encoded value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, key, value)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

func (s *Store) getString(ctx context.Context, key string) string {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Printf("[scores] read %s failed: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}
