package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	menuopts "github.com/goliatone/go-menuopts"
)

// MemoryStore is an in-memory Store keyed by Ref.Identifier(). It also
// implements menuopts.ValueSource.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	value menuopts.SettingValue
	meta  Meta
}

var _ menuopts.ValueSource = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (menuopts.SettingValue, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return menuopts.SettingValue{}, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return menuopts.SettingValue{}, Meta{}, false, nil
	}
	return record.value, cloneMeta(record.meta), true, nil
}

// Save stores value and issues a fresh ETag. UpdatedAt defaults to the
// current time.
func (s *MemoryStore) Save(_ context.Context, ref Ref, value menuopts.SettingValue, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	meta = cloneMeta(meta)
	meta.ETag = uuid.NewString()
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = s.now()
	}

	s.mu.Lock()
	s.records[key] = memoryRecord{value: value, meta: meta}
	s.mu.Unlock()
	return cloneMeta(meta), nil
}

// Setting implements menuopts.ValueSource.
func (s *MemoryStore) Setting(ctx context.Context, player menuopts.Player, id int32) (menuopts.SettingValue, bool, error) {
	value, _, ok, err := s.Load(ctx, RefFor(player, id))
	return value, ok, err
}

// Report records the value player holds for id, keeping any metadata
// already stored for it.
func (s *MemoryStore) Report(ctx context.Context, player menuopts.Player, id int32, value menuopts.SettingValue) error {
	_, _, err := Mutate(ctx, s, RefFor(player, id), Meta{}, func(current *menuopts.SettingValue) error {
		*current = value
		return nil
	})
	return err
}

// Forget drops every setting of player and returns how many were removed.
func (s *MemoryStore) Forget(player menuopts.Player) int {
	if player == nil {
		return 0
	}
	prefix := "player/" + player.PlayerID() + "/"

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.records {
		if strings.HasPrefix(key, prefix) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored settings.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
