package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	menuopts "github.com/goliatone/go-menuopts"
)

// ErrETagMismatch is returned by Mutate when the caller's ETag is stale.
var ErrETagMismatch = errors.New("state: etag mismatch")

// ErrPlayerRequired is returned when a Ref carries no player id.
var ErrPlayerRequired = errors.New("state: player id is required")

// Ref identifies one live setting of one player.
type Ref struct {
	PlayerID string
	ID       int32
}

// RefFor builds a Ref for player and id.
func RefFor(player menuopts.Player, id int32) Ref {
	if player == nil {
		return Ref{ID: id}
	}
	return Ref{PlayerID: player.PlayerID(), ID: id}
}

// Identifier returns the canonical storage key of r.
func (r Ref) Identifier() (string, error) {
	if strings.TrimSpace(r.PlayerID) == "" {
		return "", ErrPlayerRequired
	}
	return fmt.Sprintf("player/%s/%d", r.PlayerID, r.ID), nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	ETag      string            `json:"etag,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one setting for a single reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (value menuopts.SettingValue, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, value menuopts.SettingValue, meta Meta) (Meta, error)
}

// Mutator edits a setting in place.
type Mutator func(*menuopts.SettingValue) error

// Mutate loads one setting, applies fn and saves the result. When meta
// carries an ETag it must match the stored one.
func Mutate(ctx context.Context, store Store, ref Ref, meta Meta, fn Mutator) (menuopts.SettingValue, Meta, error) {
	if store == nil {
		return menuopts.SettingValue{}, Meta{}, fmt.Errorf("state: store is required")
	}
	if fn == nil {
		return menuopts.SettingValue{}, Meta{}, fmt.Errorf("state: mutator is required")
	}
	value, loadedMeta, ok, err := store.Load(ctx, ref)
	if err != nil {
		return menuopts.SettingValue{}, Meta{}, fmt.Errorf("state: load %d for %q: %w", ref.ID, ref.PlayerID, err)
	}
	if !ok {
		value = menuopts.SettingValue{}
		loadedMeta = Meta{}
	}
	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return menuopts.SettingValue{}, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}
	if err := fn(&value); err != nil {
		return menuopts.SettingValue{}, loadedMeta, err
	}
	saved, err := store.Save(ctx, ref, value, mergeMeta(loadedMeta, meta))
	if err != nil {
		return menuopts.SettingValue{}, loadedMeta, fmt.Errorf("state: save %d for %q: %w", ref.ID, ref.PlayerID, err)
	}
	return value, saved, nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
