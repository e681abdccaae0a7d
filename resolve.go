package menuopts

import (
	"context"
	"fmt"

	"github.com/goliatone/go-menuopts/layering"
)

// Defaults returns the value every registered option starts with, keyed by
// custom id. Options that return nothing are left out.
func (s *Service) Defaults() map[string]any {
	out := make(map[string]any)
	for _, option := range s.Options() {
		if _, seen := out[option.CustomID()]; seen {
			continue
		}
		if value, ok := defaultValue(option); ok {
			out[option.CustomID()] = value
		}
	}
	return out
}

// Snapshot layers the values player reported over the option defaults.
func (s *Service) Snapshot(ctx context.Context, player Player) (map[string]any, error) {
	resolved, err := s.resolve(ctx, player)
	if err != nil {
		return nil, err
	}
	return layering.Clone(resolved.Values), nil
}

// ResolveWithTrace returns the effective value of customID for player and
// which scope supplied it.
func (s *Service) ResolveWithTrace(ctx context.Context, player Player, customID string) (any, Trace, error) {
	if _, ok := s.Get(customID); !ok {
		return nil, Trace{}, &NotFoundError{CustomID: customID}
	}
	resolved, err := s.resolve(ctx, player)
	if err != nil {
		return nil, Trace{}, err
	}
	return resolved.ResolveWithTrace(customID)
}

func (s *Service) resolve(ctx context.Context, player Player) (*Resolved, error) {
	if player == nil {
		return nil, &ValidationError{Subject: "player", Reason: "must not be nil"}
	}
	reported, err := s.reported(ctx, player)
	if err != nil {
		return nil, err
	}
	stack, err := NewStack(
		NewLayer(PlayerScope(player), reported, WithSnapshotID(player.PlayerID())),
		NewLayer(DefaultsScope(), s.Defaults()),
	)
	if err != nil {
		return nil, err
	}
	return stack.Merge()
}

// reported reads every live setting player holds for the session options.
func (s *Service) reported(ctx context.Context, player Player) (map[string]any, error) {
	out := make(map[string]any)
	for _, option := range s.Options() {
		if option.ReturnableType() == ValueNone {
			continue
		}
		if _, seen := out[option.CustomID()]; seen {
			continue
		}
		setting, ok, err := s.transport.Setting(ctx, player, option.ID())
		if err != nil {
			return nil, fmt.Errorf("menuopts: read %q for %s: %w", option.CustomID(), player.PlayerID(), err)
		}
		if !ok {
			continue
		}
		if value, ok := settingValue(option, setting); ok {
			out[option.CustomID()] = value
		}
	}
	return out, nil
}

func defaultValue(option Option) (any, bool) {
	switch typed := option.(type) {
	case *Dropdown:
		return typed.DefaultEntry()
	case *Slider:
		return typed.DefaultValue, true
	case *TwoButtons:
		return !typed.SecondDefault, true
	case *TextInput:
		return "", true
	default:
		return nil, false
	}
}

func settingValue(option Option, setting SettingValue) (any, bool) {
	switch typed := option.(type) {
	case *Dropdown:
		if setting.SelectedText != "" {
			return setting.SelectedText, true
		}
		if setting.SelectedIndex >= 0 && setting.SelectedIndex < len(typed.Entries) {
			return typed.Entries[setting.SelectedIndex], true
		}
		return nil, false
	case *Slider:
		return setting.Number, true
	case *TwoButtons:
		return setting.IsFirst, true
	case *TextInput:
		return setting.Text, true
	default:
		return nil, false
	}
}
