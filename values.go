package menuopts

import (
	"context"
	"fmt"
)

// GetStringValue returns the dropdown selection or free text player reported
// for customID.
func (s *Service) GetStringValue(ctx context.Context, player Player, customID string) (string, error) {
	option, setting, err := s.readSetting(ctx, player, customID, ValueString)
	if err != nil {
		return "", err
	}
	switch option.Kind() {
	case KindDropdown:
		return dropdownText(option, setting, player)
	case KindTextInput:
		return setting.Text, nil
	default:
		return "", noExtraction(option, ValueString)
	}
}

// GetNumberValue returns the slider value player reported for customID.
func (s *Service) GetNumberValue(ctx context.Context, player Player, customID string) (float64, error) {
	option, setting, err := s.readSetting(ctx, player, customID, ValueNumber)
	if err != nil {
		return 0, err
	}
	switch option.Kind() {
	case KindSlider:
		return setting.Number, nil
	default:
		return 0, noExtraction(option, ValueNumber)
	}
}

// GetBooleanValue returns true when player selected the first of two buttons.
func (s *Service) GetBooleanValue(ctx context.Context, player Player, customID string) (bool, error) {
	option, setting, err := s.readSetting(ctx, player, customID, ValueBoolean)
	if err != nil {
		return false, err
	}
	switch option.Kind() {
	case KindTwoButtons:
		return setting.IsFirst, nil
	default:
		return false, noExtraction(option, ValueBoolean)
	}
}

// readSetting resolves customID, checks its returnable type and reads the
// player's live setting. Errors come back in that order.
func (s *Service) readSetting(ctx context.Context, player Player, customID string, want ValueType) (Option, SettingValue, error) {
	option, ok := s.Get(customID)
	if !ok {
		return nil, SettingValue{}, &NotFoundError{CustomID: customID}
	}
	if have := option.ReturnableType(); have != want {
		return nil, SettingValue{}, &TypeMismatchError{CustomID: customID, Kind: option.Kind(), Want: want, Have: have}
	}
	if player == nil {
		return nil, SettingValue{}, &ValidationError{Subject: "player", Reason: "must not be nil"}
	}
	setting, ok, err := s.transport.Setting(ctx, player, option.ID())
	if err != nil {
		return nil, SettingValue{}, fmt.Errorf("menuopts: read %q for %s: %w", customID, player.PlayerID(), err)
	}
	if !ok {
		return nil, SettingValue{}, &ValueUnavailableError{CustomID: customID, NumericID: option.ID(), PlayerID: player.PlayerID()}
	}
	if setting.Kind != KindUnknown && setting.Kind != option.Kind() {
		return nil, SettingValue{}, &InternalConsistencyError{
			CustomID: customID,
			Kind:     option.Kind(),
			Detail:   fmt.Sprintf("live setting %d is a %s", option.ID(), setting.Kind),
		}
	}
	return option, setting, nil
}

func dropdownText(option Option, setting SettingValue, player Player) (string, error) {
	if setting.SelectedText != "" {
		return setting.SelectedText, nil
	}
	if dropdown, ok := option.(*Dropdown); ok {
		if setting.SelectedIndex >= 0 && setting.SelectedIndex < len(dropdown.Entries) {
			return dropdown.Entries[setting.SelectedIndex], nil
		}
	}
	return "", &ValueUnavailableError{
		CustomID:  option.CustomID(),
		NumericID: option.ID(),
		PlayerID:  player.PlayerID(),
		Reason:    fmt.Sprintf("no entry selected (index %d)", setting.SelectedIndex),
	}
}

func noExtraction(option Option, want ValueType) error {
	return &InternalConsistencyError{
		CustomID: option.CustomID(),
		Kind:     option.Kind(),
		Detail:   fmt.Sprintf("returns %s but has no %s extraction", option.ReturnableType(), want),
	}
}
