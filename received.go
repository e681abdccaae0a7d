package menuopts

import (
	"context"

	"github.com/goliatone/go-menuopts/pkg/activity"
)

// HandleValueReceived is called by the transport when player reports a value
// for numericID. It runs the option's handlers and emits an activity event.
// Unknown ids belong to the host and are ignored.
func (s *Service) HandleValueReceived(ctx context.Context, player Player, numericID int32) error {
	option, ok := s.GetByID(numericID)
	if !ok {
		s.logger.Debug("value received for unknown option", "numeric_id", numericID)
		return nil
	}
	if player == nil {
		return &ValidationError{Subject: "player", Reason: "must not be nil"}
	}

	switch typed := option.(type) {
	case *Button:
		if typed.OnClicked != nil {
			typed.OnClicked(ctx, player, typed)
		}
	case *Keybind:
		if typed.OnPressed != nil {
			typed.OnPressed(ctx, player, typed)
		}
	case *TwoButtons:
		if typed.OnChoice != nil {
			setting, found, err := s.transport.Setting(ctx, player, numericID)
			if err != nil {
				s.logger.Warn("two-buttons choice unreadable", "custom_id", typed.CustomID(), "player", player.PlayerID(), "error", err)
			} else if found {
				typed.OnChoice(ctx, player, setting.IsFirst)
			}
		}
	}

	if receiver, ok := option.(ValueReceiver); ok {
		if handler := receiver.ValueReceivedHandler(); handler != nil {
			handler(ctx, player, option)
		}
	}

	s.emit(ctx, activity.BuildValueReceivedEvent(activity.OptionEventInput{
		PlayerID:  player.PlayerID(),
		CustomID:  option.CustomID(),
		NumericID: numericID,
		Kind:      option.Kind().String(),
	}))
	return nil
}
