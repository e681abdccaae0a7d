package menuopts

import (
	"context"

	"github.com/goliatone/go-menuopts/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the service. Hooks are cloned
// and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) ServiceOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *serviceConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityConfig overrides the emission defaults (enabled, channel
// "menuopts").
func WithActivityConfig(config activity.Config) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.activityConfig = config
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (s *Service) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return cloneActivityHooks(s.cfg.activityHooks)
}

// emit never fails the calling operation; hook errors are logged.
func (s *Service) emit(ctx context.Context, event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.cfg.now()
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Warn("activity hook failed", "verb", event.Verb, "object_id", event.ObjectID, "error", err)
	}
}

func (s *Service) emitOptions(ctx context.Context, build func(activity.OptionEventInput) activity.Event, node *OptionNode, player Player, options []Option) {
	if !s.emitter.Enabled() {
		return
	}
	header := ""
	if node != nil {
		header = node.Header
	}
	playerID := ""
	if player != nil {
		playerID = player.PlayerID()
	}
	for _, option := range options {
		s.emit(ctx, build(activity.OptionEventInput{
			PlayerID:  playerID,
			CustomID:  option.CustomID(),
			NumericID: option.ID(),
			Kind:      option.Kind().String(),
			Node:      header,
		}))
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
