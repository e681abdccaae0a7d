package menuopts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/goliatone/go-menuopts/pkg/activity"
)

// Service registers option nodes, assigns their numeric ids and reads back
// the values players report. Create one per process with NewService.
type Service struct {
	ids       IdentifierRegistry
	transport Transport
	cfg       serviceConfig
	logger    *slog.Logger
	emitter   *activity.Emitter

	evalMu sync.Mutex

	mu      sync.RWMutex
	options []Option
}

// NewService wires a service to its identifier registry and transport.
func NewService(ids IdentifierRegistry, transport Transport, opts ...ServiceOption) (*Service, error) {
	if ids == nil {
		return nil, errors.New("menuopts: identifier registry is required")
	}
	if transport == nil {
		return nil, errors.New("menuopts: transport is required")
	}
	cfg := applyServiceOptions(opts)
	return &Service{
		ids:       ids,
		transport: transport,
		cfg:       cfg,
		logger:    cfg.logger,
		emitter:   activity.NewEmitter(cfg.activityHooks, cfg.activityConfig),
	}, nil
}

// Register assigns numeric ids to every option in node, records them for the
// session and broadcasts the node to every player admitted by predicate.
// A nil predicate admits everybody.
func (s *Service) Register(ctx context.Context, node *OptionNode, predicate Predicate) error {
	options, err := s.assign(ctx, node)
	if err != nil {
		return err
	}
	if err := s.transport.Broadcast(ctx, node, options, predicate); err != nil {
		return fmt.Errorf("menuopts: broadcast node %q: %w", node.Header, err)
	}
	s.logger.Debug("menu node registered", "header", node.Header, "options", len(options))
	s.emitOptions(ctx, activity.BuildOptionRegisteredEvent, node, nil, options)
	return nil
}

// RegisterFor is Register targeted at one connected player.
func (s *Service) RegisterFor(ctx context.Context, node *OptionNode, player Player) error {
	if player == nil {
		return &ValidationError{Subject: "player", Reason: "must not be nil"}
	}
	options, err := s.assign(ctx, node)
	if err != nil {
		return err
	}
	if err := s.transport.Send(ctx, player, node, options); err != nil {
		return fmt.Errorf("menuopts: send node %q to %s: %w", node.Header, player.PlayerID(), err)
	}
	s.logger.Debug("menu node sent", "header", node.Header, "player", player.PlayerID(), "options", len(options))
	s.emitOptions(ctx, activity.BuildOptionRegisteredEvent, node, player, options)
	return nil
}

// Unregister retracts node's options from every player admitted by
// predicate. Options the session does not know are skipped. Only a nil
// predicate drops the options from the session; otherwise they stay
// resolvable for the players left untouched.
func (s *Service) Unregister(ctx context.Context, node *OptionNode, predicate Predicate) error {
	var options []Option
	var err error
	if predicate == nil {
		options, err = s.release(node)
	} else {
		options, err = s.lookup(node)
	}
	if err != nil {
		return err
	}
	if err := s.transport.Retract(ctx, node, options, predicate); err != nil {
		return fmt.Errorf("menuopts: retract node %q: %w", node.Header, err)
	}
	s.emitOptions(ctx, activity.BuildOptionUnregisteredEvent, node, nil, options)
	return nil
}

// UnregisterFor retracts node from one player. The options stay in the
// session.
func (s *Service) UnregisterFor(ctx context.Context, node *OptionNode, player Player) error {
	if player == nil {
		return &ValidationError{Subject: "player", Reason: "must not be nil"}
	}
	options, err := s.lookup(node)
	if err != nil {
		return err
	}
	if err := s.transport.RetractFrom(ctx, player, node, options); err != nil {
		return fmt.Errorf("menuopts: retract node %q from %s: %w", node.Header, player.PlayerID(), err)
	}
	s.emitOptions(ctx, activity.BuildOptionUnregisteredEvent, node, player, options)
	return nil
}

// Get returns the first registered option with customID.
func (s *Service) Get(customID string) (Option, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, option := range s.options {
		if option.CustomID() == customID {
			return option, true
		}
	}
	return nil, false
}

// GetByID returns the first registered option with numericID.
func (s *Service) GetByID(numericID int32) (Option, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, option := range s.options {
		if option.ID() == numericID {
			return option, true
		}
	}
	return nil, false
}

// Options returns the session's options in registration order.
func (s *Service) Options() []Option {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// SeedHostIDs reserves numeric ids the host already uses. Call it at
// startup and whenever the host redefines its full setting set.
func (s *Service) SeedHostIDs(ids ...int32) {
	seeder, ok := s.ids.(HostIDSeeder)
	if !ok {
		s.logger.Warn("identifier registry cannot reserve host ids", "count", len(ids))
		return
	}
	seeder.SeedHostIDs(ids...)
}

func (s *Service) assign(ctx context.Context, node *OptionNode) ([]Option, error) {
	if node == nil {
		return nil, &ValidationError{Subject: "node", Reason: "must not be nil"}
	}
	options := make([]Option, 0, len(node.Options))
	for i, option := range node.Options {
		if option == nil {
			return nil, &ValidationError{Subject: fmt.Sprintf("node %q", node.Header), Field: fmt.Sprintf("options[%d]", i), Reason: "must not be nil"}
		}
		customID := option.CustomID()
		_, known := s.ids.TryGet(customID)
		id, err := s.ids.Register(customID)
		if err != nil {
			return nil, fmt.Errorf("menuopts: assign id for %q: %w", customID, err)
		}
		option.SetID(id)
		options = append(options, option)
		if !known {
			s.logger.Info("assigned numeric id", "custom_id", customID, "numeric_id", id)
			s.emit(ctx, activity.BuildIdentifierAssignedEvent(activity.OptionEventInput{
				CustomID:  customID,
				NumericID: id,
				Kind:      option.Kind().String(),
				Node:      node.Header,
			}))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, option := range options {
		if s.containsInstanceLocked(option) {
			continue
		}
		s.options = append(s.options, option)
	}
	return options, nil
}

// release removes every session entry that shares a custom id with one of
// node's options and returns the first match for each.
func (s *Service) release(node *OptionNode) ([]Option, error) {
	if node == nil {
		return nil, &ValidationError{Subject: "node", Reason: "must not be nil"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []Option
	for _, option := range node.Options {
		if option == nil {
			continue
		}
		customID := option.CustomID()
		kept := s.options[:0]
		var first Option
		for _, existing := range s.options {
			if existing.CustomID() == customID {
				if first == nil {
					first = existing
				}
				continue
			}
			kept = append(kept, existing)
		}
		clear(s.options[len(kept):])
		s.options = kept
		if first != nil {
			found = append(found, first)
		}
	}
	return found, nil
}

// lookup returns the first session option for each of node's custom ids
// without removing anything.
func (s *Service) lookup(node *OptionNode) ([]Option, error) {
	if node == nil {
		return nil, &ValidationError{Subject: "node", Reason: "must not be nil"}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []Option
	for _, option := range node.Options {
		if option == nil {
			continue
		}
		for _, existing := range s.options {
			if existing.CustomID() == option.CustomID() {
				found = append(found, existing)
				break
			}
		}
	}
	return found, nil
}

func (s *Service) containsInstanceLocked(option Option) bool {
	for _, existing := range s.options {
		if sameInstance(existing, option) {
			return true
		}
	}
	return false
}

// sameInstance compares pointer-backed options by address. Value options
// are never considered the same instance.
func sameInstance(a, b Option) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
}
