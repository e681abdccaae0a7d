package state

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	menuopts "github.com/goliatone/go-menuopts"
)

// Receiver is notified after a player reports a value.
// Service.HandleValueReceived satisfies it.
type Receiver func(ctx context.Context, player menuopts.Player, numericID int32) error

// LocalTransport delivers option nodes to players connected in-process and
// keeps their reported values in a Store.
type LocalTransport struct {
	store  *MemoryStore
	logger *slog.Logger

	mu       sync.RWMutex
	players  map[string]menuopts.Player
	visible  map[string]map[int32]string
	receiver Receiver
}

var _ menuopts.Transport = (*LocalTransport)(nil)

// TransportOption configures a LocalTransport.
type TransportOption func(*LocalTransport)

// WithTransportLogger sets the logger used for delivery diagnostics.
func WithTransportLogger(logger *slog.Logger) TransportOption {
	return func(t *LocalTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithReceiver sets the callback run after every reported value.
func WithReceiver(receiver Receiver) TransportOption {
	return func(t *LocalTransport) {
		t.receiver = receiver
	}
}

// NewLocalTransport builds a transport over store. A nil store gets a fresh
// MemoryStore.
func NewLocalTransport(store *MemoryStore, opts ...TransportOption) *LocalTransport {
	if store == nil {
		store = NewMemoryStore()
	}
	t := &LocalTransport{
		store:   store,
		logger:  slog.Default(),
		players: map[string]menuopts.Player{},
		visible: map[string]map[int32]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// SetReceiver replaces the report callback. It lets a Service built on this
// transport register itself after construction.
func (t *LocalTransport) SetReceiver(receiver Receiver) {
	t.mu.Lock()
	t.receiver = receiver
	t.mu.Unlock()
}

// Store returns the backing store.
func (t *LocalTransport) Store() *MemoryStore {
	return t.store
}

// Connect makes player eligible for broadcasts.
func (t *LocalTransport) Connect(player menuopts.Player) {
	if player == nil {
		return
	}
	t.mu.Lock()
	t.players[player.PlayerID()] = player
	t.mu.Unlock()
}

// Disconnect removes player and everything it reported.
func (t *LocalTransport) Disconnect(player menuopts.Player) {
	if player == nil {
		return
	}
	t.mu.Lock()
	delete(t.players, player.PlayerID())
	delete(t.visible, player.PlayerID())
	t.mu.Unlock()
	t.store.Forget(player)
}

func (t *LocalTransport) Setting(ctx context.Context, player menuopts.Player, id int32) (menuopts.SettingValue, bool, error) {
	return t.store.Setting(ctx, player, id)
}

func (t *LocalTransport) Broadcast(ctx context.Context, node *menuopts.OptionNode, options []menuopts.Option, predicate menuopts.Predicate) error {
	for _, player := range t.admitted(predicate) {
		if err := t.Send(ctx, player, node, options); err != nil {
			return err
		}
	}
	return nil
}

func (t *LocalTransport) Send(_ context.Context, player menuopts.Player, node *menuopts.OptionNode, options []menuopts.Option) error {
	if player == nil {
		return fmt.Errorf("state: send requires a player")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	shown, ok := t.visible[player.PlayerID()]
	if !ok {
		shown = map[int32]string{}
		t.visible[player.PlayerID()] = shown
	}
	for _, option := range options {
		shown[option.ID()] = option.CustomID()
	}
	t.logger.Debug("node delivered", "header", nodeHeader(node), "player", player.PlayerID(), "options", len(options))
	return nil
}

func (t *LocalTransport) Retract(ctx context.Context, node *menuopts.OptionNode, options []menuopts.Option, predicate menuopts.Predicate) error {
	for _, player := range t.admitted(predicate) {
		if err := t.RetractFrom(ctx, player, node, options); err != nil {
			return err
		}
	}
	return nil
}

func (t *LocalTransport) RetractFrom(_ context.Context, player menuopts.Player, node *menuopts.OptionNode, options []menuopts.Option) error {
	if player == nil {
		return fmt.Errorf("state: retract requires a player")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	shown := t.visible[player.PlayerID()]
	for _, option := range options {
		delete(shown, option.ID())
	}
	t.logger.Debug("node retracted", "header", nodeHeader(node), "player", player.PlayerID(), "options", len(options))
	return nil
}

// Visible returns the numeric ids currently shown to player, ascending.
func (t *LocalTransport) Visible(player menuopts.Player) []int32 {
	if player == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	shown := t.visible[player.PlayerID()]
	out := make([]int32, 0, len(shown))
	for id := range shown {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Report stores the value player sent for id and notifies the receiver.
// Values for options the player was never shown are rejected.
func (t *LocalTransport) Report(ctx context.Context, player menuopts.Player, id int32, value menuopts.SettingValue) error {
	if player == nil {
		return fmt.Errorf("state: report requires a player")
	}
	t.mu.RLock()
	_, shown := t.visible[player.PlayerID()][id]
	receiver := t.receiver
	t.mu.RUnlock()
	if !shown {
		return fmt.Errorf("state: option %d is not shown to %s", id, player.PlayerID())
	}
	if err := t.store.Report(ctx, player, id, value); err != nil {
		return err
	}
	if receiver == nil {
		return nil
	}
	return receiver(ctx, player, id)
}

func (t *LocalTransport) admitted(predicate menuopts.Predicate) []menuopts.Player {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.players))
	for id := range t.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]menuopts.Player, 0, len(ids))
	for _, id := range ids {
		player := t.players[id]
		if predicate == nil || predicate(player) {
			out = append(out, player)
		}
	}
	return out
}

func nodeHeader(node *menuopts.OptionNode) string {
	if node == nil {
		return ""
	}
	return node.Header
}
