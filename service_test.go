package menuopts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menuopts "github.com/goliatone/go-menuopts"
	"github.com/goliatone/go-menuopts/pkg/activity"
	"github.com/goliatone/go-menuopts/pkg/nonce"
	"github.com/goliatone/go-menuopts/pkg/registry"
	"github.com/goliatone/go-menuopts/pkg/state"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type harness struct {
	svc       *menuopts.Service
	ids       *registry.Registry
	gen       *nonce.Generator
	transport *state.LocalTransport
}

func newHarness(t *testing.T, opts ...menuopts.ServiceOption) *harness {
	t.Helper()
	gen := nonce.New(nonce.WithSource(rand.NewPCG(7, 11)))
	ids, err := registry.Open(
		registry.PathFor(t.TempDir(), "MenuOptsCache", 7777),
		registry.WithLogger(quiet),
		registry.WithGenerator(gen),
	)
	require.NoError(t, err)

	transport := state.NewLocalTransport(nil, state.WithTransportLogger(quiet))
	svc, err := menuopts.NewService(ids, transport, append([]menuopts.ServiceOption{menuopts.WithLogger(quiet)}, opts...)...)
	require.NoError(t, err)
	transport.SetReceiver(svc.HandleValueReceived)
	return &harness{svc: svc, ids: ids, gen: gen, transport: transport}
}

func volumeSlider() *menuopts.Slider {
	return &menuopts.Slider{
		Base:         menuopts.Base{CustomIDValue: "Volume", LabelText: "Volume"},
		MinValue:     0,
		MaxValue:     1,
		DefaultValue: 0.8,
	}
}

func colorDropdown() *menuopts.Dropdown {
	return &menuopts.Dropdown{
		Base:         menuopts.Base{CustomIDValue: "Color", LabelText: "Color"},
		Entries:      []string{"Red", "Green", "Blue"},
		DefaultIndex: 1,
	}
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	transport := state.NewLocalTransport(nil)
	_, err := menuopts.NewService(nil, transport)
	require.Error(t, err)

	ids, err := registry.Open(filepath.Join(t.TempDir(), "registry.txt"), registry.WithLogger(quiet))
	require.NoError(t, err)
	_, err = menuopts.NewService(ids, nil)
	require.Error(t, err)
}

func TestRegisterAssignsRegistryIDs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	slider := volumeSlider()

	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("Audio", slider), nil))

	want, ok := h.ids.TryGet("Volume")
	require.True(t, ok)
	assert.Equal(t, want, slider.ID())

	got, ok := h.svc.Get("Volume")
	require.True(t, ok)
	assert.Same(t, slider, got)

	byID, ok := h.svc.GetByID(want)
	require.True(t, ok)
	assert.Same(t, slider, byID)
}

func TestRegisterRejectsNilNode(t *testing.T) {
	h := newHarness(t)
	err := h.svc.Register(context.Background(), nil, nil)
	assert.ErrorIs(t, err, menuopts.ErrValidation)

	err = h.svc.Register(context.Background(), menuopts.NewOptionNode("Broken", nil), nil)
	assert.ErrorIs(t, err, menuopts.ErrValidation)
}

func TestSameCustomIDInTwoNodesSharesNumericID(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first, second := volumeSlider(), volumeSlider()

	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("A", first), nil))
	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("B", second), nil))

	assert.Equal(t, first.ID(), second.ID())
	assert.Len(t, h.svc.Options(), 2)

	got, ok := h.svc.Get("Volume")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, h.ids.Len())
}

func TestRegisteringSameInstanceTwiceDoesNotDuplicate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	slider := volumeSlider()

	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("A", slider), nil))
	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("B", slider), nil))

	assert.Len(t, h.svc.Options(), 1)
}

func TestRegisterBroadcastsToAdmittedPlayers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := menuopts.BasicPlayer{ID: "alice"}
	bob := menuopts.BasicPlayer{ID: "bob"}
	h.transport.Connect(alice)
	h.transport.Connect(bob)

	slider := volumeSlider()
	onlyBob := func(p menuopts.Player) bool { return p.PlayerID() == "bob" }
	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("Audio", slider), onlyBob))

	assert.Empty(t, h.transport.Visible(alice))
	assert.Equal(t, []int32{slider.ID()}, h.transport.Visible(bob))

	require.NoError(t, h.svc.RegisterFor(ctx, menuopts.NewOptionNode("Audio", slider), alice))
	assert.Equal(t, []int32{slider.ID()}, h.transport.Visible(alice))
}

func TestRegisterForRequiresPlayer(t *testing.T) {
	h := newHarness(t)
	err := h.svc.RegisterFor(context.Background(), menuopts.NewOptionNode("Audio", volumeSlider()), nil)
	assert.ErrorIs(t, err, menuopts.ErrValidation)
	assert.Empty(t, h.svc.Options())
}

func TestUnregisterRemovesAndRetracts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := menuopts.BasicPlayer{ID: "alice"}
	h.transport.Connect(alice)

	slider, dropdown := volumeSlider(), colorDropdown()
	node := menuopts.NewOptionNode("Audio", slider, dropdown)
	require.NoError(t, h.svc.Register(ctx, node, nil))
	require.Len(t, h.transport.Visible(alice), 2)

	require.NoError(t, h.svc.Unregister(ctx, menuopts.NewOptionNode("Audio", volumeSlider()), nil))

	_, ok := h.svc.Get("Volume")
	assert.False(t, ok)
	assert.Equal(t, []int32{dropdown.ID()}, h.transport.Visible(alice))

	_, stillMapped := h.ids.TryGet("Volume")
	assert.True(t, stillMapped, "registry mappings outlive the session")

	unknown := &menuopts.Button{Base: menuopts.Base{CustomIDValue: "Never", LabelText: "Never"}, Text: "x"}
	require.NoError(t, h.svc.UnregisterFor(ctx, menuopts.NewOptionNode("Other", unknown), alice))
	assert.Len(t, h.svc.Options(), 1)
}

func twoPlayers(t *testing.T) (*harness, menuopts.BasicPlayer, menuopts.BasicPlayer, *menuopts.Slider) {
	t.Helper()
	h := newHarness(t)
	ctx := context.Background()
	alice := menuopts.BasicPlayer{ID: "alice"}
	bob := menuopts.BasicPlayer{ID: "bob"}
	h.transport.Connect(alice)
	h.transport.Connect(bob)

	slider := volumeSlider()
	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("Audio", slider), nil))
	require.NoError(t, h.transport.Report(ctx, bob, slider.ID(), menuopts.SettingValue{Kind: menuopts.KindSlider, Number: 0.3}))
	return h, alice, bob, slider
}

func TestUnregisterForKeepsOptionForOtherPlayers(t *testing.T) {
	h, alice, bob, slider := twoPlayers(t)
	ctx := context.Background()

	require.NoError(t, h.svc.UnregisterFor(ctx, menuopts.NewOptionNode("Audio", volumeSlider()), alice))

	assert.Empty(t, h.transport.Visible(alice))
	assert.Equal(t, []int32{slider.ID()}, h.transport.Visible(bob))

	_, ok := h.svc.Get("Volume")
	assert.True(t, ok)

	number, err := h.svc.GetNumberValue(ctx, bob, "Volume")
	require.NoError(t, err)
	assert.Equal(t, 0.3, number)
}

func TestUnregisterWithPredicateKeepsOptionForOtherPlayers(t *testing.T) {
	h, alice, bob, slider := twoPlayers(t)
	ctx := context.Background()

	onlyAlice := func(p menuopts.Player) bool { return p.PlayerID() == "alice" }
	require.NoError(t, h.svc.Unregister(ctx, menuopts.NewOptionNode("Audio", volumeSlider()), onlyAlice))

	assert.Empty(t, h.transport.Visible(alice))
	assert.Equal(t, []int32{slider.ID()}, h.transport.Visible(bob))

	number, err := h.svc.GetNumberValue(ctx, bob, "Volume")
	require.NoError(t, err)
	assert.Equal(t, 0.3, number)
}

func TestGlobalUnregisterDropsOptionForEveryone(t *testing.T) {
	h, alice, bob, _ := twoPlayers(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Unregister(ctx, menuopts.NewOptionNode("Audio", volumeSlider()), nil))

	assert.Empty(t, h.transport.Visible(alice))
	assert.Empty(t, h.transport.Visible(bob))

	_, err := h.svc.GetNumberValue(ctx, bob, "Volume")
	assert.ErrorIs(t, err, menuopts.ErrNotFound)
}

func TestSeedHostIDsReachesGenerator(t *testing.T) {
	h := newHarness(t)
	h.svc.SeedHostIDs(10, 20, 30)
	for _, id := range []int32{10, 20, 30} {
		assert.True(t, h.gen.Used(id), "id %d", id)
	}
}

func TestRegisterEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	h := newHarness(t, menuopts.WithActivityHooks(activity.Hooks{capture}))
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	h.transport.Connect(player)

	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("Audio", volumeSlider()), nil))
	require.NoError(t, h.svc.Register(ctx, menuopts.NewOptionNode("Again", volumeSlider()), nil))
	require.NoError(t, h.svc.UnregisterFor(ctx, menuopts.NewOptionNode("Audio", volumeSlider()), player))

	assert.Equal(t, []string{
		activity.VerbIdentifierAssigned,
		activity.VerbOptionRegistered,
		activity.VerbOptionRegistered,
		activity.VerbOptionUnregistered,
	}, capture.Verbs())

	last := capture.Events[len(capture.Events)-1]
	assert.Equal(t, "alice", last.ActorID)
	assert.Equal(t, "Volume", last.ObjectID)
	assert.Equal(t, activity.DefaultChannel, last.Channel)
	assert.NotEmpty(t, last.ID)
}

func TestActivityHookErrorsDoNotFailRegistration(t *testing.T) {
	capture := &activity.CaptureHook{Err: errors.New("sink offline")}
	h := newHarness(t, menuopts.WithActivityHooks(activity.Hooks{capture}))

	require.NoError(t, h.svc.Register(context.Background(), menuopts.NewOptionNode("Audio", volumeSlider()), nil))
	assert.NotEmpty(t, capture.Events)
}

func TestActivityCanBeDisabled(t *testing.T) {
	capture := &activity.CaptureHook{}
	h := newHarness(t,
		menuopts.WithActivityHooks(activity.Hooks{capture}),
		menuopts.WithActivityConfig(activity.Config{Enabled: false}),
	)

	require.NoError(t, h.svc.Register(context.Background(), menuopts.NewOptionNode("Audio", volumeSlider()), nil))
	assert.Empty(t, capture.Events)
}
