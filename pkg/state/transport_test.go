package state_test

import (
	"context"
	"reflect"
	"testing"

	menuopts "github.com/goliatone/go-menuopts"
	"github.com/goliatone/go-menuopts/pkg/state"
)

func sliderOption(customID string, id int32) *menuopts.Slider {
	slider := &menuopts.Slider{
		Base:     menuopts.Base{CustomIDValue: customID, LabelText: customID},
		MaxValue: 1,
	}
	slider.SetID(id)
	return slider
}

func TestLocalTransportBroadcastHonoursPredicate(t *testing.T) {
	ctx := context.Background()
	transport := state.NewLocalTransport(nil)
	alice := menuopts.BasicPlayer{ID: "alice"}
	bob := menuopts.BasicPlayer{ID: "bob"}
	transport.Connect(alice)
	transport.Connect(bob)

	options := []menuopts.Option{sliderOption("volume", 11), sliderOption("gain", 12)}
	onlyAlice := func(p menuopts.Player) bool { return p.PlayerID() == "alice" }
	if err := transport.Broadcast(ctx, menuopts.NewOptionNode("Audio"), options, onlyAlice); err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}

	if got := transport.Visible(alice); !reflect.DeepEqual(got, []int32{11, 12}) {
		t.Fatalf("expected alice to see 11 and 12, got %v", got)
	}
	if got := transport.Visible(bob); len(got) != 0 {
		t.Fatalf("expected bob to see nothing, got %v", got)
	}

	if err := transport.Retract(ctx, menuopts.NewOptionNode("Audio"), options[:1], nil); err != nil {
		t.Fatalf("Retract returned error: %v", err)
	}
	if got := transport.Visible(alice); !reflect.DeepEqual(got, []int32{12}) {
		t.Fatalf("expected alice to see 12, got %v", got)
	}
}

func TestLocalTransportReportNotifiesReceiver(t *testing.T) {
	ctx := context.Background()
	var received []int32
	transport := state.NewLocalTransport(nil, state.WithReceiver(func(_ context.Context, _ menuopts.Player, id int32) error {
		received = append(received, id)
		return nil
	}))
	alice := menuopts.BasicPlayer{ID: "alice"}
	transport.Connect(alice)

	if err := transport.Report(ctx, alice, 11, menuopts.SettingValue{Number: 1}); err == nil {
		t.Fatalf("expected report for an unseen option to fail")
	}

	if err := transport.Send(ctx, alice, nil, []menuopts.Option{sliderOption("volume", 11)}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if err := transport.Report(ctx, alice, 11, menuopts.SettingValue{Number: 1}); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if !reflect.DeepEqual(received, []int32{11}) {
		t.Fatalf("expected receiver to see 11, got %v", received)
	}

	value, ok, err := transport.Setting(ctx, alice, 11)
	if err != nil || !ok || value.Number != 1 {
		t.Fatalf("unexpected setting %+v ok=%v err=%v", value, ok, err)
	}

	transport.Disconnect(alice)
	if _, ok, _ := transport.Setting(ctx, alice, 11); ok {
		t.Fatalf("expected settings to be dropped on disconnect")
	}
}
