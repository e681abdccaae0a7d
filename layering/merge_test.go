package layering

import (
	"reflect"
	"sort"
	"testing"
)

func TestMergeStrongestWins(t *testing.T) {
	player := Snapshot{"Volume": 80.0, "Color": "Blue"}
	defaults := Snapshot{"Volume": 50.0, "Color": "Green", "Nickname": ""}

	got := Merge(player, defaults)
	want := Snapshot{"Volume": 80.0, "Color": "Blue", "Nickname": ""}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("merged snapshot mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestMergeNestedMapsKeyByKey(t *testing.T) {
	strong := Snapshot{"audio": Snapshot{"music": 0.2}}
	weak := Snapshot{"audio": Snapshot{"music": 0.8, "effects": 1.0}}

	got := Merge(strong, weak)
	want := Snapshot{"audio": Snapshot{"music": 0.2, "effects": 1.0}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("merged snapshot mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	strong := Snapshot{"audio": Snapshot{"music": 0.2}}
	weak := Snapshot{"audio": Snapshot{"effects": 1.0}}

	got := Merge(strong, weak)
	got["audio"].(Snapshot)["music"] = 99.0

	if strong["audio"].(Snapshot)["music"] != 0.2 {
		t.Fatalf("strong layer mutated: %#v", strong)
	}
	if _, ok := weak["audio"].(Snapshot)["music"]; ok {
		t.Fatalf("weak layer mutated: %#v", weak)
	}
}

func TestMergeZeroAndNilLayers(t *testing.T) {
	if got := Merge(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %#v", got)
	}
	got := Merge(nil, Snapshot{"a": 1})
	if got["a"] != 1 {
		t.Fatalf("expected nil layer skipped, got %#v", got)
	}
}

func TestLookupPrefersWholeKey(t *testing.T) {
	snapshot := Snapshot{
		"menu.volume": 10,
		"menu":        Snapshot{"volume": 20, "color": "Red"},
	}
	if value, ok := Lookup(snapshot, "menu.volume"); !ok || value != 10 {
		t.Fatalf("expected whole-key match, got %v %v", value, ok)
	}
	if value, ok := Lookup(snapshot, "menu.color"); !ok || value != "Red" {
		t.Fatalf("expected nested match, got %v %v", value, ok)
	}
	if _, ok := Lookup(snapshot, "menu.missing"); ok {
		t.Fatalf("expected missing path")
	}
	if _, ok := Lookup(nil, "x"); ok {
		t.Fatalf("expected nil snapshot miss")
	}
}

func TestPathsEnumeratesLeaves(t *testing.T) {
	paths := Paths(Snapshot{"a": 1, "b": Snapshot{"c": 2, "d": Snapshot{}}})
	sort.Strings(paths)
	want := []string{"a", "b.c", "b.d"}
	if !reflect.DeepEqual(want, paths) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
}

func TestCloneDetachesSlices(t *testing.T) {
	original := Snapshot{"entries": []any{"Red", "Green"}}
	clone := Clone(original)
	clone["entries"].([]any)[0] = "Blue"
	if original["entries"].([]any)[0] != "Red" {
		t.Fatalf("clone shares slice storage")
	}
}
