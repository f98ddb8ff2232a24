package reference

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolveSplicesListsIntoLists(t *testing.T) {
	root := map[string]any{
		".setup": map[string]any{
			"script": []any{"apt update", "apt install -y make"},
		},
		"build": map[string]any{
			"script": []any{
				New(".setup", "script"),
				"make build",
			},
		},
	}

	out, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}

	got := out["build"].(map[string]any)["script"]
	want := []any{"apt update", "apt install -y make", "make build"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Resolution is deterministic.
	again, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, again) {
		t.Fatal("resolving twice should yield structurally equal trees")
	}
}

func TestResolveExpandsChainedReferences(t *testing.T) {
	root := map[string]any{
		".base": map[string]any{
			"variables": map[string]any{"TIER": "base"},
		},
		".middle": map[string]any{
			"variables": New(".base", "variables"),
		},
		"job": map[string]any{
			"variables": New(".middle", "variables"),
		},
	}

	out, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}

	got := out["job"].(map[string]any)["variables"]
	want := map[string]any{"TIER": "base"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolveScalarReferenceStaysInPlace(t *testing.T) {
	root := map[string]any{
		".defaults": map[string]any{"timeout": "30 minutes"},
		"job": map[string]any{
			"timeout": New(".defaults", "timeout"),
		},
	}

	out, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}

	if got := out["job"].(map[string]any)["timeout"]; got != "30 minutes" {
		t.Fatalf("expected resolved scalar, got %v", got)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	shared := []any{"echo hello"}
	root := map[string]any{
		".setup": map[string]any{"script": shared},
		"job": map[string]any{
			"script": []any{New(".setup", "script")},
		},
	}

	out, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}

	resolved := out["job"].(map[string]any)["script"].([]any)
	resolved[0] = "mutated"
	if shared[0] != "echo hello" {
		t.Fatal("resolution should deep copy referenced values")
	}

	if _, ok := root["job"].(map[string]any)["script"].([]any)[0].(*Reference); !ok {
		t.Fatal("input tree should keep its reference placeholder")
	}
}

func TestResolveUnknownBlock(t *testing.T) {
	root := map[string]any{
		"job": map[string]any{"script": New(".missing", "script")},
	}

	_, err := Resolve(root)
	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Kind != UnknownBlock {
		t.Fatalf("expected unknown block error, got %v", err)
	}
}

func TestResolveUnknownField(t *testing.T) {
	root := map[string]any{
		".setup": map[string]any{"script": []any{"make"}},
		"job":    map[string]any{"script": New(".setup", "after_script")},
	}

	_, err := Resolve(root)
	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Kind != UnknownField {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestResolveDetectsCycles(t *testing.T) {
	root := map[string]any{
		".a": map[string]any{"script": New(".b", "script")},
		".b": map[string]any{"script": New(".c", "script")},
		".c": map[string]any{"script": New(".a", "script")},
	}

	_, err := Resolve(root)
	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Kind != CircularReference {
		t.Fatalf("expected circular reference error, got %v", err)
	}
	if len(rerr.Chain) != 4 {
		t.Fatalf("expected chain of 4 entries, got %v", rerr.Chain)
	}
}

func TestResolveSameTargetTwiceIsNotACycle(t *testing.T) {
	root := map[string]any{
		".setup": map[string]any{"script": []any{"make deps"}},
		"job": map[string]any{
			"before_script": New(".setup", "script"),
			"script":        New(".setup", "script"),
		},
	}

	if _, err := Resolve(root); err != nil {
		t.Fatalf("repeated references to one target must resolve: %v", err)
	}
}
