package schema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/ilrskema/schema"
)

func leaf(name, path string) *schema.Element {
	return &schema.Element{Name: name, Path: path, BaseType: schema.TypeString, Cardinality: schema.DefaultCardinality}
}

func TestNewRegistry_IndexesByPathAndName(t *testing.T) {
	home := leaf("Postcode", "Learner/Postcode")
	prior := leaf("Postcode", "Learner/PriorAddress/Postcode")
	root := &schema.Element{
		Name: "Learner",
		Path: "Learner",
		Children: []*schema.Element{
			leaf("ULN", "Learner/ULN"),
			home,
			{Name: "PriorAddress", Path: "Learner/PriorAddress", Children: []*schema.Element{prior}},
		},
	}
	reg, err := schema.NewRegistry("ns", "1.0", root, []*schema.NamedType{{Name: "ULNType", BaseType: schema.TypeLong}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := reg.ElementByPath("Learner/PriorAddress/Postcode"); !ok || got != prior {
		t.Fatalf("path lookup returned %v, %v", got, ok)
	}
	byName := reg.ElementsByName("Postcode")
	if len(byName) != 2 || byName[0] != home || byName[1] != prior {
		t.Fatalf("name lookup returned %v", byName)
	}
	if reg.Len() != 5 {
		t.Fatalf("expected 5 elements, got %d", reg.Len())
	}
	var paths []string
	reg.Walk(func(e *schema.Element) bool {
		paths = append(paths, e.Path)
		return true
	})
	want := []string{"Learner", "Learner/ULN", "Learner/Postcode", "Learner/PriorAddress", "Learner/PriorAddress/Postcode"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := reg.NamedType("ULNType"); !ok {
		t.Fatalf("named type not registered")
	}
	if reg.Namespace() != "ns" || reg.Version() != "1.0" {
		t.Fatalf("unexpected namespace/version %q %q", reg.Namespace(), reg.Version())
	}
}

func TestNewRegistry_RejectsDuplicatePath(t *testing.T) {
	root := &schema.Element{
		Name:     "Learner",
		Path:     "Learner",
		Children: []*schema.Element{leaf("ULN", "Learner/ULN"), leaf("ULN", "Learner/ULN")},
	}
	_, err := schema.NewRegistry("", "", root, nil)
	if !errors.Is(err, schema.ErrDuplicatePath) {
		t.Fatalf("expected ErrDuplicatePath, got %v", err)
	}
}

func TestElementsByName_ReturnsCopy(t *testing.T) {
	root := &schema.Element{Name: "R", Path: "R", Children: []*schema.Element{leaf("A", "R/A")}}
	reg, err := schema.NewRegistry("", "", root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := reg.ElementsByName("A")
	got[0] = nil
	if again := reg.ElementsByName("A"); again[0] == nil {
		t.Fatalf("registry index was mutated through returned slice")
	}
}

func TestOccurs(t *testing.T) {
	if !schema.Unbounded.IsUnbounded() || schema.Unbounded.String() != "unbounded" {
		t.Fatalf("unexpected unbounded value %v", schema.Unbounded)
	}
	if _, ok := schema.Unbounded.Value(); ok {
		t.Fatalf("unbounded must not report a finite value")
	}
	big := schema.OccursOf(1 << 30)
	if big.IsUnbounded() {
		t.Fatalf("large finite count must stay finite")
	}
	if !schema.OccursOf(3).Allows(3) || schema.OccursOf(3).Allows(4) || !schema.Unbounded.Allows(1<<40) {
		t.Fatalf("Allows mismatch")
	}
	if schema.DefaultCardinality.String() != "[1..1]" {
		t.Fatalf("unexpected default cardinality %s", schema.DefaultCardinality)
	}
}

func TestElement_Child(t *testing.T) {
	prior := &schema.Element{Name: "PriorAddress", Path: "Learner/PriorAddress", Children: []*schema.Element{leaf("Postcode", "Learner/PriorAddress/Postcode")}}
	root := &schema.Element{Name: "Learner", Path: "Learner", Children: []*schema.Element{leaf("ULN", "Learner/ULN"), prior}}
	if !root.IsComplex() || prior.Children[0].IsComplex() {
		t.Fatalf("IsComplex mismatch")
	}
	if got, ok := root.Child("PriorAddress"); !ok || got != prior {
		t.Fatalf("Child returned %v, %v", got, ok)
	}
	if _, ok := root.Child("Postcode"); ok {
		t.Fatalf("Child must only look at direct children")
	}
	reg, err := schema.NewRegistry("", "", root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var seen []string
	reg.Walk(func(e *schema.Element) bool {
		seen = append(seen, e.Name)
		return e.Name != "ULN"
	})
	if diff := cmp.Diff([]string{"Learner", "ULN"}, seen); diff != "" {
		t.Fatalf("walk should stop when fn returns false (-want +got):\n%s", diff)
	}
}

func TestBaseType_IsInteger(t *testing.T) {
	for bt, want := range map[schema.BaseType]bool{
		schema.TypeInt: true, schema.TypeInteger: true, schema.TypeLong: true,
		schema.TypeDecimal: false, schema.TypeString: false, schema.TypeBoolean: false,
	} {
		if got := bt.IsInteger(); got != want {
			t.Errorf("%s: IsInteger() = %v, want %v", bt, got, want)
		}
	}
}
