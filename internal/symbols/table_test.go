package symbols

import (
	"strings"
	"testing"

	"github.com/cinderlang/cinder/internal/types"
)

func TestScopeShadowingAndRestore(t *testing.T) {
	table := NewTable()
	table.Define(Symbol{Name: "x", Type: types.Primitive{Kind: types.I32}})

	table.PushScope(ScopeBlock)
	table.Define(Symbol{Name: "x", Type: types.Primitive{Kind: types.Bool}})

	sym, ok := table.Lookup("x")
	if !ok || !types.Equal(sym.Type, types.Primitive{Kind: types.Bool}) {
		t.Fatalf("inner binding should shadow, got %+v", sym)
	}

	table.PopScope()
	sym, ok = table.Lookup("x")
	if !ok || !types.Equal(sym.Type, types.Primitive{Kind: types.I32}) {
		t.Fatalf("outer binding should be restored, got %+v", sym)
	}
}

func TestLookupLocalIgnoresOuterFrames(t *testing.T) {
	table := NewTable()
	table.Define(Symbol{Name: "x"})
	table.PushScope(ScopeFunction)
	if _, ok := table.LookupLocal("x"); ok {
		t.Fatal("LookupLocal must not see outer frames")
	}
	if _, ok := table.Lookup("x"); !ok {
		t.Fatal("Lookup must see outer frames")
	}
}

func TestGlobalFrameIsNeverPopped(t *testing.T) {
	table := NewTable()
	table.PopScope()
	table.PopScope()
	if table.Depth() != 1 {
		t.Fatalf("expected the global frame to survive, depth %d", table.Depth())
	}
}

func TestFunctionRedefinition(t *testing.T) {
	table := NewTable()
	sig := FunctionSignature{Name: "f"}
	if err := table.DefineFunction(sig); err != nil {
		t.Fatal(err)
	}
	err := table.DefineFunction(sig)
	if err == nil || !strings.Contains(err.Error(), "already defined") {
		t.Fatalf("expected a redefinition error, got %v", err)
	}
}

func TestFieldTypeErrors(t *testing.T) {
	table := NewTable()
	table.DefineStruct(StructDef{
		Name:   "Point",
		Fields: map[string]types.Type{"x": types.Primitive{Kind: types.I32}},
		Order:  []string{"x"},
	})

	if _, err := table.FieldType("Point", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := table.FieldType("Point", "z"); err == nil || !strings.Contains(err.Error(), "no field z") {
		t.Fatalf("expected a missing-field error, got %v", err)
	}
	if _, err := table.FieldType("Ghost", "x"); err == nil || !strings.Contains(err.Error(), "unknown struct") {
		t.Fatalf("expected an unknown-struct error, got %v", err)
	}
}

func TestVariantPayloadErrors(t *testing.T) {
	table := NewTable()
	table.DefineEnum(EnumDef{
		Name: "Color",
		Variants: map[string][]types.Type{
			"Red": nil,
			"Rgb": {types.Primitive{Kind: types.U8}, types.Primitive{Kind: types.U8}, types.Primitive{Kind: types.U8}},
		},
	})

	payload, err := table.VariantPayload("Color", "Rgb")
	if err != nil || len(payload) != 3 {
		t.Fatalf("expected a three-field payload, got %v err=%v", payload, err)
	}
	if _, err := table.VariantPayload("Color", "Blue"); err == nil || !strings.Contains(err.Error(), "no variant Blue") {
		t.Fatalf("expected a missing-variant error, got %v", err)
	}
}

func TestAliasResolution(t *testing.T) {
	table := NewTable()
	if err := table.DefineAlias("Byte", types.Primitive{Kind: types.U8}); err != nil {
		t.Fatal(err)
	}
	ty, ok := table.ResolveAlias("Byte")
	if !ok || !types.Equal(ty, types.Primitive{Kind: types.U8}) {
		t.Fatalf("alias should resolve to u8, got %v", ty)
	}
	if _, ok := table.ResolveAlias("Word"); ok {
		t.Fatal("unknown alias must not resolve")
	}
}
