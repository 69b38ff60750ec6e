package types

import (
	"testing"

	"github.com/cinderlang/cinder/internal/source"
)

func prim(k PrimitiveKind) Type { return Primitive{Kind: k} }

func TestSignedLadderIsStrict(t *testing.T) {
	ladder := []PrimitiveKind{I8, I16, I32, I64, I128}
	for i := 0; i < len(ladder)-1; i++ {
		from, to := prim(ladder[i]), prim(ladder[i+1])
		if !CanCoerce(from, to) {
			t.Errorf("expected %s -> %s to coerce", from, to)
		}
		if CanCoerce(to, from) {
			t.Errorf("narrowing %s -> %s must not coerce", to, from)
		}
	}
}

func TestUnsignedLadderIsStrict(t *testing.T) {
	ladder := []PrimitiveKind{U8, U16, U32, U64, U128}
	for i := 0; i < len(ladder)-1; i++ {
		from, to := prim(ladder[i]), prim(ladder[i+1])
		if !CanCoerce(from, to) {
			t.Errorf("expected %s -> %s to coerce", from, to)
		}
		if CanCoerce(to, from) {
			t.Errorf("narrowing %s -> %s must not coerce", to, from)
		}
	}
}

func TestNoCrossSignednessCoercion(t *testing.T) {
	if CanCoerce(prim(U8), prim(I16)) {
		t.Error("u8 -> i16 must not coerce implicitly")
	}
	if CanCoerce(prim(I8), prim(U16)) {
		t.Error("i8 -> u16 must not coerce implicitly")
	}
}

func TestFloatRules(t *testing.T) {
	res, err := TryCoerce(prim(F32), prim(F64), source.Span{})
	if err != nil || !res.Safe || res.Cost != CostLow {
		t.Fatalf("f32 -> f64 should be low/safe, got %+v err=%v", res, err)
	}
	if CanCoerce(prim(F64), prim(F32)) {
		t.Error("f64 -> f32 must not coerce")
	}
	if CanCoerce(prim(F64), prim(I64)) {
		t.Error("float -> integer must never coerce")
	}
}

func TestIntegerToFloat(t *testing.T) {
	res, err := TryCoerce(prim(I16), prim(F32), source.Span{})
	if err != nil || !res.Safe || res.Cost != CostLow {
		t.Fatalf("i16 -> f32 should be low/safe, got %+v err=%v", res, err)
	}
	res, err = TryCoerce(prim(I64), prim(F64), source.Span{})
	if err != nil {
		t.Fatalf("i64 -> f64 should coerce: %v", err)
	}
	if res.Safe || res.Cost != CostMedium {
		t.Fatalf("i64 -> f64 must be medium and flagged lossy, got %+v", res)
	}
}

func TestPointerSizedToFixed(t *testing.T) {
	res, err := TryCoerce(prim(ISize), prim(I64), source.Span{})
	if err != nil || !res.Safe || res.Cost != CostFree {
		t.Fatalf("isize -> i64 should be free/safe, got %+v err=%v", res, err)
	}
	res, err = TryCoerce(prim(USize), prim(U64), source.Span{})
	if err != nil || !res.Safe || res.Cost != CostFree {
		t.Fatalf("usize -> u64 should be free/safe, got %+v err=%v", res, err)
	}
}

func TestNeverCoercesToAnything(t *testing.T) {
	for _, target := range []Type{prim(I32), prim(Str), Struct{Name: "P"}, Slice{Elem: prim(U8)}} {
		res, err := TryCoerce(Never{}, target, source.Span{})
		if err != nil {
			t.Fatalf("! -> %s should coerce: %v", target, err)
		}
		if res.Kind != CoerceNever || !res.Safe || res.Cost != CostFree {
			t.Fatalf("! -> %s should be free/safe, got %+v", target, res)
		}
	}
}

func TestMutableReferenceSubtyping(t *testing.T) {
	from := Reference{Target: prim(I32), Mutable: true}
	to := Reference{Target: prim(I32), Mutable: false}
	res, err := TryCoerce(from, to, source.Span{})
	if err != nil || res.Kind != CoerceSubtype || !res.Safe || res.Cost != CostFree {
		t.Fatalf("&mut i32 -> &i32 should be a free subtype coercion, got %+v err=%v", res, err)
	}
	if CanCoerce(to, from) {
		t.Error("&i32 -> &mut i32 must not coerce")
	}
}

func TestReferenceToRawPointerIsUnsafe(t *testing.T) {
	combos := []struct{ fromMut, toMut bool }{
		{false, false}, {false, true}, {true, false}, {true, true},
	}
	for _, combo := range combos {
		from := Reference{Target: prim(I32), Mutable: combo.fromMut}
		to := Pointer{Target: prim(I32), Mutable: combo.toMut}
		res, err := TryCoerce(from, to, source.Span{})
		if err != nil {
			t.Fatalf("%s -> %s should coerce: %v", from, to, err)
		}
		if res.Safe || res.Cost != CostHigh {
			t.Fatalf("%s -> %s must be high/unsafe, got %+v", from, to, res)
		}
	}
}

func TestArrayToSlice(t *testing.T) {
	res, err := TryCoerce(Array{Elem: prim(U8), Size: 16}, Slice{Elem: prim(U8)}, source.Span{})
	if err != nil || !res.Safe || res.Cost != CostFree {
		t.Fatalf("[u8; 16] -> [u8] should be free/safe, got %+v err=%v", res, err)
	}
	if CanCoerce(Array{Elem: prim(U8), Size: 16}, Slice{Elem: prim(I8)}) {
		t.Error("array to slice must require matching element types")
	}
}

func TestNoRuleIsHardError(t *testing.T) {
	_, err := TryCoerce(prim(Bool), prim(Str), source.Span{})
	if err == nil {
		t.Fatal("bool -> str must be a hard error")
	}
}

func TestFindCommonType(t *testing.T) {
	cases := []struct {
		name string
		in   []Type
		want Type
	}{
		{"i32 i64", []Type{prim(I32), prim(I64)}, prim(I64)},
		{"f32 f64", []Type{prim(F32), prim(F64)}, prim(F64)},
		{"i32 f64", []Type{prim(I32), prim(F64)}, prim(F64)},
		{"u8 i8", []Type{prim(U8), prim(I8)}, prim(I16)},
		{"u16 i64", []Type{prim(U16), prim(I64)}, prim(I64)},
		{"identical", []Type{prim(Str), prim(Str)}, prim(Str)},
		{"never", []Type{Never{}, prim(I32)}, prim(I32)},
	}
	for _, tc := range cases {
		got, err := FindCommonType(tc.in, source.Span{})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if !Equal(got, tc.want) {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestFindCommonTypeFails(t *testing.T) {
	if _, err := FindCommonType([]Type{prim(Bool), prim(Str)}, source.Span{}); err == nil {
		t.Fatal("bool and str must have no common type")
	}
}

func TestIsBetterThanOrdering(t *testing.T) {
	free := CoercionResult{Cost: CostFree, Safe: true}
	lowSafe := CoercionResult{Cost: CostLow, Safe: true}
	lowUnsafe := CoercionResult{Cost: CostLow, Safe: false}
	high := CoercionResult{Cost: CostHigh, Safe: false}

	if !free.IsBetterThan(lowSafe) {
		t.Error("free must beat low")
	}
	if !lowSafe.IsBetterThan(lowUnsafe) {
		t.Error("ties break in favor of the safe candidate")
	}
	if !lowUnsafe.IsBetterThan(high) {
		t.Error("low must beat high regardless of safety")
	}
	if high.IsBetterThan(free) {
		t.Error("high must never beat free")
	}
}
