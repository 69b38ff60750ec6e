package types

import (
	"fmt"

	"github.com/cinderlang/cinder/internal/source"
)

// Cost ranks coercions for overload and common-type resolution.
// Lower is better.
type Cost int

const (
	CostFree Cost = iota
	CostLow
	CostMedium
	CostHigh
)

func (c Cost) String() string {
	switch c {
	case CostFree:
		return "free"
	case CostLow:
		return "low"
	case CostMedium:
		return "medium"
	case CostHigh:
		return "high"
	}
	return "unknown"
}

// CoercionKind identifies which rule produced a coercion.
type CoercionKind int

const (
	CoerceIdentity CoercionKind = iota
	CoerceNever
	CoerceSubtype
	CoerceNumericWidening
	CoerceReferenceToPointer
	CoerceArrayToSlice
	CoerceFunctionItem
)

// CoercionResult describes a single admissible coercion. It is a pure return
// value and is never stored on the AST.
type CoercionResult struct {
	Kind   CoercionKind
	Target Type
	Safe   bool
	Cost   Cost
}

// IsBetterThan orders coercion candidates by ascending cost, breaking ties in
// favor of the safe candidate. Overload and branch-unification resolution
// must use this ordering.
func (r CoercionResult) IsBetterThan(other CoercionResult) bool {
	if r.Cost != other.Cost {
		return r.Cost < other.Cost
	}
	return r.Safe && !other.Safe
}

// signed and unsigned widening ladders. isize/usize sit at the 64-bit rung
// for common-type purposes but keep their own identity.
var signedLadder = []PrimitiveKind{I8, I16, I32, I64, I128}
var unsignedLadder = []PrimitiveKind{U8, U16, U32, U64, U128}

func ladderIndex(ladder []PrimitiveKind, k PrimitiveKind) int {
	for i, l := range ladder {
		if l == k {
			return i
		}
	}
	return -1
}

// intWidth returns the bit width of an integer kind, with pointer-sized
// kinds reported as 64.
func intWidth(k PrimitiveKind) int {
	switch k {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64, ISize, USize:
		return 64
	case I128, U128:
		return 128
	}
	return 0
}

// CanCoerce reports whether from can be implicitly converted to to.
func CanCoerce(from, to Type) bool {
	_, err := TryCoerce(from, to, source.Span{})
	return err == nil
}

// TryCoerce applies the coercion rules in precedence order and returns the
// first applicable result. No rule applying is a hard error naming both
// sides.
func TryCoerce(from, to Type, span source.Span) (CoercionResult, error) {
	// Rule 1: identity.
	if Equal(from, to) {
		return CoercionResult{Kind: CoerceIdentity, Target: to, Safe: true, Cost: CostFree}, nil
	}

	// Rule 2: Never coerces to anything.
	if _, ok := from.(Never); ok {
		return CoercionResult{Kind: CoerceNever, Target: to, Safe: true, Cost: CostFree}, nil
	}

	// Rule 3: subtyping, currently only &mut T -> &T.
	if fr, ok := from.(Reference); ok && fr.Mutable {
		if tr, ok := to.(Reference); ok && !tr.Mutable && Equal(fr.Target, tr.Target) {
			return CoercionResult{Kind: CoerceSubtype, Target: to, Safe: true, Cost: CostFree}, nil
		}
	}

	// Rule 4: numeric widening.
	if fp, ok := from.(Primitive); ok {
		if tp, ok := to.(Primitive); ok {
			if res, ok := numericCoercion(fp.Kind, tp.Kind, to); ok {
				return res, nil
			}
		}
	}

	// Rule 5: reference to raw pointer, always unsafe.
	if _, ok := from.(Reference); ok {
		if _, ok := to.(Pointer); ok {
			return CoercionResult{Kind: CoerceReferenceToPointer, Target: to, Safe: false, Cost: CostHigh}, nil
		}
	}

	// Rule 6: array to slice when element types match.
	if fa, ok := from.(Array); ok {
		if ts, ok := to.(Slice); ok && Equal(fa.Elem, ts.Elem) {
			return CoercionResult{Kind: CoerceArrayToSlice, Target: to, Safe: true, Cost: CostFree}, nil
		}
	}

	// Rule 7: function items with identical shapes.
	if ff, ok := from.(Function); ok {
		if tf, ok := to.(Function); ok && Equal(ff, tf) {
			return CoercionResult{Kind: CoerceFunctionItem, Target: to, Safe: true, Cost: CostFree}, nil
		}
	}

	return CoercionResult{}, fmt.Errorf("no coercion from %s to %s", from, to)
}

// numericCoercion implements the asymmetric widening rules: only widening is
// implicit, never narrowing and never float-to-integer.
func numericCoercion(from, to PrimitiveKind, target Type) (CoercionResult, bool) {
	widen := func(safe bool, cost Cost) (CoercionResult, bool) {
		return CoercionResult{Kind: CoerceNumericWidening, Target: target, Safe: safe, Cost: cost}, true
	}

	// Integer widening within the same signedness.
	if fi, ti := ladderIndex(signedLadder, from), ladderIndex(signedLadder, to); fi >= 0 && ti >= 0 && fi < ti {
		return widen(true, CostLow)
	}
	if fi, ti := ladderIndex(unsignedLadder, from), ladderIndex(unsignedLadder, to); fi >= 0 && ti >= 0 && fi < ti {
		return widen(true, CostLow)
	}

	// Float widening.
	if from == F32 && to == F64 {
		return widen(true, CostLow)
	}

	// Integer to float: small integers fit exactly, wider ones are lossy.
	if from.IsInteger() && to.IsFloat() {
		switch intWidth(from) {
		case 8, 16:
			return widen(true, CostLow)
		case 32, 64:
			return widen(false, CostMedium)
		}
		return CoercionResult{}, false
	}

	// Pointer-sized integers to their fixed-width equivalents.
	if from == ISize && to == I64 {
		return widen(true, CostFree)
	}
	if from == USize && to == U64 {
		return widen(true, CostFree)
	}

	return CoercionResult{}, false
}

// FindCommonType returns the least type every element of ts can coerce to.
func FindCommonType(ts []Type, span source.Span) (Type, error) {
	if len(ts) == 0 {
		return Primitive{Kind: Unit}, nil
	}
	common := ts[0]
	for _, t := range ts[1:] {
		next, err := commonPair(common, t, span)
		if err != nil {
			return nil, err
		}
		common = next
	}
	return common, nil
}

func commonPair(a, b Type, span source.Span) (Type, error) {
	if Equal(a, b) {
		return a, nil
	}
	if CanCoerce(a, b) {
		return b, nil
	}
	if CanCoerce(b, a) {
		return a, nil
	}

	ap, aok := a.(Primitive)
	bp, bok := b.(Primitive)
	if aok && bok {
		if k, ok := commonPrimitive(ap.Kind, bp.Kind); ok {
			return Primitive{Kind: k}, nil
		}
	}

	return nil, fmt.Errorf("no common type for %s and %s", a, b)
}

// commonPrimitive consults the widening hierarchy: same-ladder pairs take the
// larger rung; mixed signedness picks the next-wider signed type that can
// hold the unsigned operand, when one exists.
func commonPrimitive(a, b PrimitiveKind) (PrimitiveKind, bool) {
	// Normalize pointer-sized kinds onto the fixed-width ladders.
	norm := func(k PrimitiveKind) PrimitiveKind {
		switch k {
		case ISize:
			return I64
		case USize:
			return U64
		}
		return k
	}
	a, b = norm(a), norm(b)

	if ai, bi := ladderIndex(signedLadder, a), ladderIndex(signedLadder, b); ai >= 0 && bi >= 0 {
		if ai > bi {
			return a, true
		}
		return b, true
	}
	if ai, bi := ladderIndex(unsignedLadder, a), ladderIndex(unsignedLadder, b); ai >= 0 && bi >= 0 {
		if ai > bi {
			return a, true
		}
		return b, true
	}
	if a.IsFloat() && b.IsFloat() {
		if a == F64 || b == F64 {
			return F64, true
		}
		return F32, true
	}

	// Mixed signedness: the next-wider signed type holding the unsigned one.
	if a.IsSignedInt() && b.IsUnsignedInt() {
		return signedHolding(a, b)
	}
	if a.IsUnsignedInt() && b.IsSignedInt() {
		return signedHolding(b, a)
	}

	return 0, false
}

func signedHolding(signed, unsigned PrimitiveKind) (PrimitiveKind, bool) {
	// The next-wider signed rung: u8 needs i16, u16 needs i32, and so on.
	// u128 has no signed type that can hold it.
	ui := ladderIndex(unsignedLadder, unsigned)
	if ui < 0 || ui+1 >= len(signedLadder) {
		return 0, false
	}
	holder := signedLadder[ui+1]
	si := ladderIndex(signedLadder, signed)
	if si > ui+1 {
		holder = signedLadder[si]
	}
	return holder, true
}
