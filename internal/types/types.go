package types

import (
	"fmt"
	"strings"
)

// VarID identifies a type variable. IDs are allocated monotonically by the
// inference context and never reused; a VarID is purely a key into a Subst.
type VarID int

// Type is the interface for all types in the system. The set of implementers
// is closed: Primitive, Reference, Pointer, Array, Slice, Tuple, Function,
// Struct, Enum, Generic, Unknown and Never. Dispatch is by type switch.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeVars() []VarID
}

// PrimitiveKind enumerates the built-in scalar types.
type PrimitiveKind int

const (
	Bool PrimitiveKind = iota
	I8
	I16
	I32
	I64
	I128
	ISize
	U8
	U16
	U32
	U64
	U128
	USize
	F32
	F64
	Char
	Str
	Unit
)

var primitiveNames = map[PrimitiveKind]string{
	Bool: "bool", I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128",
	ISize: "isize", U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128",
	USize: "usize", F32: "f32", F64: "f64", Char: "char", Str: "str", Unit: "()",
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return fmt.Sprintf("primitive(%d)", int(k))
}

// IsSignedInt reports whether k is a signed integer kind (including isize).
func (k PrimitiveKind) IsSignedInt() bool {
	switch k {
	case I8, I16, I32, I64, I128, ISize:
		return true
	}
	return false
}

// IsUnsignedInt reports whether k is an unsigned integer kind (including usize).
func (k PrimitiveKind) IsUnsignedInt() bool {
	switch k {
	case U8, U16, U32, U64, U128, USize:
		return true
	}
	return false
}

func (k PrimitiveKind) IsInteger() bool { return k.IsSignedInt() || k.IsUnsignedInt() }

func (k PrimitiveKind) IsFloat() bool { return k == F32 || k == F64 }

func (k PrimitiveKind) IsNumeric() bool { return k.IsInteger() || k.IsFloat() }

// Primitive is a built-in scalar type.
type Primitive struct {
	Kind PrimitiveKind
}

func (t Primitive) String() string    { return t.Kind.String() }
func (t Primitive) Apply(Subst) Type  { return t }
func (t Primitive) FreeVars() []VarID { return nil }

// Reference is a borrowed reference &T or &mut T.
type Reference struct {
	Target  Type
	Mutable bool
}

func (t Reference) String() string {
	if t.Mutable {
		return "&mut " + t.Target.String()
	}
	return "&" + t.Target.String()
}

func (t Reference) Apply(s Subst) Type {
	return Reference{Target: t.Target.Apply(s), Mutable: t.Mutable}
}

func (t Reference) FreeVars() []VarID { return t.Target.FreeVars() }

// Pointer is a raw pointer *const T or *mut T.
type Pointer struct {
	Target  Type
	Mutable bool
}

func (t Pointer) String() string {
	if t.Mutable {
		return "*mut " + t.Target.String()
	}
	return "*const " + t.Target.String()
}

func (t Pointer) Apply(s Subst) Type {
	return Pointer{Target: t.Target.Apply(s), Mutable: t.Mutable}
}

func (t Pointer) FreeVars() []VarID { return t.Target.FreeVars() }

// Array is a fixed-size array [T; N].
type Array struct {
	Elem Type
	Size int
}

func (t Array) String() string { return fmt.Sprintf("[%s; %d]", t.Elem, t.Size) }

func (t Array) Apply(s Subst) Type {
	return Array{Elem: t.Elem.Apply(s), Size: t.Size}
}

func (t Array) FreeVars() []VarID { return t.Elem.FreeVars() }

// Slice is a dynamically-sized view [T].
type Slice struct {
	Elem Type
}

func (t Slice) String() string    { return fmt.Sprintf("[%s]", t.Elem) }
func (t Slice) Apply(s Subst) Type { return Slice{Elem: t.Elem.Apply(s)} }
func (t Slice) FreeVars() []VarID { return t.Elem.FreeVars() }

// Tuple is a fixed-arity product type (T1, T2, ...).
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t Tuple) Apply(s Subst) Type {
	elems := make([]Type, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.Apply(s)
	}
	return Tuple{Elems: elems}
}

func (t Tuple) FreeVars() []VarID {
	var vars []VarID
	for _, e := range t.Elems {
		vars = append(vars, e.FreeVars()...)
	}
	return vars
}

// Function is a function type fn(P1, P2) -> R.
type Function struct {
	Params []Type
	Return Type
}

func (t Function) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Return)
}

func (t Function) Apply(s Subst) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Apply(s)
	}
	return Function{Params: params, Return: t.Return.Apply(s)}
}

func (t Function) FreeVars() []VarID {
	var vars []VarID
	for _, p := range t.Params {
		vars = append(vars, p.FreeVars()...)
	}
	return append(vars, t.Return.FreeVars()...)
}

// Struct is a nominal struct type; field layout lives in the symbol table.
type Struct struct {
	Name string
}

func (t Struct) String() string    { return t.Name }
func (t Struct) Apply(Subst) Type  { return t }
func (t Struct) FreeVars() []VarID { return nil }

// Enum is a nominal enum type; variants live in the symbol table.
type Enum struct {
	Name string
}

func (t Enum) String() string    { return t.Name }
func (t Enum) Apply(Subst) Type  { return t }
func (t Enum) FreeVars() []VarID { return nil }

// Generic is a named, rigid type parameter from a declaration site.
// It never unifies with anything but itself.
type Generic struct {
	Name string
}

func (t Generic) String() string    { return t.Name }
func (t Generic) Apply(Subst) Type  { return t }
func (t Generic) FreeVars() []VarID { return nil }

// Unknown is an unresolved inference variable. A successfully solved program
// contains no Unknown types.
type Unknown struct {
	ID VarID
}

func (t Unknown) String() string { return fmt.Sprintf("?%d", int(t.ID)) }

func (t Unknown) Apply(s Subst) Type {
	if r, ok := s[t.ID]; ok {
		// A bound variable may resolve to a type that itself mentions
		// other bound variables; chase them through the same map.
		return r.Apply(s)
	}
	return t
}

func (t Unknown) FreeVars() []VarID { return []VarID{t.ID} }

// Never is the bottom type of diverging expressions; it coerces to anything.
type Never struct{}

func (t Never) String() string    { return "!" }
func (t Never) Apply(Subst) Type  { return t }
func (t Never) FreeVars() []VarID { return nil }

// Subst maps inference variables to types.
type Subst map[VarID]Type

// Compose combines two substitutions: applying the result is equivalent to
// applying s2 first and then s1.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Subst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}

// Equal reports structural equality of two types. Unknown variables compare
// by identity; no substitution is consulted.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case Primitive:
		bt, ok := b.(Primitive)
		return ok && at.Kind == bt.Kind
	case Reference:
		bt, ok := b.(Reference)
		return ok && at.Mutable == bt.Mutable && Equal(at.Target, bt.Target)
	case Pointer:
		bt, ok := b.(Pointer)
		return ok && at.Mutable == bt.Mutable && Equal(at.Target, bt.Target)
	case Array:
		bt, ok := b.(Array)
		return ok && at.Size == bt.Size && Equal(at.Elem, bt.Elem)
	case Slice:
		bt, ok := b.(Slice)
		return ok && Equal(at.Elem, bt.Elem)
	case Tuple:
		bt, ok := b.(Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return false
		}
		for i := range at.Elems {
			if !Equal(at.Elems[i], bt.Elems[i]) {
				return false
			}
		}
		return true
	case Function:
		bt, ok := b.(Function)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Equal(at.Return, bt.Return)
	case Struct:
		bt, ok := b.(Struct)
		return ok && at.Name == bt.Name
	case Enum:
		bt, ok := b.(Enum)
		return ok && at.Name == bt.Name
	case Generic:
		bt, ok := b.(Generic)
		return ok && at.Name == bt.Name
	case Unknown:
		bt, ok := b.(Unknown)
		return ok && at.ID == bt.ID
	case Never:
		_, ok := b.(Never)
		return ok
	}
	return false
}

// ContainsUnknown reports whether t mentions any unresolved variable.
func ContainsUnknown(t Type) bool {
	return len(t.FreeVars()) > 0
}
