package symbols

import (
	"fmt"

	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/source"
	"github.com/cinderlang/cinder/internal/types"
)

// SymbolKind distinguishes what a name binds to.
type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	ConstSymbol
	StaticSymbol
)

// Symbol is a named binding in some scope.
type Symbol struct {
	Name    string
	Type    types.Type
	Kind    SymbolKind
	Mutable bool
	Span    source.Span
}

// ScopeKind labels scope frames for debugging and scope-sensitive rules.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

// Scope is one frame of the lexical scope stack.
type Scope struct {
	Kind  ScopeKind
	names map[string]Symbol
}

// FunctionSignature is collected in the first pass over top-level items and
// read-only afterward during body checking.
type FunctionSignature struct {
	Name     string
	Params   []types.Type
	Return   types.Type
	Safety   ast.SafetyLevel
	Realtime bool
	Span     source.Span
}

// StructDef is the field layout of a declared struct.
type StructDef struct {
	Name   string
	Fields map[string]types.Type
	Order  []string
	Span   source.Span
}

// EnumDef is the variant layout of a declared enum.
type EnumDef struct {
	Name     string
	Variants map[string][]types.Type
	Span     source.Span
}

// Table holds all symbol information for one compilation unit. Lexical
// scopes are an explicit stack of frames, walked from the top down on
// lookup; there are no parent-pointer chains to clone.
type Table struct {
	scopes    []Scope
	functions map[string]FunctionSignature
	structs   map[string]StructDef
	enums     map[string]EnumDef
	aliases   map[string]types.Type
}

// NewTable builds a table with a single global scope.
func NewTable() *Table {
	return &Table{
		scopes:    []Scope{{Kind: ScopeGlobal, names: make(map[string]Symbol)}},
		functions: make(map[string]FunctionSignature),
		structs:   make(map[string]StructDef),
		enums:     make(map[string]EnumDef),
		aliases:   make(map[string]types.Type),
	}
}

// PushScope enters a nested scope frame.
func (t *Table) PushScope(kind ScopeKind) {
	t.scopes = append(t.scopes, Scope{Kind: kind, names: make(map[string]Symbol)})
}

// PopScope leaves the innermost scope frame. The global frame is never
// popped.
func (t *Table) PopScope() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Depth returns the current number of scope frames.
func (t *Table) Depth() int { return len(t.scopes) }

// Define binds a symbol in the innermost scope, shadowing outer bindings.
func (t *Table) Define(sym Symbol) {
	t.scopes[len(t.scopes)-1].names[sym.Name] = sym
}

// Lookup resolves a name against the scope stack, innermost first.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].names[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupLocal resolves a name in the innermost frame only.
func (t *Table) LookupLocal(name string) (Symbol, bool) {
	sym, ok := t.scopes[len(t.scopes)-1].names[name]
	return sym, ok
}

// DefineFunction registers a signature during the collection pass.
// Redefinition is an error to keep the second pass read-only.
func (t *Table) DefineFunction(sig FunctionSignature) error {
	if _, exists := t.functions[sig.Name]; exists {
		return fmt.Errorf("function %s is already defined", sig.Name)
	}
	t.functions[sig.Name] = sig
	return nil
}

// LookupFunction resolves a collected signature.
func (t *Table) LookupFunction(name string) (FunctionSignature, bool) {
	sig, ok := t.functions[name]
	return sig, ok
}

// DefineStruct registers a struct layout.
func (t *Table) DefineStruct(def StructDef) error {
	if _, exists := t.structs[def.Name]; exists {
		return fmt.Errorf("struct %s is already defined", def.Name)
	}
	t.structs[def.Name] = def
	return nil
}

// LookupStruct resolves a struct layout.
func (t *Table) LookupStruct(name string) (StructDef, bool) {
	def, ok := t.structs[name]
	return def, ok
}

// FieldType resolves a struct field, returning a typed error naming the
// missing field rather than panicking.
func (t *Table) FieldType(structName, field string) (types.Type, error) {
	def, ok := t.structs[structName]
	if !ok {
		return nil, fmt.Errorf("unknown struct %s", structName)
	}
	ft, ok := def.Fields[field]
	if !ok {
		return nil, fmt.Errorf("struct %s has no field %s", structName, field)
	}
	return ft, nil
}

// DefineEnum registers an enum layout.
func (t *Table) DefineEnum(def EnumDef) error {
	if _, exists := t.enums[def.Name]; exists {
		return fmt.Errorf("enum %s is already defined", def.Name)
	}
	t.enums[def.Name] = def
	return nil
}

// LookupEnum resolves an enum layout.
func (t *Table) LookupEnum(name string) (EnumDef, bool) {
	def, ok := t.enums[name]
	return def, ok
}

// VariantPayload resolves an enum variant, returning a typed error naming
// the missing variant.
func (t *Table) VariantPayload(enumName, variant string) ([]types.Type, error) {
	def, ok := t.enums[enumName]
	if !ok {
		return nil, fmt.Errorf("unknown enum %s", enumName)
	}
	payload, ok := def.Variants[variant]
	if !ok {
		return nil, fmt.Errorf("enum %s has no variant %s", enumName, variant)
	}
	return payload, nil
}

// DefineAlias registers a type alias.
func (t *Table) DefineAlias(name string, ty types.Type) error {
	if _, exists := t.aliases[name]; exists {
		return fmt.Errorf("type alias %s is already defined", name)
	}
	t.aliases[name] = ty
	return nil
}

// ResolveAlias expands a type alias, returning the input name's target or
// false when the name is not an alias.
func (t *Table) ResolveAlias(name string) (types.Type, bool) {
	ty, ok := t.aliases[name]
	return ty, ok
}

// Functions returns all collected signatures, for iteration by analyses.
func (t *Table) Functions() map[string]FunctionSignature { return t.functions }
