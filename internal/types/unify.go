package types

import "fmt"

// Unify attempts to find a substitution that makes t1 and t2 equal.
// Equality is strict and structural: there is no implicit widening here.
// Widening is the coercion engine's job and must be requested explicitly.
func Unify(t1, t2 Type) (Subst, error) {
	if Equal(t1, t2) {
		return Subst{}, nil
	}

	if v, ok := t1.(Unknown); ok {
		return Bind(v.ID, t2)
	}
	if v, ok := t2.(Unknown); ok {
		return Bind(v.ID, t1)
	}

	switch a := t1.(type) {
	case Reference:
		if b, ok := t2.(Reference); ok && a.Mutable == b.Mutable {
			return Unify(a.Target, b.Target)
		}
	case Pointer:
		if b, ok := t2.(Pointer); ok && a.Mutable == b.Mutable {
			return Unify(a.Target, b.Target)
		}
	case Array:
		if b, ok := t2.(Array); ok && a.Size == b.Size {
			return Unify(a.Elem, b.Elem)
		}
	case Slice:
		if b, ok := t2.(Slice); ok {
			return Unify(a.Elem, b.Elem)
		}
	case Tuple:
		if b, ok := t2.(Tuple); ok && len(a.Elems) == len(b.Elems) {
			return unifyAll(a.Elems, b.Elems)
		}
	case Function:
		if b, ok := t2.(Function); ok && len(a.Params) == len(b.Params) {
			s, err := unifyAll(a.Params, b.Params)
			if err != nil {
				return nil, err
			}
			s2, err := Unify(a.Return.Apply(s), b.Return.Apply(s))
			if err != nil {
				return nil, err
			}
			return s2.Compose(s), nil
		}
	}

	return nil, errUnify(t1, t2)
}

// unifyAll unifies two equal-length type lists element-wise, threading the
// accumulated substitution through the remaining pairs.
func unifyAll(as, bs []Type) (Subst, error) {
	s := Subst{}
	for i := range as {
		si, err := Unify(as[i].Apply(s), bs[i].Apply(s))
		if err != nil {
			return nil, err
		}
		s = si.Compose(s)
	}
	return s, nil
}

// Bind binds a type variable to a type, performing the occurs check.
func Bind(v VarID, t Type) (Subst, error) {
	if u, ok := t.(Unknown); ok && u.ID == v {
		return Subst{}, nil
	}
	if Occurs(v, t) {
		return nil, fmt.Errorf("infinite type: ?%d occurs in %s", int(v), t)
	}
	return Subst{v: t}, nil
}

// Occurs returns true if v appears free in t.
func Occurs(v VarID, t Type) bool {
	for _, fv := range t.FreeVars() {
		if fv == v {
			return true
		}
	}
	return false
}

func errUnify(t1, t2 Type) error {
	return fmt.Errorf("cannot unify %s with %s", t1, t2)
}
