package infer

import (
	"strings"

	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/types"
)

// Solve repeatedly scans all constraints, applying the current substitution
// and attempting unification, until a full pass changes nothing. Termination
// is guaranteed because each successful unification either resolves a
// variable or is a no-op, but the loop is bounded anyway as a safety net
// against malformed constraint sets.
func (ctx *Context) Solve() []*diagnostics.Diagnostic {
	var diags []*diagnostics.Diagnostic

	maxPasses := 2*len(ctx.constraints) + 8
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, c := range ctx.constraints {
			left := c.Left.Apply(ctx.subst)
			right := c.Right.Apply(ctx.subst)
			s, err := types.Unify(left, right)
			if err != nil {
				// Reported by the verification pass below, once the
				// substitution has stabilized.
				continue
			}
			if len(s) > 0 {
				ctx.subst = s.Compose(ctx.subst)
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Verification pass: any constraint that still fails under the final
	// substitution is a type error naming both sides.
	for _, c := range ctx.constraints {
		left := c.Left.Apply(ctx.subst)
		right := c.Right.Apply(ctx.subst)
		if _, err := types.Unify(left, right); err != nil {
			code := diagnostics.ErrT001
			if isInfiniteType(err) {
				code = diagnostics.ErrT006
			}
			diags = append(diags, diagnostics.New(diagnostics.KindType, code, c.Span,
				"%s: %s", c.Reason, err))
		}
	}

	ctx.applyDefaults()
	return diags
}

// applyDefaults resolves literal-origin variables that nothing constrained:
// integer literals settle on i32, float literals on f64.
func (ctx *Context) applyDefaults() {
	for id, def := range ctx.defaults {
		resolved := types.Unknown{ID: id}.Apply(ctx.subst)
		if u, ok := resolved.(types.Unknown); ok {
			ctx.subst = types.Subst{u.ID: def}.Compose(ctx.subst)
			if u.ID != id {
				ctx.subst = types.Subst{id: def}.Compose(ctx.subst)
			}
		}
	}
}

func isInfiniteType(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "infinite type")
}
