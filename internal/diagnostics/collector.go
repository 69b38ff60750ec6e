package diagnostics

// Collector accumulates diagnostics across phases, honoring the caller's
// max-errors cap. Diagnostics are never deduplicated: each occurrence is
// independently useful.
type Collector struct {
	maxErrors int
	strict    bool
	diags     []*Diagnostic
	truncated bool
}

// NewCollector builds a collector. maxErrors <= 0 means unbounded.
func NewCollector(maxErrors int, strict bool) *Collector {
	return &Collector{maxErrors: maxErrors, strict: strict}
}

// Add records a diagnostic. Once the cap is hit further diagnostics are
// dropped and LimitReached reports true; Add returns whether d was kept.
func (c *Collector) Add(d *Diagnostic) bool {
	if c.maxErrors > 0 && len(c.diags) >= c.maxErrors {
		c.truncated = true
		return false
	}
	c.diags = append(c.diags, d)
	return true
}

// AddAll records a batch in order, subject to the same cap.
func (c *Collector) AddAll(ds []*Diagnostic) {
	for _, d := range ds {
		c.Add(d)
	}
}

// Diagnostics returns everything collected so far, in arrival order.
func (c *Collector) Diagnostics() []*Diagnostic { return c.diags }

// LimitReached reports whether any diagnostic was dropped by the cap.
// Callers should surface this so users know the report is incomplete.
func (c *Collector) LimitReached() bool { return c.truncated }

// Strict reports whether the collector runs in strict mode. In strict mode
// warnings count as errors and the pipeline stops at the first phase
// boundary with any diagnostic recorded.
func (c *Collector) Strict() bool { return c.strict }

// HasErrors reports whether a recorded diagnostic should halt a strict
// pipeline: any error-or-worse severity, or any diagnostic at all in strict
// mode.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity >= SeverityError {
			return true
		}
		if c.strict && d.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
