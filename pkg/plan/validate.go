package plan

import (
	"fmt"

	"github.com/VibeCAD/roomforge/pkg/geom"
)

// ValidationSeverity indicates whether a validation finding blocks
// synthesis or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks synthesis
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding on a plan.
type ValidationError struct {
	Plan     string             // room name, if any
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Plan == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] room %q: %s", e.Severity, e.Plan, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether the plan can be synthesized.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate checks a plan before synthesis. Only the vertex-count
// invariant is blocking; degenerate edges and openings that reference no
// edge are expected drawing noise and surface as warnings. Validate is
// read-only and never mutates the plan.
func Validate(p *Plan) ValidationResult {
	var res ValidationResult

	if len(p.Polygon) < 3 {
		res.Errors = append(res.Errors, ValidationError{
			Plan:     p.Name,
			Message:  fmt.Sprintf("polygon has %d vertices, need at least 3", len(p.Polygon)),
			Severity: SeverityError,
		})
		return res
	}

	for i := 0; i < p.EdgeCount(); i++ {
		a, b := p.Edge(i)
		if a.Distance(b) < geom.LengthTol {
			res.Warnings = append(res.Warnings, ValidationError{
				Plan:     p.Name,
				Message:  fmt.Sprintf("edge %d is degenerate (length %.4f); it will produce no wall", i, a.Distance(b)),
				Severity: SeverityWarning,
			})
		}
	}

	for i, o := range p.Openings {
		if !openingTouchesAnyEdge(p, o) {
			res.Warnings = append(res.Warnings, ValidationError{
				Plan:     p.Name,
				Message:  fmt.Sprintf("opening %d does not lie on any polygon edge; no wall will be cut", i),
				Severity: SeverityWarning,
			})
		}
	}

	return res
}

// openingTouchesAnyEdge reports whether either opening endpoint lies on
// some polygon edge, or the opening straddles one.
func openingTouchesAnyEdge(p *Plan, o Opening) bool {
	for i := 0; i < p.EdgeCount(); i++ {
		a, b := p.Edge(i)
		if a.Distance(b) < geom.LengthTol {
			continue
		}
		t1 := geom.ParamT(o.Start, a, b)
		t2 := geom.ParamT(o.End, a, b)
		inRange := (t1 >= 0 && t1 <= 1 && geom.OnSegment(o.Start, a, b, geom.LengthTol)) ||
			(t2 >= 0 && t2 <= 1 && geom.OnSegment(o.End, a, b, geom.LengthTol))
		straddles := (t1 < 0 && t2 > 1) || (t2 < 0 && t1 > 1)
		if inRange || straddles {
			return true
		}
	}
	return false
}
