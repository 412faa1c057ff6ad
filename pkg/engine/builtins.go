package engine

import (
	"fmt"
	"strings"

	"github.com/VibeCAD/roomforge/pkg/geom"
	"github.com/VibeCAD/roomforge/pkg/plan"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms room-script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: bounds-width -> bounds_width
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a 2D plan coordinate so it can be returned from `point`
// and consumed by `room`, `opening` and `partition`.
type sexpPoint struct {
	p geom.Vec2
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpOpening wraps a wall opening span.
type sexpOpening struct {
	o plan.Opening
}

func (o *sexpOpening) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(opening (point %g %g) (point %g %g))",
		o.o.Start.X, o.o.Start.Y, o.o.End.X, o.o.End.Y)
}
func (o *sexpOpening) Type() *zygo.RegisteredType { return nil }

// sexpPartition wraps an interior wall segment.
type sexpPartition struct {
	s plan.Segment
}

func (s *sexpPartition) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(partition (point %g %g) (point %g %g))",
		s.s.Start.X, s.s.Start.Y, s.s.End.X, s.s.End.Y)
}
func (s *sexpPartition) Type() *zygo.RegisteredType { return nil }

// sexpGrid wraps a drawing grid specification.
type sexpGrid struct {
	g plan.GridSpec
}

func (g *sexpGrid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(grid :size %g :bounds-width %g :bounds-height %g)",
		g.g.GridSize, g.g.BoundsWidth, g.g.BoundsHeight)
}
func (g *sexpGrid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a plan coordinate from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.Vec2, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Vec2{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// planCollector accumulates the plans a script declares, in order.
type planCollector struct {
	plans []plan.Plan
}

// registerBuiltins installs the room-script builtins into a zygomys
// environment. The builtins append to the provided collector during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, col *planCollector) {

	// -----------------------------------------------------------------------
	// (point 4 3)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("point requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: y: %w", err)
		}
		return &sexpPoint{p: geom.Vec2{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (opening (point 1.6 0) (point 2.4 0))
	// -----------------------------------------------------------------------
	env.AddFunction("opening", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("opening requires a start and an end point, got %d arguments", len(args))
		}
		start, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("opening: start: %w", err)
		}
		end, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("opening: end: %w", err)
		}
		return &sexpOpening{o: plan.Opening{Start: start, End: end}}, nil
	})

	// -----------------------------------------------------------------------
	// (partition (point 2 0) (point 2 3))
	// -----------------------------------------------------------------------
	env.AddFunction("partition", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("partition requires a start and an end point, got %d arguments", len(args))
		}
		start, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("partition: start: %w", err)
		}
		end, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("partition: end: %w", err)
		}
		return &sexpPartition{s: plan.Segment{Start: start, End: end}}, nil
	})

	// -----------------------------------------------------------------------
	// (grid :size 20 :bounds-width 400 :bounds-height 400)
	// -----------------------------------------------------------------------
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := plan.GridSpec{
			GridSize:     plan.DefaultGridSize,
			BoundsWidth:  plan.DefaultBoundsWidth,
			BoundsHeight: plan.DefaultBoundsHeight,
		}

		if v, ok := pa.kw["size"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: size: %w", err)
			}
			spec.GridSize = f
		}
		if v, ok := pa.kw["bounds-width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: bounds-width: %w", err)
			}
			spec.BoundsWidth = f
		}
		if v, ok := pa.kw["bounds-height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: bounds-height: %w", err)
			}
			spec.BoundsHeight = f
		}

		return &sexpGrid{g: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (room :name "kitchen"
	//       :polygon (list (point 0 0) (point 4 0) (point 4 3) (point 0 3))
	//       :openings (list (opening ...))
	//       :partitions (list (partition ...))
	//       :grid (grid :size 20))
	// -----------------------------------------------------------------------
	env.AddFunction("room", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := plan.Plan{}

		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: name: %w", err)
			}
			p.Name = s
		}
		if v, ok := pa.kw["polygon"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: polygon: %w", err)
			}
			for _, item := range items {
				pt, err := toPoint(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("room: polygon entry: %w", err)
				}
				p.Polygon = append(p.Polygon, pt)
			}
		}
		if v, ok := pa.kw["openings"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: openings: %w", err)
			}
			for _, item := range items {
				o, ok := item.(*sexpOpening)
				if !ok {
					return zygo.SexpNull, fmt.Errorf("room: openings entry: expected opening, got %T", item)
				}
				p.Openings = append(p.Openings, o.o)
			}
		}
		if v, ok := pa.kw["partitions"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: partitions: %w", err)
			}
			for _, item := range items {
				s, ok := item.(*sexpPartition)
				if !ok {
					return zygo.SexpNull, fmt.Errorf("room: partitions entry: expected partition, got %T", item)
				}
				p.Segments = append(p.Segments, s.s)
			}
		}
		if v, ok := pa.kw["grid"]; ok {
			g, ok := v.(*sexpGrid)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("room: grid: expected grid, got %T", v)
			}
			p.Grid = g.g
		}

		if len(p.Polygon) < 3 {
			return zygo.SexpNull, fmt.Errorf("room %q: polygon needs at least 3 points, got %d", p.Name, len(p.Polygon))
		}

		col.plans = append(col.plans, p)
		return zygo.SexpNull, nil
	})
}
