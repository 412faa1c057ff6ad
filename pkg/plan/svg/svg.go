// Package svg parses SVG floor-plan documents into plans. Elements are
// classified by id prefix: Room_ outlines become plan polygons, Door_
// and Window_ become wall openings, Wall_ becomes interior partitions.
// Coordinates stay in drawing space; callers convert with
// plan.FromDrawing.
package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/VibeCAD/roomforge/pkg/geom"
	"github.com/VibeCAD/roomforge/pkg/plan"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName  xml.Name      `xml:"svg"`
	Width    string        `xml:"width,attr"`
	Height   string        `xml:"height,attr"`
	Rects    []rectElem    `xml:"rect"`
	Paths    []pathElem    `xml:"path"`
	Lines    []lineElem    `xml:"line"`
	Polygons []polygonElem `xml:"polygon"`
}

type rectElem struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type pathElem struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type lineElem struct {
	ID string  `xml:"id,attr"`
	X1 float64 `xml:"x1,attr"`
	Y1 float64 `xml:"y1,attr"`
	X2 float64 `xml:"x2,attr"`
	Y2 float64 `xml:"y2,attr"`
}

type polygonElem struct {
	ID     string `xml:"id,attr"`
	Points string `xml:"points,attr"`
}

// ============================================================
// Classification
// ============================================================

type elemKind int

const (
	kindIgnore elemKind = iota
	kindRoom
	kindWall
	kindOpening
)

func classifyByID(id string) elemKind {
	switch {
	case strings.HasPrefix(id, "Room_"),
		strings.HasSuffix(id, "_room"),
		strings.HasSuffix(id, "_Room"):
		return kindRoom
	case strings.HasPrefix(id, "Wall_"):
		return kindWall
	case strings.HasPrefix(id, "Door_"), strings.HasPrefix(id, "Window_"):
		return kindOpening
	}
	return kindIgnore
}

// roomName strips the classification prefix for use as the plan name.
func roomName(id string) string {
	name := strings.TrimPrefix(id, "Room_")
	name = strings.TrimSuffix(name, "_room")
	name = strings.TrimSuffix(name, "_Room")
	return name
}

// ============================================================
// Parser
// ============================================================

// Parse reads an SVG document and returns one plan per Room_ element,
// in drawing coordinates. Door_, Window_ and Wall_ elements are
// attached to the room whose bounding box contains their midpoint.
func Parse(r io.Reader) ([]plan.Plan, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var plans []plan.Plan
	var openings []plan.Opening
	var walls []plan.Segment

	for _, rect := range doc.Rects {
		switch classifyByID(rect.ID) {
		case kindRoom:
			plans = append(plans, plan.Plan{
				Name:    roomName(rect.ID),
				Polygon: rectPolygon(rect),
			})
		case kindOpening:
			a, b := rectCenterline(rect)
			openings = append(openings, plan.Opening{Start: a, End: b})
		case kindWall:
			a, b := rectCenterline(rect)
			walls = append(walls, plan.Segment{Start: a, End: b})
		}
	}

	for _, p := range doc.Polygons {
		if classifyByID(p.ID) != kindRoom {
			continue
		}
		poly, err := parsePoints(p.Points)
		if err != nil {
			return nil, fmt.Errorf("polygon %s: %w", p.ID, err)
		}
		plans = append(plans, plan.Plan{Name: roomName(p.ID), Polygon: poly})
	}

	for _, p := range doc.Paths {
		kind := classifyByID(p.ID)
		if kind == kindIgnore {
			continue
		}
		poly, err := parsePathOutline(p.D)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", p.ID, err)
		}
		switch kind {
		case kindRoom:
			plans = append(plans, plan.Plan{Name: roomName(p.ID), Polygon: poly})
		case kindOpening:
			if len(poly) >= 2 {
				openings = append(openings, plan.Opening{Start: poly[0], End: poly[len(poly)-1]})
			}
		case kindWall:
			if len(poly) >= 2 {
				walls = append(walls, plan.Segment{Start: poly[0], End: poly[len(poly)-1]})
			}
		}
	}

	for _, l := range doc.Lines {
		a := geom.Vec2{X: l.X1, Y: l.Y1}
		b := geom.Vec2{X: l.X2, Y: l.Y2}
		switch classifyByID(l.ID) {
		case kindOpening:
			openings = append(openings, plan.Opening{Start: a, End: b})
		case kindWall:
			walls = append(walls, plan.Segment{Start: a, End: b})
		}
	}

	if len(plans) == 0 {
		return nil, fmt.Errorf("no Room_ elements found")
	}

	grid := documentGrid(doc)
	for i := range plans {
		plans[i].Grid = grid
	}

	attachOpenings(plans, openings)
	attachWalls(plans, walls)
	return plans, nil
}

// ParseWorld parses the document and converts every plan to world
// coordinates with the given drawing scale.
func ParseWorld(r io.Reader, scale float64) ([]plan.Plan, error) {
	plans, err := Parse(r)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i] = plan.FromDrawing(plans[i], scale)
	}
	return plans, nil
}

// ============================================================
// Geometry helpers
// ============================================================

func rectPolygon(r rectElem) []geom.Vec2 {
	return []geom.Vec2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// rectCenterline reduces a thin rect (how drawing tools export doors and
// wall strokes) to the centerline along its longer axis.
func rectCenterline(r rectElem) (geom.Vec2, geom.Vec2) {
	cx := r.X + r.Width/2
	cy := r.Y + r.Height/2
	if r.Width >= r.Height {
		return geom.Vec2{X: r.X, Y: cy}, geom.Vec2{X: r.X + r.Width, Y: cy}
	}
	return geom.Vec2{X: cx, Y: r.Y}, geom.Vec2{X: cx, Y: r.Y + r.Height}
}

// parsePoints parses an SVG polygon points attribute: "x1,y1 x2,y2 ...".
func parsePoints(s string) ([]geom.Vec2, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd coordinate count %d", len(fields))
	}
	var out []geom.Vec2
	for i := 0; i+1 < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", fields[i], err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", fields[i+1], err)
		}
		out = append(out, geom.Vec2{X: x, Y: y})
	}
	return out, nil
}

// parsePathOutline walks a path d attribute supporting the straight-line
// subset (M, L, H, V, Z in absolute and relative form). Curves are not
// supported; floor-plan exports use straight segments.
func parsePathOutline(d string) ([]geom.Vec2, error) {
	var out []geom.Vec2
	var cur geom.Vec2
	var start geom.Vec2

	toks := tokenizePath(d)
	i := 0
	cmd := byte(0)
	for i < len(toks) {
		t := toks[i]
		if len(t) == 1 && isPathCmd(t[0]) {
			cmd = t[0]
			i++
			if cmd == 'Z' || cmd == 'z' {
				cur = start
			}
			continue
		}
		if cmd == 0 {
			return nil, fmt.Errorf("coordinate before command in %q", d)
		}

		switch cmd {
		case 'M', 'L', 'm', 'l':
			if i+1 >= len(toks) {
				return nil, fmt.Errorf("truncated coordinate pair in %q", d)
			}
			x, err := strconv.ParseFloat(toks[i], 64)
			if err != nil {
				return nil, fmt.Errorf("coordinate %q: %w", toks[i], err)
			}
			y, err := strconv.ParseFloat(toks[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("coordinate %q: %w", toks[i+1], err)
			}
			i += 2
			if cmd == 'm' || cmd == 'l' {
				cur = geom.Vec2{X: cur.X + x, Y: cur.Y + y}
			} else {
				cur = geom.Vec2{X: x, Y: y}
			}
			if cmd == 'M' || cmd == 'm' {
				start = cur
				// Subsequent pairs after a moveto are implicit linetos.
				if cmd == 'M' {
					cmd = 'L'
				} else {
					cmd = 'l'
				}
			}
			out = append(out, cur)
		case 'H', 'h', 'V', 'v':
			v, err := strconv.ParseFloat(toks[i], 64)
			if err != nil {
				return nil, fmt.Errorf("coordinate %q: %w", toks[i], err)
			}
			i++
			switch cmd {
			case 'H':
				cur.X = v
			case 'h':
				cur.X += v
			case 'V':
				cur.Y = v
			case 'v':
				cur.Y += v
			}
			out = append(out, cur)
		default:
			return nil, fmt.Errorf("unsupported path command %q in %q", cmd, d)
		}
	}

	// Drop a closing vertex that duplicates the start.
	if len(out) > 1 && geom.SamePoint(out[0], out[len(out)-1], geom.LengthTol) {
		out = out[:len(out)-1]
	}
	return out, nil
}

func tokenizePath(d string) []string {
	var toks []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			toks = append(toks, buf.String())
			buf.Reset()
		}
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			flush()
		case isPathCmd(c):
			flush()
			toks = append(toks, string(c))
		case c == '-' && buf.Len() > 0 && d[i-1] != 'e' && d[i-1] != 'E':
			// "10-20" packs two coordinates.
			flush()
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
		}
	}
	flush()
	return toks
}

func isPathCmd(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'Z', 'z':
		return true
	}
	return false
}

// ============================================================
// Attachment
// ============================================================

// documentGrid derives the grid bounds from the svg width/height
// attributes, falling back to the plan defaults.
func documentGrid(doc svgDoc) plan.GridSpec {
	g := plan.GridSpec{
		GridSize:     plan.DefaultGridSize,
		BoundsWidth:  plan.DefaultBoundsWidth,
		BoundsHeight: plan.DefaultBoundsHeight,
	}
	if w, err := strconv.ParseFloat(strings.TrimSuffix(doc.Width, "px"), 64); err == nil && w > 0 {
		g.BoundsWidth = w
	}
	if h, err := strconv.ParseFloat(strings.TrimSuffix(doc.Height, "px"), 64); err == nil && h > 0 {
		g.BoundsHeight = h
	}
	return g
}

// attachOpenings assigns each opening to the room whose bounding box
// contains its midpoint. Unmatched openings are dropped; plan validation
// warns about openings that touch no wall.
func attachOpenings(plans []plan.Plan, openings []plan.Opening) {
	for _, o := range openings {
		mid := geom.Lerp2(o.Start, o.End, 0.5)
		if i := containingRoom(plans, mid); i >= 0 {
			plans[i].Openings = append(plans[i].Openings, o)
		}
	}
}

func attachWalls(plans []plan.Plan, walls []plan.Segment) {
	for _, w := range walls {
		mid := geom.Lerp2(w.Start, w.End, 0.5)
		if i := containingRoom(plans, mid); i >= 0 {
			plans[i].Segments = append(plans[i].Segments, w)
		}
	}
}

func containingRoom(plans []plan.Plan, p geom.Vec2) int {
	for i := range plans {
		min, max := polyBounds(plans[i].Polygon)
		if p.X >= min.X-geom.LengthTol && p.X <= max.X+geom.LengthTol &&
			p.Y >= min.Y-geom.LengthTol && p.Y <= max.Y+geom.LengthTol {
			return i
		}
	}
	return -1
}

func polyBounds(poly []geom.Vec2) (geom.Vec2, geom.Vec2) {
	if len(poly) == 0 {
		return geom.Vec2{}, geom.Vec2{}
	}
	min, max := poly[0], poly[0]
	for _, v := range poly[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}
