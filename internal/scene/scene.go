// Package scene parses rock formation descriptions into a set of occupied
// cells and the bounding rectangle around them.
package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	cornerSep = " -> "
	axisSep   = ","
)

// Lines may be arbitrarily long; the first buffer only sets the starting size.
const initialLineBuffer = 64 * 1024

// ErrMalformed is wrapped by every ParseError.
var ErrMalformed = errors.New("malformed coordinate")

// Coord is a cell position. Y grows downward.
type Coord struct {
	X, Y int
}

func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Bounds is the smallest rectangle containing every included cell.
// The zero value is empty; the first Include initializes all four edges.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
	set        bool
}

// Include grows the bounds to cover c.
func (b *Bounds) Include(c Coord) {
	if !b.set {
		b.MinX, b.MaxX = c.X, c.X
		b.MinY, b.MaxY = c.Y, c.Y
		b.set = true
		return
	}
	b.MinX = min(b.MinX, c.X)
	b.MaxX = max(b.MaxX, c.X)
	b.MinY = min(b.MinY, c.Y)
	b.MaxY = max(b.MaxY, c.Y)
}

func (b Bounds) Empty() bool {
	return !b.set
}

func (b Bounds) Contains(c Coord) bool {
	return b.set && c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

func (b Bounds) Width() int {
	if !b.set {
		return 0
	}
	return b.MaxX - b.MinX + 1
}

func (b Bounds) Height() int {
	if !b.set {
		return 0
	}
	return b.MaxY - b.MinY + 1
}

// Scene is the parsed rock layout.
type Scene struct {
	Rocks  map[Coord]struct{}
	Bounds Bounds
	Paths  [][]Coord
}

func New() *Scene {
	return &Scene{Rocks: make(map[Coord]struct{})}
}

// AddRock marks c as rock and folds it into the bounds.
func (s *Scene) AddRock(c Coord) {
	s.Rocks[c] = struct{}{}
	s.Bounds.Include(c)
}

func (s *Scene) IsRock(c Coord) bool {
	_, ok := s.Rocks[c]
	return ok
}

// AddPath fills every cell on the rectangle spanned by each consecutive
// pair of corners. Only axis-aligned segments are meaningful.
func (s *Scene) AddPath(corners []Coord) {
	s.Paths = append(s.Paths, corners)
	for i := 1; i < len(corners); i++ {
		a, b := corners[i-1], corners[i]
		for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
			for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
				s.AddRock(Coord{X: x, Y: y})
			}
		}
	}
}

// ParseError reports a coordinate that could not be read.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads one polyline per line in the form "x1,y1 -> x2,y2 -> ...".
// Coordinates must fit in 32 bits.
func Parse(r io.Reader) (*Scene, error) {
	s := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), math.MaxInt)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		corners, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		s.AddPath(corners)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return s, nil
}

func ParseString(input string) (*Scene, error) {
	return Parse(strings.NewReader(input))
}

// Load parses the scene file at path.
func Load(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseLine(line string) ([]Coord, error) {
	parts := strings.Split(line, cornerSep)
	corners := make([]Coord, 0, len(parts))
	for _, part := range parts {
		c, err := parseCoord(part)
		if err != nil {
			return nil, err
		}
		corners = append(corners, c)
	}
	return corners, nil
}

func parseCoord(text string) (Coord, error) {
	xs, ys, ok := strings.Cut(text, axisSep)
	if !ok {
		return Coord{}, fmt.Errorf("%w: missing comma in %q", ErrMalformed, text)
	}
	x, err := parseAxis(xs)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: bad x in %q: %v", ErrMalformed, text, err)
	}
	y, err := parseAxis(ys)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: bad y in %q: %v", ErrMalformed, text, err)
	}
	return Coord{X: x, Y: y}, nil
}

// parseAxis keeps coordinates in int32 range so that the fill loops in
// AddPath, and a floor two rows below the deepest rock, never overflow int.
func parseAxis(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
