// Package sand advances a single falling grain of sand through a scene of
// rock, one cell at a time.
package sand

import (
	"errors"
	"fmt"
	"strings"

	"sandfall/internal/scene"
)

var (
	ErrSpawnBlocked = errors.New("spawn point is rock")
	ErrFloorExists  = errors.New("floor already added")
	ErrStepLimit    = errors.New("step limit reached")
)

// Spawn is where every grain enters the scene.
var Spawn = scene.Coord{X: 500, Y: 0}

// fallOrder is tried in order; the first free cell wins.
var fallOrder = [3]scene.Coord{
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: 1, Y: 1},
}

type Mode int

const (
	// ModeVoid lets grains fall out of the scene.
	ModeVoid Mode = iota
	// ModeFloor adds a floor two rows below the deepest rock.
	ModeFloor
)

func (m Mode) String() string {
	switch m {
	case ModeVoid:
		return "void"
	case ModeFloor:
		return "floor"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "void", "open", "part1", "1":
		return ModeVoid, nil
	case "floor", "floored", "part2", "2":
		return ModeFloor, nil
	}
	return ModeVoid, fmt.Errorf("unknown mode %q (want void or floor)", s)
}

type Outcome int

const (
	Moved Outcome = iota
	Settled
	// Escaped means the grain left the known bounds of a scene without floor.
	Escaped
	// Clogged means a grain came to rest on the spawn point.
	Clogged
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Settled:
		return "settled"
	case Escaped:
		return "escaped"
	case Clogged:
		return "clogged"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run is over.
func (o Outcome) Terminal() bool {
	return o == Escaped || o == Clogged
}

// Result describes one step. At is the grain's new cell for Moved, the cell
// that filled for Settled and Clogged, and the cell outside the bounds for
// Escaped.
type Result struct {
	Outcome Outcome
	At      scene.Coord
}

func (r Result) String() string {
	return fmt.Sprintf("%s at %s", r.Outcome, r.At)
}

// World owns every occupied cell and the falling grain. It is not safe for
// concurrent use.
type World struct {
	mode    Mode
	policy  policy
	rocks   map[scene.Coord]struct{}
	sand    map[scene.Coord]struct{}
	grain   scene.Coord
	bounds  scene.Bounds
	floored bool
	steps   int
	done    bool
	last    Result
}

// NewWorld copies the scene's rock and prepares the grain at the spawn point.
func NewWorld(sc *scene.Scene, mode Mode) (*World, error) {
	if sc.IsRock(Spawn) {
		return nil, fmt.Errorf("%w at %s", ErrSpawnBlocked, Spawn)
	}

	w := &World{
		mode:   mode,
		rocks:  make(map[scene.Coord]struct{}, len(sc.Rocks)),
		sand:   make(map[scene.Coord]struct{}),
		grain:  Spawn,
		bounds: sc.Bounds,
	}
	for c := range sc.Rocks {
		w.rocks[c] = struct{}{}
	}
	w.bounds.Include(Spawn)

	switch mode {
	case ModeVoid:
		w.policy = voidPolicy{}
	case ModeFloor:
		if err := w.AddFloor(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown mode %d", mode)
	}
	return w, nil
}

// AddFloor lays rock two rows below the current bottom across the current
// width and moves the bottom edge onto it. A void world switches to the
// floored rules, so from then on grains land on the floor row instead of
// escaping past it.
func (w *World) AddFloor() error {
	if w.floored {
		return ErrFloorExists
	}
	w.mode = ModeFloor
	w.policy = floorPolicy{}
	y := w.bounds.MaxY + 2
	for x := w.bounds.MinX; x <= w.bounds.MaxX; x++ {
		w.rocks[scene.Coord{X: x, Y: y}] = struct{}{}
	}
	w.bounds.MaxY = y
	w.floored = true
	return nil
}

// Step advances the grain by one cell or settles it. After a terminal
// outcome Step keeps returning that result and changes nothing.
func (w *World) Step() Result {
	if w.done {
		return w.last
	}
	w.steps++

	for _, d := range fallOrder {
		next := w.grain.Add(d)
		if w.policy.escapes(w, next) {
			return w.finish(Result{Outcome: Escaped, At: next})
		}
		if !w.policy.blocked(w, next) {
			w.grain = next
			w.policy.moved(w, next)
			return Result{Outcome: Moved, At: next}
		}
	}

	at := w.grain
	w.sand[at] = struct{}{}
	w.bounds.Include(at)
	if at == Spawn {
		return w.finish(Result{Outcome: Clogged, At: at})
	}
	w.grain = Spawn
	return Result{Outcome: Settled, At: at}
}

// Run steps until the run ends. A positive limit caps the number of steps.
func (w *World) Run(limit int) (Result, error) {
	var r Result
	for n := 0; limit <= 0 || n < limit; n++ {
		if r = w.Step(); r.Outcome.Terminal() {
			return r, nil
		}
	}
	return r, fmt.Errorf("%w after %d steps", ErrStepLimit, limit)
}

func (w *World) finish(r Result) Result {
	w.done = true
	w.last = r
	return r
}

func (w *World) occupied(c scene.Coord) bool {
	return w.IsRock(c) || w.IsSand(c)
}

func (w *World) Mode() Mode { return w.mode }
func (w *World) Bounds() scene.Bounds { return w.bounds }
func (w *World) Grain() scene.Coord { return w.grain }
func (w *World) Floored() bool { return w.floored }
func (w *World) Done() bool { return w.done }
func (w *World) Last() Result { return w.last }
func (w *World) Steps() int { return w.steps }
func (w *World) Settled() int { return len(w.sand) }
func (w *World) RockCount() int { return len(w.rocks) }

func (w *World) IsRock(c scene.Coord) bool {
	_, ok := w.rocks[c]
	return ok
}

func (w *World) IsSand(c scene.Coord) bool {
	_, ok := w.sand[c]
	return ok
}
