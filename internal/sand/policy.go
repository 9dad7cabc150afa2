package sand

import "sandfall/internal/scene"

// policy decides what counts as occupied and where a grain may go. It is
// fixed when the World is built.
type policy interface {
	escapes(w *World, c scene.Coord) bool
	blocked(w *World, c scene.Coord) bool
	moved(w *World, c scene.Coord)
}

// voidPolicy ends the run as soon as a grain would leave the bounds.
type voidPolicy struct{}

func (voidPolicy) escapes(w *World, c scene.Coord) bool {
	return !w.bounds.Contains(c)
}

func (voidPolicy) blocked(w *World, c scene.Coord) bool {
	return w.occupied(c)
}

func (voidPolicy) moved(*World, scene.Coord) {}

// floorPolicy treats the whole bottom row as rock, however wide the pile
// grows.
type floorPolicy struct{}

func (floorPolicy) escapes(*World, scene.Coord) bool {
	return false
}

func (floorPolicy) blocked(w *World, c scene.Coord) bool {
	return c.Y == w.bounds.MaxY || w.occupied(c)
}

// moved widens the bounds so the renderer sees grains that slide past the
// ends of the floor rock.
func (floorPolicy) moved(w *World, c scene.Coord) {
	w.bounds.Include(c)
}
