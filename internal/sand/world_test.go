package sand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandfall/internal/scene"
)

const exampleScene = `498,4 -> 498,6 -> 496,6
503,4 -> 502,4 -> 502,9 -> 494,9`

func newWorld(t *testing.T, input string, mode Mode) *World {
	t.Helper()
	sc, err := scene.ParseString(input)
	require.NoError(t, err)
	w, err := NewWorld(sc, mode)
	require.NoError(t, err)
	return w
}

// runCounting steps to the end and counts Settled results along the way.
func runCounting(t *testing.T, w *World, limit int) (Result, int) {
	t.Helper()
	settles := 0
	for i := 0; i < limit; i++ {
		r := w.Step()
		switch r.Outcome {
		case Settled:
			settles++
		case Escaped, Clogged:
			return r, settles
		}
	}
	t.Fatalf("no terminal outcome after %d steps", limit)
	return Result{}, settles
}

func TestExampleScene_Void(t *testing.T) {
	w := newWorld(t, exampleScene, ModeVoid)

	r, settles := runCounting(t, w, 100000)
	require.Equal(t, Escaped, r.Outcome)
	assert.Equal(t, 24, w.Settled())
	assert.Equal(t, settles, w.Settled())
	assert.False(t, w.Bounds().Contains(r.At))
	assert.True(t, w.Done())
}

func TestExampleScene_Floor(t *testing.T) {
	w := newWorld(t, exampleScene, ModeFloor)

	r, settles := runCounting(t, w, 100000)
	require.Equal(t, Clogged, r.Outcome)
	assert.Equal(t, Spawn, r.At)
	assert.Equal(t, 93, w.Settled())
	// The clogging grain is counted but reported as Clogged, not Settled.
	assert.Equal(t, settles+1, w.Settled())
	assert.True(t, w.IsSand(Spawn))
}

func TestRun(t *testing.T) {
	w := newWorld(t, exampleScene, ModeFloor)
	r, err := w.Run(0)
	require.NoError(t, err)
	assert.Equal(t, Clogged, r.Outcome)
	assert.Equal(t, 93, w.Settled())

	w = newWorld(t, exampleScene, ModeVoid)
	r, err = w.Run(3)
	require.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, Moved, r.Outcome)
	assert.Equal(t, 3, w.Steps())
	assert.False(t, w.Done())
}

func TestStep_FallOrder(t *testing.T) {
	// The first grain rests on the ledge, the second slides off it down-left.
	w := newWorld(t, "499,3 -> 501,3", ModeFloor)

	assert.Equal(t, Result{Moved, scene.Coord{X: 500, Y: 1}}, w.Step())
	assert.Equal(t, Result{Moved, scene.Coord{X: 500, Y: 2}}, w.Step())
	assert.Equal(t, Result{Settled, scene.Coord{X: 500, Y: 2}}, w.Step())
	assert.Equal(t, Spawn, w.Grain())

	assert.Equal(t, Result{Moved, scene.Coord{X: 500, Y: 1}}, w.Step())
	assert.Equal(t, Result{Moved, scene.Coord{X: 499, Y: 2}}, w.Step())
}

func TestStep_SlidesDownLeftBeforeRight(t *testing.T) {
	w := newWorld(t, "500,2 -> 500,2\n490,20 -> 510,20", ModeVoid)

	w.Step() // (500,1)
	assert.Equal(t, Result{Moved, scene.Coord{X: 499, Y: 2}}, w.Step())

	// Block down-left as well: the grain must go down-right.
	w = newWorld(t, "499,2 -> 500,2\n490,20 -> 510,20", ModeVoid)
	w.Step()
	assert.Equal(t, Result{Moved, scene.Coord{X: 501, Y: 2}}, w.Step())
}

func TestStep_EscapedBeforeOccupancy(t *testing.T) {
	// A single rock under the spawn: the grain lands on it and then slides
	// off the left edge of the bounds.
	w := newWorld(t, "500,2 -> 500,2", ModeVoid)
	b := w.Bounds()
	assert.Equal(t, 500, b.MinX)
	assert.Equal(t, 500, b.MaxX)
	assert.Equal(t, 0, b.MinY)
	assert.Equal(t, 2, b.MaxY)

	assert.Equal(t, Result{Moved, scene.Coord{X: 500, Y: 1}}, w.Step())
	assert.Equal(t, Result{Escaped, scene.Coord{X: 499, Y: 2}}, w.Step())
	assert.Equal(t, 0, w.Settled())
}

func TestStep_TerminalIsSticky(t *testing.T) {
	w := newWorld(t, exampleScene, ModeVoid)
	r, err := w.Run(0)
	require.NoError(t, err)

	settled, steps, grain := w.Settled(), w.Steps(), w.Grain()
	for i := 0; i < 5; i++ {
		assert.Equal(t, r, w.Step())
	}
	assert.Equal(t, settled, w.Settled())
	assert.Equal(t, steps, w.Steps())
	assert.Equal(t, grain, w.Grain())
	assert.Equal(t, r, w.Last())
}

func TestFloor_AlwaysClogs(t *testing.T) {
	scenes := []string{
		"",
		"500,5 -> 500,5",
		"480,3 -> 480,30 -> 520,30 -> 520,3",
		"450,10 -> 470,10\n530,12 -> 530,40",
		exampleScene,
	}
	for _, input := range scenes {
		w := newWorld(t, input, ModeFloor)
		r, err := w.Run(5_000_000)
		require.NoError(t, err, "scene %q", input)
		assert.Equal(t, Clogged, r.Outcome, "scene %q", input)

		// The pile is a triangle of height floor-1 at most.
		depth := w.Bounds().MaxY
		assert.LessOrEqual(t, w.Settled(), depth*depth, "scene %q", input)
	}
}

func TestFloor_EmptyScene(t *testing.T) {
	w := newWorld(t, "", ModeFloor)
	// Spawn alone gives bounds (500,0); floor lands at y=2.
	assert.Equal(t, 2, w.Bounds().MaxY)
	_, err := w.Run(0)
	require.NoError(t, err)
	// Rows y=1 (3 cells) and y=0 (1 cell).
	assert.Equal(t, 4, w.Settled())
}

func TestVoid_EmptySceneEscapesImmediately(t *testing.T) {
	w := newWorld(t, "", ModeVoid)
	assert.Equal(t, Result{Escaped, scene.Coord{X: 500, Y: 1}}, w.Step())
	assert.Zero(t, w.Settled())
}

func TestVoid_CupCanClog(t *testing.T) {
	// A closed cup around the spawn fills until the spawn itself blocks.
	w := newWorld(t, "497,0 -> 497,3 -> 503,3 -> 503,0", ModeVoid)
	r, err := w.Run(0)
	require.NoError(t, err)
	assert.Equal(t, Clogged, r.Outcome)
	// Five on the bottom row, three above them, one on the spawn.
	assert.Equal(t, 9, w.Settled())
}

func TestAddFloor(t *testing.T) {
	void := newWorld(t, exampleScene, ModeVoid)
	floor := newWorld(t, exampleScene, ModeFloor)

	vb, fb := void.Bounds(), floor.Bounds()
	assert.Equal(t, vb.MaxY+2, fb.MaxY)
	assert.Equal(t, vb.MaxX-vb.MinX+1, floor.RockCount()-void.RockCount())
	for x := vb.MinX; x <= vb.MaxX; x++ {
		assert.True(t, floor.IsRock(scene.Coord{X: x, Y: fb.MaxY}))
	}
	assert.True(t, floor.Floored())
	assert.False(t, void.Floored())

	require.ErrorIs(t, floor.AddFloor(), ErrFloorExists)
	assert.Equal(t, fb, floor.Bounds())

	require.NoError(t, void.AddFloor())
	assert.Equal(t, vb.MaxY+2, void.Bounds().MaxY)
}

func TestAddFloor_SwitchesVoidWorldToFloorRules(t *testing.T) {
	w := newWorld(t, exampleScene, ModeVoid)
	require.NoError(t, w.AddFloor())
	assert.Equal(t, ModeFloor, w.Mode())
	assert.True(t, w.Floored())

	r, err := w.Run(0)
	require.NoError(t, err)
	assert.Equal(t, Clogged, r.Outcome)
	assert.Equal(t, 93, w.Settled())
}

func TestFloor_GrowsBoundsSideways(t *testing.T) {
	w := newWorld(t, "500,3 -> 500,3", ModeFloor)
	_, err := w.Run(0)
	require.NoError(t, err)

	b := w.Bounds()
	assert.Less(t, b.MinX, 500)
	assert.Greater(t, b.MaxX, 500)
	assert.Equal(t, 5, b.MaxY)
}

func TestNewWorld_SpawnBlocked(t *testing.T) {
	sc, err := scene.ParseString("499,0 -> 501,0")
	require.NoError(t, err)

	for _, mode := range []Mode{ModeVoid, ModeFloor} {
		_, err := NewWorld(sc, mode)
		require.ErrorIs(t, err, ErrSpawnBlocked)
	}
}

func TestNewWorld_DoesNotShareRocks(t *testing.T) {
	sc, err := scene.ParseString(exampleScene)
	require.NoError(t, err)
	before := len(sc.Rocks)

	_, err = NewWorld(sc, ModeFloor)
	require.NoError(t, err)
	assert.Len(t, sc.Rocks, before)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"void": ModeVoid, "part1": ModeVoid, "Floor": ModeFloor, " 2 ": ModeFloor} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("sideways")
	require.Error(t, err)
}

func TestInvariants(t *testing.T) {
	w := newWorld(t, exampleScene, ModeFloor)
	for !w.Done() {
		w.Step()
		if !w.Done() {
			g := w.Grain()
			require.False(t, w.IsRock(g), "grain inside rock at %v", g)
			require.False(t, w.IsSand(g), "grain inside sand at %v", g)
		}
	}
	for c := range w.sand {
		require.False(t, w.IsRock(c), "sand and rock overlap at %v", c)
	}
}
