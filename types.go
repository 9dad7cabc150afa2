package main

import (
	"log/slog"
	"time"

	"sandfall/internal/sand"
	"sandfall/internal/scene"
)

type model struct {
	width          int
	height         int
	scene          *scene.Scene
	world          *sand.World
	mode           sand.Mode
	state          RunState
	tick           time.Duration
	tickID         int
	stepsPerTick   int
	panX           int
	panY           int
	help           bool
	errorMessage   string
	successMessage string
	config         *Config
	canvas         *Canvas
	logger         *slog.Logger
}

// tickMsg carries the id of the tick chain that produced it; stale chains
// are dropped after a pause or restart.
type tickMsg struct {
	id int
}
