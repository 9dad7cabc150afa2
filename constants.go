package main

import "time"

type RunState int

const (
	StateRunning RunState = iota
	StatePaused
	StateFinished
)

type FileOperation int

const (
	FileOpSaveTXT FileOperation = iota
	FileOpSavePNG
)

const (
	glyphSpawn       = '+'
	glyphSpawnFilled = 'X'
	glyphGrain       = 'o'
	glyphSand        = 'O'
	glyphRock        = '#'
	glyphFloor       = '~'
	glyphEmpty       = '.'
)

// Columns drawn on each side of the bounds.
const sideMargin = 2

const (
	defaultTick  = 50 * time.Millisecond
	tickStep     = 10 * time.Millisecond
	minTick      = time.Millisecond
	defaultInput = "input.txt"

	maxStepsPerTick = 1 << 16
)
