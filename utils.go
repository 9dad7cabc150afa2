package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"

	"sandfall/internal/sand"
)

// plainCanvas renders without styles for files and the clipboard.
var plainCanvas = NewCanvas(Colors{}, false)

func copyFrameToClipboard(s Snapshot) error {
	return clipboard.WriteAll(strings.Join(plainCanvas.Plain(s), "\n"))
}

func grainCount(n int) string {
	if n == 1 {
		return "1 grain"
	}
	return humanize.Comma(int64(n)) + " grains"
}

// describeEnd is the one-line summary printed when a run finishes.
func describeEnd(r sand.Result, settled int) string {
	switch r.Outcome {
	case sand.Escaped:
		return fmt.Sprintf("settled %s (escaped at %s)", grainCount(settled), r.At)
	case sand.Clogged:
		return fmt.Sprintf("settled %s (clogged at spawn)", grainCount(settled))
	default:
		return fmt.Sprintf("settled %s (%s)", grainCount(settled), r.Outcome)
	}
}

func caption(w *sand.World) string {
	return fmt.Sprintf("%s mode | %s", w.Mode(), grainCount(w.Settled()))
}
