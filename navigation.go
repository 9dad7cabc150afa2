package main

import "sandfall/internal/sand"

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// centerOnSpawn pans so the spawn column sits mid-screen and the top row
// of the scene is at the top.
func (m *model) centerOnSpawn() {
	m.panX = sand.Spawn.X - m.width/2
	m.panY = m.world.Bounds().MinY
}

func (m *model) canvasHeight() int {
	// One line for the status bar.
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	return h
}
