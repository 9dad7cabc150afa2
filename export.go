package main

import (
	"fmt"
	"os"
	"time"
)

// writeFrameTXT writes the whole frame, not just the visible viewport.
func writeFrameTXT(canvas *Canvas, s Snapshot, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range canvas.Plain(s) {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// exportName builds a file name that sorts by time and carries the mode.
func (m *model) exportName(ext string) string {
	return fmt.Sprintf("sandfall-%s-%s.%s", m.mode, time.Now().Format("20060102-150405"), ext)
}

func (m *model) export(op FileOperation) (string, error) {
	ext := "txt"
	if op == FileOpSavePNG {
		ext = "png"
	}
	path, err := m.config.GetSavePath(m.exportName(ext))
	if err != nil {
		return path, err
	}
	switch op {
	case FileOpSaveTXT:
		return path, writeFrameTXT(plainCanvas, m.world, path)
	case FileOpSavePNG:
		return path, m.canvas.ExportToPNG(m.world, path, caption(m.world))
	}
	return "", fmt.Errorf("unknown export %d", op)
}
