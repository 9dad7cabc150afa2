package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"sandfall/internal/sand"
	"sandfall/internal/scene"
)

// Snapshot is the read-only view of a simulation that the canvas draws.
type Snapshot interface {
	Bounds() scene.Bounds
	IsRock(c scene.Coord) bool
	IsSand(c scene.Coord) bool
	Grain() scene.Coord
	Floored() bool
	Done() bool
}

type Canvas struct {
	styled bool
	styles map[rune]lipgloss.Style
}

func NewCanvas(colors Colors, styled bool) *Canvas {
	style := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &Canvas{
		styled: styled,
		styles: map[rune]lipgloss.Style{
			glyphSpawn:       style(colors.Spawn),
			glyphSpawnFilled: style(colors.Spawn).Bold(true),
			glyphGrain:       style(colors.Grain).Bold(true),
			glyphSand:        style(colors.Sand),
			glyphRock:        style(colors.Rock),
			glyphFloor:       style(colors.Floor),
			glyphEmpty:       lipgloss.NewStyle().Faint(true),
		},
	}
}

// frameOrigin is the world cell drawn at frame row 0, column 0.
func frameOrigin(s Snapshot) scene.Coord {
	b := s.Bounds()
	return scene.Coord{X: b.MinX - sideMargin, Y: b.MinY}
}

func frameSize(s Snapshot) (int, int) {
	b := s.Bounds()
	return b.Width() + 2*sideMargin, b.Height()
}

// Glyph picks the character for one world cell.
func Glyph(s Snapshot, c scene.Coord) rune {
	switch {
	case c == sand.Spawn:
		if s.IsSand(c) {
			return glyphSpawnFilled
		}
		return glyphSpawn
	case c == s.Grain() && !s.Done():
		return glyphGrain
	case s.IsSand(c):
		return glyphSand
	case s.Floored() && c.Y == s.Bounds().MaxY:
		return glyphFloor
	case s.IsRock(c):
		return glyphRock
	default:
		return glyphEmpty
	}
}

// Frame draws the whole scene: every row of the bounds and every column of
// the bounds widened by the side margin.
func (c *Canvas) Frame(s Snapshot) [][]rune {
	origin := frameOrigin(s)
	width, height := frameSize(s)
	frame := make([][]rune, height)
	for row := range frame {
		frame[row] = make([]rune, width)
		for col := range frame[row] {
			frame[row][col] = Glyph(s, scene.Coord{X: origin.X + col, Y: origin.Y + row})
		}
	}
	return frame
}

// Plain returns the whole frame as unstyled lines.
func (c *Canvas) Plain(s Snapshot) []string {
	frame := c.Frame(s)
	lines := make([]string, len(frame))
	for i, row := range frame {
		lines[i] = string(row)
	}
	return lines
}

// Render crops the frame to a width x height viewport whose top-left corner
// is world cell (panX, panY). Cells outside the frame are blank.
func (c *Canvas) Render(s Snapshot, width, height, panX, panY int) []string {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}

	frame := c.Frame(s)
	origin := frameOrigin(s)
	result := make([]string, height)
	line := make([]rune, width)
	for i := range result {
		row := i + panY - origin.Y
		for j := range line {
			col := j + panX - origin.X
			if row >= 0 && row < len(frame) && col >= 0 && col < len(frame[row]) {
				line[j] = frame[row][col]
			} else {
				line[j] = ' '
			}
		}
		result[i] = c.styleLine(line)
	}
	return result
}

// styleLine renders runs of the same glyph with one style call each.
func (c *Canvas) styleLine(line []rune) string {
	if !c.styled {
		return string(line)
	}
	var out strings.Builder
	start := 0
	for j := 1; j <= len(line); j++ {
		if j < len(line) && line[j] == line[start] {
			continue
		}
		run := string(line[start:j])
		if style, ok := c.styles[line[start]]; ok {
			run = style.Render(run)
		}
		out.WriteString(run)
		start = j
	}
	return out.String()
}

var pngPalette = map[rune]color.Color{
	glyphSpawn:       color.RGBA{0x1e, 0x90, 0xff, 0xff},
	glyphSpawnFilled: color.RGBA{0xdc, 0x14, 0x3c, 0xff},
	glyphGrain:       color.RGBA{0xff, 0xd7, 0x00, 0xff},
	glyphSand:        color.RGBA{0xc2, 0xb2, 0x80, 0xff},
	glyphRock:        color.RGBA{0x55, 0x55, 0x55, 0xff},
	glyphFloor:       color.RGBA{0x8b, 0x5a, 0x2b, 0xff},
	glyphEmpty:       color.White,
}

// ExportToPNG draws one square per frame cell under a caption line.
func (c *Canvas) ExportToPNG(s Snapshot, filename, caption string) error {
	frame := c.Frame(s)
	if len(frame) == 0 {
		return fmt.Errorf("nothing to export")
	}

	cellSize := 6.0
	captionHeight := 20.0

	imageWidth := int(float64(len(frame[0])) * cellSize)
	imageHeight := int(float64(len(frame))*cellSize + captionHeight)
	// Leave room for the caption on narrow scenes.
	if minWidth := 8 * len(caption); imageWidth < minWidth {
		imageWidth = minWidth
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	dc.DrawString(caption, 4, captionHeight-6)

	for row, cells := range frame {
		for col, glyph := range cells {
			if glyph == glyphEmpty {
				continue
			}
			dc.SetColor(pngPalette[glyph])
			dc.DrawRectangle(float64(col)*cellSize, captionHeight+float64(row)*cellSize, cellSize, cellSize)
			dc.Fill()
		}
	}

	return dc.SavePNG(filename)
}
