package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sandfall/internal/sand"
	"sandfall/internal/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	config, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := opts.apply(config); err != nil {
		return err
	}

	logger, closeLog, err := openLogger(config, opts.headless, stderr)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	sc, err := scene.Load(opts.input)
	if err != nil {
		return err
	}
	b := sc.Bounds
	logger.Info("scene loaded", "path", opts.input, "paths", len(sc.Paths), "rocks", len(sc.Rocks),
		"min_x", b.MinX, "max_x", b.MaxX, "min_y", b.MinY, "max_y", b.MaxY)

	if opts.headless {
		return runHeadless(sc, config, opts, logger, stdout)
	}

	m, err := initialModel(sc, config, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func initialModel(sc *scene.Scene, config *Config, logger *slog.Logger) (model, error) {
	mode := config.SimMode()
	world, err := sand.NewWorld(sc, mode)
	if err != nil {
		return model{}, err
	}
	logger.Info("simulation started", "mode", mode.String())

	return model{
		scene:        sc,
		world:        world,
		mode:         mode,
		state:        StateRunning,
		tick:         config.Tick(),
		stepsPerTick: config.StepsPerTick,
		config:       config,
		canvas:       NewCanvas(config.Colors, true),
		logger:       logger,
	}, nil
}

func (m model) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m model) scheduleTick() tea.Cmd {
	id := m.tickID
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// advance runs up to n steps and stops at the end of the run.
func (m *model) advance(n int) tea.Cmd {
	for i := 0; i < n; i++ {
		r := m.world.Step()
		if r.Outcome.Terminal() {
			return m.finish(r)
		}
	}
	return nil
}

func (m *model) finish(r sand.Result) tea.Cmd {
	m.state = StateFinished
	m.tickID++
	m.successMessage = describeEnd(r, m.world.Settled())
	m.logger.Info("run finished", "mode", m.mode.String(), "outcome", r.Outcome.String(),
		"at", r.At.String(), "settled", m.world.Settled(), "steps", m.world.Steps())
	if m.config.ExitOnFinish {
		return tea.Quit
	}
	return nil
}

// restart rebuilds the world from the parsed scene in the given mode.
func (m *model) restart(mode sand.Mode) tea.Cmd {
	world, err := sand.NewWorld(m.scene, mode)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.world = world
	m.mode = mode
	m.state = StateRunning
	m.tickID++
	m.errorMessage = ""
	m.successMessage = ""
	m.logger.Info("simulation restarted", "mode", mode.String())
	return m.scheduleTick()
}

func (m *model) setPaused(paused bool) tea.Cmd {
	if m.state == StateFinished {
		return nil
	}
	m.tickID++
	if paused {
		m.state = StatePaused
		return nil
	}
	m.state = StateRunning
	return m.scheduleTick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0
		m.width = msg.Width
		m.height = msg.Height
		if first {
			m.centerOnSpawn()
		}
		return m, nil

	case tickMsg:
		if msg.id != m.tickID || m.state != StateRunning {
			return m, nil
		}
		if cmd := m.advance(m.stepsPerTick); cmd != nil || m.state == StateFinished {
			return m, cmd
		}
		return m, m.scheduleTick()

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			default:
				m.help = false
				return m, nil
			}
		}

		m.errorMessage = ""
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.help = true
			return m, nil
		case "+", "=":
			m.tick -= tickStep
			if m.tick < minTick {
				m.tick = minTick
			}
			return m, nil
		case "-", "_":
			m.tick += tickStep
			return m, nil
		case ">":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
			return m, nil
		case "<":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
			return m, nil
		case " ":
			return m, m.setPaused(m.state == StateRunning)
		case ".":
			if m.state == StatePaused {
				return m, m.advance(1)
			}
			return m, nil
		case "r":
			return m, m.restart(m.mode)
		case "m":
			next := sand.ModeFloor
			if m.mode == sand.ModeFloor {
				next = sand.ModeVoid
			}
			return m, m.restart(next)
		case "0":
			m.centerOnSpawn()
			return m, nil
		case "c":
			if err := copyFrameToClipboard(m.world); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = "Frame copied to clipboard"
			}
			return m, nil
		case "s", "S":
			op := FileOpSaveTXT
			if key == "S" {
				op = FileOpSavePNG
			}
			path, err := m.export(op)
			if err != nil {
				m.errorMessage = err.Error()
				m.logger.Error("export failed", "path", path, "err", err)
			} else {
				m.successMessage = "Saved " + path
				m.logger.Info("exported frame", "path", path)
			}
			return m, nil
		case "h", "left", "H", "shift+left", "l", "right", "L", "shift+right",
			"k", "up", "K", "shift+up", "j", "down", "J", "shift+down":
			m.handlePan(key, m.getMoveSpeed(key))
			return m, nil
		}
	}
	return m, nil
}

var statusStyle = lipgloss.NewStyle().Reverse(true)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	renderWidth := m.width
	if renderWidth < 1 {
		renderWidth = 1
	}
	lines := m.canvas.Render(m.world, renderWidth, m.canvasHeight(), m.panX, m.panY)

	var result strings.Builder
	for _, line := range lines {
		result.WriteString(line)
		result.WriteString("\n")
	}

	status := m.statusLine()
	if len(status) < renderWidth {
		status += strings.Repeat(" ", renderWidth-len(status))
	}
	result.WriteString(statusStyle.Render(status))
	return result.String()
}

func (m model) statusLine() string {
	status := fmt.Sprintf("Mode: %s | Settled: %s | Tick: %s x%d | %s",
		strings.ToUpper(m.mode.String()), grainCount(m.world.Settled()), m.tick, m.stepsPerTick, m.stateString())
	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | ERROR: " + m.errorMessage
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

func (m model) stateString() string {
	switch m.state {
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateFinished:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

func (m model) helpView() string {
	helpLines := []string{
		"Sandfall Help",
		"=============",
		"",
		"Simulation:",
		"-----------",
		"  +/-              Faster/slower ticks (10ms per press)",
		"  >/<              Double/halve steps per tick",
		"  Space            Pause or resume",
		"  .                Single step while paused",
		"  r                Restart from the scene",
		"  m                Restart in the other mode (void/floor)",
		"",
		"View:",
		"-----",
		"  h/←/j/↓/k/↑/l/→  Pan the view",
		"  Shift+h/j/k/l    Pan 2x faster",
		"  0                Center on the spawn point",
		"",
		"Export:",
		"-------",
		"  c                Copy frame to clipboard",
		"  s                Save frame as text",
		"  S                Export frame as PNG",
		"",
		"Legend:",
		"-------",
		"  +  spawn    X  spawn filled    o  falling grain",
		"  O  sand     #  rock            ~  floor          .  air",
		"",
		"General:",
		"  ?                Toggle this help screen",
		"  q/Ctrl+C         Quit",
		"",
		"Press any key to close",
	}
	height := m.height
	if height < 1 || height > len(helpLines) {
		height = len(helpLines)
	}
	return strings.Join(helpLines[:height], "\n")
}
