package viz

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/relax"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
)

type TickMsg time.Time

// Model steps a relaxation run and renders it while it settles.
type Model struct {
	sys           *relax.System
	n             int
	relaxation    float64
	tolerance     float64
	seed          int64
	stepsPerFrame int

	canvas  *Canvas
	camera  *Camera
	sphere  *Wireframe
	history []float64

	running   bool
	converged bool
	settled   int
	err       error
	showHelp  bool
}

// NewModel initializes a live view for n charges.
func NewModel(n int, tolerance, relaxation float64, seed int64, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 25
	}

	return Model{
		sys:           relax.NewSystem(n, relaxation, rand.New(rand.NewSource(seed))),
		n:             n,
		relaxation:    relaxation,
		tolerance:     tolerance,
		seed:          seed,
		stepsPerFrame: stepsPerFrame,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        NewCamera(),
		sphere:        SphereWireframe(1, 5, 8, 24),
		history:       make([]float64, 0, historyCapacity),
		running:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && !m.converged && m.err == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}

	return m, nil
}

func (m *Model) reset() {
	m.seed++
	m.sys = relax.NewSystem(m.n, m.relaxation, rand.New(rand.NewSource(m.seed)))
	m.history = m.history[:0]
	m.converged = false
	m.settled = 0
	m.err = nil
	m.running = true
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.sys.Step(); err != nil {
			m.err = err
			return
		}
		if m.sys.MaxDisplacement() < m.tolerance {
			m.settled++
			if m.settled >= relax.SettleStreak {
				m.converged = true
				break
			}
		} else {
			m.settled = 0
		}
	}

	m.history = append(m.history, m.sys.MaxDisplacement())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m Model) View() string {
	m.canvas.Clear()
	RenderWireframe(m.canvas, m.sphere, m.camera)
	RenderPoints(m.canvas, m.sys.Positions(), m.camera)

	left := canvasStyle.Render(m.canvas.String())
	right := statsStyle.Render(m.stats())

	view := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	if graph := m.graph(); graph != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, graphStyle.Render(graph))
	}

	help := "space pause • r reseed • x/y/z rotate • +/- zoom • ? help • q quit"
	if m.showHelp {
		help = "space: pause/resume\nr: restart with next seed\nx/X y/Y z/Z: rotate camera\n+/-: zoom\nq: quit"
	}

	return lipgloss.JoinVertical(lipgloss.Left, view, helpStyle.Render(help))
}

func (m Model) stats() string {
	status := "relaxing"
	style := valueStyle
	switch {
	case m.err != nil:
		status = fmt.Sprintf("error: %v", m.err)
		style = errStyle
	case m.converged:
		status = "converged"
		style = doneStyle
	case !m.running:
		status = "paused"
	}

	rows := []struct {
		label string
		value string
	}{
		{"status", style.Render(status)},
		{"charges", fmt.Sprintf("%d", m.sys.Size())},
		{"iterations", fmt.Sprintf("%d", m.sys.Iterations())},
		{"max disp", fmt.Sprintf("%.3e", m.sys.MaxDisplacement())},
		{"tolerance", fmt.Sprintf("%.3e", m.tolerance)},
		{"energy", fmt.Sprintf("%.6f", m.sys.Energy())},
		{"seed", fmt.Sprintf("%d", m.seed)},
	}

	out := headerStyle.Render("thomson relaxation") + "\n"
	for _, r := range rows {
		out += labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n"
	}
	return out
}

func (m Model) graph() string {
	if len(m.history) < 2 {
		return ""
	}

	// Log scale keeps the tail visible once displacements get small.
	data := make([]float64, len(m.history))
	for i, d := range m.history {
		data[i] = math.Log10(d + 1e-16)
	}

	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(100),
		asciigraph.Caption("log10 max displacement"),
	)
}
