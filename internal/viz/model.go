package viz

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mechsim/internal/dynamo"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	energyCapacity  = 300
	frameRate       = 30
	zoomStep        = 1.25
	defaultGIFPath  = "simulation.gif"
	defaultSubsteps = 1
)

type TickMsg time.Time

type Options struct {
	Title         string
	Dt            float64
	StepsPerFrame int // Advance calls per frame tick
	Width, Height int
	Theme         string
	GIFPath       string
}

// Model drives a system one step at a time and draws it after every frame.
type Model struct {
	sys     dynamo.System
	drawer  Drawer
	opts    Options
	initial dynamo.State

	t     float64
	steps int

	canvas *Canvas
	view   View
	theme  Theme

	running  bool
	diverged bool

	energyHistory []float64
	initialEnergy float64

	recorder  *Recorder
	recording bool
	notice    string
}

func NewModel(sys dynamo.System, drawer Drawer, opts Options) Model {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = defaultSubsteps
	}
	if opts.GIFPath == "" {
		opts.GIFPath = defaultGIFPath
	}

	canvas := NewCanvas(opts.Width, opts.Height)
	view := NewView(canvas)
	view.Fit(drawer.Extent())

	m := Model{
		sys:           sys,
		drawer:        drawer,
		opts:          opts,
		initial:       sys.State(),
		canvas:        canvas,
		view:          view,
		theme:         GetTheme(opts.Theme),
		running:       true,
		energyHistory: make([]float64, 0, energyCapacity),
		recorder:      &Recorder{},
	}
	m.initialEnergy = m.energy()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			if !m.diverged {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			m.view.Zoom(zoomStep)
		case "-", "_":
			m.view.Zoom(1 / zoomStep)
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
			} else {
				m.recording = true
				m.recorder.Reset()
				m.notice = ""
			}
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		if m.recording {
			m.render()
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one frame worth of steps, stopping at the first non-finite
// state.
func (m *Model) advance() {
	for i := 0; i < m.opts.StepsPerFrame; i++ {
		m.sys.Advance(m.opts.Dt)
		m.t += m.opts.Dt
		m.steps++

		if !m.sys.State().IsValid() {
			m.diverged = true
			m.running = false
			return
		}
		m.drawer.Observe()
	}

	e := m.energy()
	if !math.IsNaN(e) && !math.IsInf(e, 0) {
		m.energyHistory = append(m.energyHistory, e)
		if len(m.energyHistory) > energyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}
}

func (m *Model) reset() {
	if err := m.sys.SetState(m.initial); err != nil {
		m.notice = err.Error()
		return
	}
	m.t = 0
	m.steps = 0
	m.diverged = false
	m.running = true
	m.energyHistory = m.energyHistory[:0]
	m.drawer.Reset()
}

func (m *Model) energy() float64 {
	if h, ok := m.sys.(dynamo.Hamiltonian); ok {
		return h.Energy()
	}
	return 0
}

func (m *Model) saveGIF() {
	if m.recorder.Len() == 0 {
		return
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		m.notice = err.Error()
		return
	}
	defer f.Close()

	if err := m.recorder.Encode(f); err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.opts.GIFPath)
	m.recorder.Reset()
}

func (m *Model) render() {
	m.canvas.Clear()
	if focus := m.drawer.Focus(); focus.IsFinite() {
		m.view.Center = focus
	}
	m.drawer.Draw(m.canvas, m.view, m.theme)
}

func (m Model) status() string {
	switch {
	case m.diverged:
		return statusStyle(m.theme.Error).Render("DIVERGED")
	case m.recording:
		return statusStyle(m.theme.Error).Render("● REC")
	case !m.running:
		return statusStyle(m.theme.Warning).Render("PAUSED")
	default:
		return statusStyle(m.theme.Primary).Render("RUNNING")
	}
}

func (m Model) View() string {
	m.render()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle(m.theme).Render(strings.ToUpper(m.opts.Title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3fs", m.t))
	row("Steps", fmt.Sprintf("%d", m.steps))
	row("dt", fmt.Sprintf("%g", m.opts.Dt))
	if _, ok := m.sys.(dynamo.Hamiltonian); ok {
		e := m.energy()
		row("Energy", fmt.Sprintf("%.6g", e))
		if m.initialEnergy != 0 {
			row("Drift", fmt.Sprintf("%.3e", math.Abs(e-m.initialEnergy)/math.Abs(m.initialEnergy)))
		}
	}
	row("Zoom", fmt.Sprintf("%.3g px/unit", m.view.Scale))
	row("Theme", m.theme.Name)

	labels := m.sys.StateLabels()
	x := m.sys.State()
	if len(x) <= 8 {
		s.WriteString("\n")
		for i, v := range x {
			if i < len(labels) {
				row(labels[i], fmt.Sprintf("%.4f", v))
			}
		}
	}

	if m.notice != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Accent).Render(m.notice) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Zoom T:Theme G:Record"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts the interactive view and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
