package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/sim"
)

const (
	historyCapacity = 300
	frameInterval   = time.Second / 30
)

type TickMsg time.Time

// Model steps a system on every tick and shows its state, the number of
// right-hand side evaluations and a trace of the first component.
type Model struct {
	name         string
	sys          dynamo.Func
	stepper      sim.Stepper
	energy       func(dynamo.State) float64
	initialState dynamo.State
	state        dynamo.State
	dxdt         dynamo.State
	t0, t, dt    float64
	steps        int
	stepsPerTick int
	evals        uint64
	running      bool
	trace        []float64
	energyHist   []float64
	err          error
}

// NewModel prepares a live view. stepsPerTick below 1 is treated as 1.
func NewModel(name string, sys dynamo.Func, stepper sim.Stepper, x0 dynamo.State, t0, dt float64, stepsPerTick int) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return Model{
		name:         name,
		sys:          sys,
		stepper:      stepper,
		initialState: x0.Clone(),
		state:        x0.Clone(),
		dxdt:         make(dynamo.State, len(x0)),
		t0:           t0,
		t:            t0,
		dt:           dt,
		stepsPerTick: stepsPerTick,
		running:      true,
		trace:        make([]float64, 0, historyCapacity),
		energyHist:   make([]float64, 0, historyCapacity),
	}
}

// WithEnergy adds an energy chart.
func (m Model) WithEnergy(fn func(dynamo.State) float64) Model {
	m.energy = fn
	return m
}

func (m Model) Time() float64       { return m.t }
func (m Model) State() dynamo.State { return m.state.Clone() }
func (m Model) Running() bool       { return m.running }
func (m Model) Err() error          { return m.err }

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick && m.err == nil; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.evals++
	if err := m.sys(m.state, m.dxdt, m.t); err != nil {
		m.fail(err)
		return
	}
	if err := m.stepper.Step(m.sys, m.state, m.dxdt, m.t, m.state, m.dt); err != nil {
		m.fail(err)
		return
	}
	m.steps++
	m.t = m.t0 + float64(m.steps)*m.dt

	if !m.state.IsValid() {
		m.fail(dynamo.ErrInvalidState)
		return
	}

	if len(m.state) > 0 {
		m.trace = appendCapped(m.trace, m.state[0])
	}
	if m.energy != nil {
		m.energyHist = appendCapped(m.energyHist, m.energy(m.state))
	}
}

func (m *Model) fail(err error) {
	m.err = &dynamo.SimulationError{Step: m.steps, Time: m.t, State: m.state.Clone(), Wrapped: err}
	m.running = false
}

func (m *Model) reset() {
	m.state = m.initialState.Clone()
	m.t = m.t0
	m.steps = 0
	m.evals = 0
	m.trace = m.trace[:0]
	m.energyHist = m.energyHist[:0]
	m.err = nil
	m.running = true
	if r, ok := m.stepper.(interface{ Reset() }); ok {
		r.Reset()
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// evaluations adds the stepper's own system calls when it counts them.
func (m Model) evaluations() uint64 {
	if c, ok := m.stepper.(interface{ Evaluations() uint64 }); ok {
		return m.evals + c.Evaluations()
	}
	return m.evals
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(statusError.Render("ERROR") + " " + m.err.Error() + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("Evals") + valueStyle.Render(fmt.Sprintf("%d", m.evaluations())) + "\n")
	for i, v := range m.state {
		if i == MaxPlots {
			s.WriteString(labelStyle.Render("...") + valueStyle.Render(fmt.Sprintf("%d more", len(m.state)-i)) + "\n")
			break
		}
		s.WriteString(labelStyle.Render(fmt.Sprintf("x%d", i)) + valueStyle.Render(fmt.Sprintf("% .6f", v)) + "\n")
	}

	stats := panelStyle.Render(s.String())

	charts := make([]string, 0, 2)
	if len(m.trace) > 1 {
		charts = append(charts, graphStyle.Render(asciigraph.Plot(m.trace,
			asciigraph.Height(8), asciigraph.Width(50), asciigraph.Caption("x0"))))
	}
	if len(m.energyHist) > 1 {
		charts = append(charts, graphStyle.Render(asciigraph.Plot(m.energyHist,
			asciigraph.Height(4), asciigraph.Width(50), asciigraph.Caption("energy"))))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, stats, lipgloss.JoinVertical(lipgloss.Left, charts...))
	return view + "\n" + helpStyle.Render("SPACE:Pause  R:Reset  Q:Quit")
}
