package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/thermal"
)

const (
	graphWidth      = 70
	graphHeight     = 12
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a heating run at the frame rate and renders the trace.
type Model struct {
	tank          *thermal.Tank
	state         thermal.State
	history       []float64
	steps         int
	stepsPerFrame int
	fps           int
	done          bool
	stalled       bool
}

func NewModel(tank *thermal.Tank, fps, stepsPerFrame int) Model {
	if fps <= 0 {
		fps = 30
	}
	if stepsPerFrame <= 0 {
		stepsPerFrame = 1
	}
	return Model{
		tank:          tank,
		state:         thermal.State{Temperature: tank.Params().InitialTemp},
		history:       []float64{tank.Params().InitialTemp},
		stepsPerFrame: stepsPerFrame,
		fps:           fps,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.fps)
}

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case TickMsg:
		if m.done {
			return m, nil
		}
		p := m.tank.Params()
		for i := 0; i < m.stepsPerFrame; i++ {
			if m.state.Temperature >= p.TargetTemp {
				m.done = true
				break
			}
			rise := m.tank.StepRise(p.TimeStep)
			m.state.Temperature += rise
			m.state.Elapsed += p.TimeStep
			m.steps++
			m.history = append(m.history, m.state.Temperature)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
			if rise <= 0 || !m.state.IsValid() {
				m.done = true
				m.stalled = true
				break
			}
		}
		if m.state.Temperature >= p.TargetTemp {
			m.done = true
		}
		return m, tickCmd(m.fps)
	}
	return m, nil
}

func (m Model) View() string {
	p := m.tank.Params()

	var b strings.Builder
	b.WriteString(headerStyle.Render("heatsim live"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("temperature", fmt.Sprintf("%.3f °C", m.state.Temperature))
	row("target", fmt.Sprintf("%.2f °C", p.TargetTemp))
	row("elapsed", fmt.Sprintf("%.0f s (%.2f min)", m.state.Elapsed, m.state.Elapsed/60))
	row("steps", fmt.Sprintf("%d", m.steps))
	row("power", fmt.Sprintf("%.0f W", m.tank.PowerOutput()))

	b.WriteString("\n")
	b.WriteString(barStyle.Render(progressBar(p.InitialTemp, p.TargetTemp, m.state.Temperature, 50)))
	b.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	if m.done {
		if m.stalled {
			b.WriteString(doneStyle.Render("stalled: no temperature rise"))
		} else {
			b.WriteString(doneStyle.Render("target reached"))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}

func progressBar(from, to, current float64, width int) string {
	frac := 0.0
	if to > from {
		frac = (current - from) / (to - from)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %3.0f%%", frac*100)
}
