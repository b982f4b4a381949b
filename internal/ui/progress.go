package ui

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ccgen/internal/pipeline"
)

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []stageItem
	index      map[pipeline.Stage]int
	stageLabel string
	width      int
	done       bool
}

type stageItem struct {
	stage  pipeline.Stage
	status pipeline.Status
	count  int
	err    error
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one row per
// pipeline stage. The model quits once events is closed.
func NewProgressModel(title string, stages []pipeline.Stage, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]stageItem, 0, len(stages))
	index := make(map[pipeline.Stage]int, len(stages))
	for i, st := range stages {
		items = append(items, stageItem{stage: st, status: pipeline.StatusQueued})
		index[st] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		status := statusLabel(item.stage, item.status)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(item.describe(), nameWidth)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (it stageItem) describe() string {
	name := string(it.stage)
	if it.err != nil {
		return fmt.Sprintf("%s: %v", name, it.err)
	}
	if it.count > 0 {
		return fmt.Sprintf("%s %s", name, countLabel(it.stage, it.count))
	}
	return name
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.Stage]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	it.status = ev.Status
	if ev.Count > 0 {
		it.count = ev.Count
	}
	it.err = ev.Err
	if ev.Status == pipeline.StatusWorking {
		m.stageLabel = stageLabel(ev.Stage)
	}
	return m.prog.SetPercent(m.fraction())
}

// fraction counts finished stages; a running stage counts as half.
func (m *progressModel) fraction() float64 {
	var halves uint64
	for _, it := range m.items {
		switch it.status {
		case pipeline.StatusDone, pipeline.StatusError:
			halves += 2
		case pipeline.StatusWorking:
			halves++
		}
	}
	n, err := safecast.Conv[uint64](len(m.items))
	if err != nil || n == 0 {
		return 0
	}
	return float64(halves) / float64(2*n)
}

func countLabel(stage pipeline.Stage, n int) string {
	switch stage {
	case pipeline.StageIndex:
		return fmt.Sprintf("(%d)", n)
	case pipeline.StageFilter:
		return fmt.Sprintf("(%d lines)", n)
	case pipeline.StageWrite:
		return fmt.Sprintf("(%d records)", n)
	default:
		return fmt.Sprintf("(%d)", n)
	}
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued:
		return "queued"
	case pipeline.StatusDone:
		return "done"
	case pipeline.StatusError:
		return "error"
	case pipeline.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageIndex:
		return "indexing"
	case pipeline.StageFilter:
		return "scanning"
	case pipeline.StageSanitize, pipeline.StageTokenize:
		return "splitting"
	case pipeline.StageSynthesize:
		return "resolving"
	case pipeline.StageWrite:
		return "writing"
	default:
		return ""
	}
}

func styleStatus(status pipeline.Status) lipgloss.Style {
	switch status {
	case pipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case pipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case pipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
