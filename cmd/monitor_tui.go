// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luxcraft/beamcast/pkg/dmx"
)

// monitorRefresh is the grid redraw period.
const monitorRefresh = 250 * time.Millisecond

// gridCols is how many channels one grid row shows.
const gridCols = 16

// Event log entry
type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Monitor model
type monitorModel struct {
	ctrl          *dmx.Controller
	frame         dmx.Frame
	status        dmx.Status
	selected      int // 1-based channel number
	editing       bool
	valueInput    textinput.Model
	eventLog      []monitorLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
}

// Messages
type monitorTickMsg time.Time
type engineEventMsg dmx.Event
type quitMsg struct{}

func initialMonitorModel(ctrl *dmx.Controller) monitorModel {
	ti := textinput.New()
	ti.Placeholder = "0"
	ti.CharLimit = 3
	ti.Width = 5

	return monitorModel{
		ctrl:          ctrl,
		frame:         ctrl.Universe().Snapshot(),
		status:        ctrl.Status(),
		selected:      1,
		valueInput:    ti,
		eventLog:      make([]monitorLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		tea.EnterAltScreen,
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(monitorRefresh, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case monitorTickMsg:
		m.frame = m.ctrl.Universe().Snapshot()
		m.status = m.ctrl.Status()
		return m, monitorTickCmd()

	case engineEventMsg:
		ev := dmx.Event(msg)
		if ev.Err != nil {
			m.addLogEntry(fmt.Sprintf("%s: %v", strings.ToUpper(ev.Type.String()), ev.Err), true)
		} else {
			m.addLogEntry(fmt.Sprintf("%s %s", ev.Type, ev.Endpoint), false)
		}

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m monitorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			m.commitEdit()
			return m, nil
		case "esc":
			m.editing = false
			m.valueInput.Blur()
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.valueInput, cmd = m.valueInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "left", "h":
		m.moveSelection(-1)
	case "right", "l":
		m.moveSelection(1)
	case "up", "k":
		m.moveSelection(-gridCols)
	case "down", "j":
		m.moveSelection(gridCols)

	case "enter":
		m.editing = true
		m.valueInput.SetValue("")
		m.valueInput.Placeholder = strconv.Itoa(int(m.frame.Channel(m.selected)))
		m.valueInput.Focus()

	case "b":
		m.ctrl.Blackout()
		m.addLogEntry("Blackout (all channels zeroed)", false)
	}

	return m, nil
}

func (m *monitorModel) moveSelection(delta int) {
	next := m.selected + delta
	if next < 1 {
		next = 1
	}
	if next > dmx.ChannelCount {
		next = dmx.ChannelCount
	}
	m.selected = next
}

func (m *monitorModel) commitEdit() {
	defer func() {
		m.editing = false
		m.valueInput.Blur()
	}()

	raw := strings.TrimSpace(m.valueInput.Value())
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Invalid value: %q", raw), true)
		return
	}
	if err := m.ctrl.SetChannel(m.selected, v); err != nil {
		m.addLogEntry(fmt.Sprintf("Set channel %d: %v", m.selected, err), true)
		return
	}
	m.frame = m.ctrl.Universe().Snapshot()
	m.addLogEntry(fmt.Sprintf("Channel %d = %d", m.selected, v), false)
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	entry := monitorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("12")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("BEAMCAST - MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | arrows=move enter=edit b=blackout q=quit",
		m.status.Endpoint)))
	s.WriteString("\n\n")

	// Link state
	stateStyle := errorStyle
	switch m.status.State {
	case dmx.StateConnected:
		stateStyle = valueStyle
	case dmx.StateConnecting, dmx.StateDegraded:
		stateStyle = warningStyle
	}
	s.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		labelStyle.Render("State:"), stateStyle.Render(m.status.State.String()),
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f/%d Hz", m.status.Stats.Rate, m.status.TargetRate)),
		labelStyle.Render("Frames:"), valueStyle.Render(fmt.Sprintf("%d (%d dropped)", m.status.Stats.Frames, m.status.Stats.Drops)),
		labelStyle.Render("Up:"), valueStyle.Render(m.status.Stats.Uptime.Round(time.Second).String()),
	))
	s.WriteString("\n")

	// Channel grid, scrolled so the selected row stays visible
	totalRows := dmx.ChannelCount / gridCols
	gridRows := m.height/2 - 7
	if gridRows < 4 {
		gridRows = 4
	}
	if gridRows > totalRows {
		gridRows = totalRows
	}

	selRow := (m.selected - 1) / gridCols
	firstRow := selRow - gridRows/2
	if firstRow < 0 {
		firstRow = 0
	}
	if firstRow > totalRows-gridRows {
		firstRow = totalRows - gridRows
	}

	grid := strings.Builder{}
	for row := firstRow; row < firstRow+gridRows; row++ {
		base := row*gridCols + 1
		grid.WriteString(headerStyle.Render(fmt.Sprintf("%3d:", base)))
		for col := 0; col < gridCols; col++ {
			ch := base + col
			v := m.frame.Channel(ch)
			cell := fmt.Sprintf(" %3d", v)
			switch {
			case ch == m.selected:
				grid.WriteString(selectedStyle.Render(cell))
			case v != 0:
				grid.WriteString(valueStyle.Render(cell))
			default:
				grid.WriteString(headerStyle.Render(cell))
			}
		}
		if row < firstRow+gridRows-1 {
			grid.WriteString("\n")
		}
	}
	s.WriteString(boxStyle.Render(grid.String()))
	s.WriteString("\n")

	// Edit prompt
	if m.editing {
		s.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render(fmt.Sprintf("Set channel %d:", m.selected)),
			m.valueInput.View(),
		))
	} else {
		s.WriteString(headerStyle.Render(fmt.Sprintf("Channel %d = %d", m.selected, m.frame.Channel(m.selected))))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - gridRows - 14
	if logHeight < 3 {
		logHeight = 3
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyle
			}
			logContent.WriteString(fmt.Sprintf("%s %s %s",
				headerStyle.Render(timestamp),
				style.Render(icon),
				entry.message))
			if i < len(m.eventLog)-1 {
				logContent.WriteString("\n")
			}
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
