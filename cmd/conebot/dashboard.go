package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/conebot/pkg/gamepad"
	"github.com/gwillem/conebot/pkg/opmode"
)

const (
	headerHeight = 2  // title + blank line
	legendHeight = 2  // legend row + blank
	footerHeight = 8  // log box + help line
	maxLogs      = 5  // number of log messages to show
	borderSize   = 2  // chart border
	tableWidth   = 38 // telemetry table
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	rumbleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201"))
	phaseStyles = map[opmode.Phase]lipgloss.Style{
		opmode.PhaseInit:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		opmode.PhaseRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		opmode.PhaseDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		opmode.PhaseStopped: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// series is one telemetry value plotted as a percentage of full.
type series struct {
	key   string
	label string
	color string
	full  float64
}

// teleopKeys maps keys to gamepad buttons.
var teleopKeys = map[string]gamepad.Button{
	"g":     gamepad.A,
	"x":     gamepad.B,
	"d":     gamepad.X,
	"3":     gamepad.Y,
	"2":     gamepad.RightBumper,
	"1":     gamepad.LeftBumper,
	"[":     gamepad.LeftBumper,
	"]":     gamepad.RightBumper,
	"up":    gamepad.DpadUp,
	"left":  gamepad.DpadLeft,
	"down":  gamepad.DpadDown,
	"right": gamepad.DpadRight,
}

const stickStep = 0.25

var stickKeys = map[string][2]float64{
	"i": {0, stickStep},
	"k": {0, -stickStep},
	"j": {-stickStep, 0},
	"l": {stickStep, 0},
}

type dashboardModel struct {
	title  string
	help   string
	ctrl   *opmode.Controller
	pad    *gamepad.Gamepad // nil when the op mode takes no input
	cone   *coneKey         // nil unless the claw sensor is keyed by hand
	logCh  <-chan string
	series []series

	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	status   opmode.Status
	quitting bool
}

// Messages from the controller
type statusMsg opmode.Status
type logMsg string

func waitForStatus(ctrl *opmode.Controller) tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-ctrl.Statuses())
	}
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ch)
	}
}

func newDashboard(title, help string, ctrl *opmode.Controller, logCh <-chan string, plotted []series) dashboardModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, 100),
	)
	for _, s := range plotted {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color))
		chart.SetDataSetStyles(s.key, runes.ThinLineStyle, style)
	}
	return dashboardModel{
		title:  title,
		help:   help,
		ctrl:   ctrl,
		logCh:  logCh,
		series: plotted,
		chart:  &chart,
	}
}

func (m *dashboardModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *dashboardModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - tableWidth - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *dashboardModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(
		waitForStatus(m.ctrl),
		waitForLog(m.logCh),
	)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		m.handleKey(msg.String())
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case statusMsg:
		m.status = opmode.Status(msg)
		if m.status.Phase != opmode.PhaseInit {
			for _, s := range m.series {
				if v, ok := m.status.Frame.Float(s.key); ok && s.full > 0 {
					m.chart.PushDataSet(s.key, v/s.full*100)
				}
			}
			m.chart.DrawAll()
		}
		if m.status.Error != nil {
			m.addLog(m.status.Error.Error())
		}
		return m, waitForStatus(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.logCh)
	}

	return m, nil
}

func (m *dashboardModel) handleKey(key string) {
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return
	case "enter", " ":
		m.ctrl.Begin()
		return
	case "c":
		if m.cone != nil {
			m.cone.Toggle()
		}
		return
	}

	if m.pad == nil {
		return
	}
	if b, ok := teleopKeys[key]; ok {
		m.pad.Press(b)
		return
	}
	if d, ok := stickKeys[key]; ok {
		m.pad.NudgeStick(d[0], d[1])
		return
	}
	if key == "o" {
		m.pad.SetStick(0, 0)
	}
}

func (m dashboardModel) View() string {
	if m.quitting {
		return fmt.Sprintf("%s stopped.\n", m.title)
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString(fmt.Sprintf(" - %d Hz ", m.ctrl.Hz()))
	phase := m.status.Phase
	if phase == "" {
		phase = opmode.PhaseInit
	}
	sb.WriteString(phaseStyles[phase].Render(strings.ToUpper(string(phase))))
	sb.WriteString(statusStyle.Render(fmt.Sprintf("  run %s  tick %d", m.ctrl.RunID()[:8], m.status.Tick)))
	if m.pad != nil && m.pad.Rumbling() {
		sb.WriteString("  " + rumbleStyle.Render("RUMBLE"))
	}
	sb.WriteString("\n\n")

	// Chart and telemetry side by side
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		chartStyle.Render(m.chart.View()),
		m.renderTelemetry(),
	))
	sb.WriteString("\n")

	sb.WriteString(m.renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("No log messages yet")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(m.help))
	sb.WriteString("\n")

	return sb.String()
}

func (m dashboardModel) renderTelemetry() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(m.status.Frame.Fields)+len(m.status.Frame.Lines))
	for _, f := range m.status.Frame.Fields {
		rows = append(rows, []string{f.Key, formatValue(f.Value)})
	}
	for _, line := range m.status.Frame.Lines {
		rows = append(rows, []string{"", line})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(statusStyle).
		Width(tableWidth).
		Headers("Telemetry", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return keyStyle
			}
			return cellStyle
		})
	return t.Render()
}

func (m dashboardModel) renderLegend() string {
	var items []string
	for _, s := range m.series {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color)).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+s.label)
	}
	return strings.Join(items, "  ")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", v)
	case time.Duration:
		return v.Truncate(10 * time.Millisecond).String()
	case bool:
		if v {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}
