package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/gwillem/conebot/pkg/config"
	"github.com/gwillem/conebot/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct {
	SkipCalibration bool `long:"skip-calibration" description:"Only pick the backend and port"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Conebot Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := config.LoadFrom(opts.Config)
	if err != nil {
		return err
	}

	port := choosePort(findBuses())
	if port == "" {
		cfg.Backend = config.BackendSim
		cfg.Port = ""
	} else {
		cfg.Backend = config.BackendFeetech
		cfg.Port = port
		if !c.SkipCalibration {
			fmt.Println()
			fmt.Println(subHeaderStyle.Render("━━━ Calibrating Joints ━━━"))
			fmt.Println()
			cal, err := calibrate(port)
			if err != nil {
				return fmt.Errorf("calibrate: %w", err)
			}
			cfg.Calibration = cal
		}
	}

	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s (backend: %s)\n", opts.Config, cfg.Backend)
	fmt.Println()
	fmt.Println("Start a run with: " + headerStyle.Render("conebot auto") + " or " + headerStyle.Render("conebot teleop"))

	return nil
}

// findBuses lists serial ports with a servo on every joint ID.
func findBuses() []string {
	fmt.Println("Scanning for servo buses...")
	fmt.Println()

	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var found []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		servos, err := robot.Scan(ctx, port)
		cancel()
		if err != nil {
			continue
		}

		if robot.Complete(servos) {
			fmt.Printf("  Found conebot servo bus on %s\n", port)
			found = append(found, port)
		} else if len(servos) > 0 {
			fmt.Printf("  %s has %d servo(s), expected IDs 1-%d\n", port, len(servos), len(robot.AllJoints()))
		}
	}
	return found
}

// choosePort asks which bus to use. An empty result selects the
// simulation.
func choosePort(ports []string) string {
	if len(ports) == 0 {
		fmt.Println("No servo bus found, using the simulation.")
		return ""
	}

	options := make([]huh.Option[string], 0, len(ports)+1)
	for _, p := range ports {
		options = append(options, huh.NewOption(p, p))
	}
	options = append(options, huh.NewOption("Simulation (no hardware)", ""))

	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which bus drives the robot?").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return port
}

func calibrate(port string) (robot.Calibration, error) {
	fmt.Printf("Calibrating joints on %s\n", port)
	fmt.Println()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	found, err := bus.Scan(ctx, 1, len(robot.AllJoints()))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	byID := make(map[int]feetech.FoundServo, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	bg := context.Background()
	joints := robot.AllJoints()
	servos := make([]*feetech.Servo, len(joints))
	sweeps := make([]jointSweep, len(joints))
	for i, name := range joints {
		id := i + 1
		fs, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("no servo with ID %d for %s", id, name)
		}
		servos[i] = feetech.NewServo(bus, id, fs.Model)
		// Torque off so the mechanisms can be moved by hand
		servos[i].Disable(bg)

		sweeps[i] = jointSweep{name: name}
		if pos, err := servos[i].Position(bg); err == nil {
			sweeps[i].observe(pos)
		}
	}

	fmt.Println(subHeaderStyle.Render("Record range of motion"))
	fmt.Println("Run both slides end to end, then open and close the grabber and")
	fmt.Println("the claw and swing the arm and the four-bar through their travel.")
	fmt.Println()

	finalModel, err := tea.NewProgram(calibrationModel{servos: servos, sweeps: sweeps}).Run()
	if err != nil {
		return nil, fmt.Errorf("run calibration: %w", err)
	}
	cm := finalModel.(calibrationModel)

	cal := make(robot.Calibration, len(joints))
	for i, sw := range cm.sweeps {
		cal[sw.name] = sw.calibration(i + 1)
		if !sw.ready() {
			fmt.Printf("  %s only moved %d ticks (want %d); rerun setup to redo it\n",
				sw.name, sw.travel(), sw.name.MinTravel())
		}
	}
	fmt.Println()
	fmt.Println("Joints calibrated.")
	return cal, nil
}

// jointSweep records the raw positions one joint passed through.
type jointSweep struct {
	name        robot.JointName
	cur, lo, hi int
	seen        bool
}

func (s *jointSweep) observe(pos int) {
	s.cur = pos
	if !s.seen {
		s.lo, s.hi, s.seen = pos, pos, true
		return
	}
	s.lo = min(s.lo, pos)
	s.hi = max(s.hi, pos)
}

func (s jointSweep) travel() int { return s.hi - s.lo }

func (s jointSweep) ready() bool { return s.seen && s.travel() >= s.name.MinTravel() }

func (s jointSweep) calibration(id int) robot.MotorCalibration {
	return robot.MotorCalibration{ID: id, RangeMin: s.lo, RangeMax: s.hi}
}

// calibrationModel polls every joint and shows how far each has swept.
type calibrationModel struct {
	servos   []*feetech.Servo
	sweeps   []jointSweep
	quitting bool
}

type sweepMsg struct{}

func pollSweep() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return sweepMsg{}
	})
}

func (m calibrationModel) Init() tea.Cmd {
	return pollSweep()
}

func (m calibrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case sweepMsg:
		ctx := context.Background()
		for i, servo := range m.servos {
			if pos, err := servo.Position(ctx); err == nil {
				m.sweeps[i].observe(pos)
			}
		}
		return m, pollSweep()
	}
	return m, nil
}

func (m calibrationModel) readyCount() int {
	n := 0
	for _, s := range m.sweeps {
		if s.ready() {
			n++
		}
	}
	return n
}

var (
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	sweepHeader  = cellStyle.Bold(true).Foreground(lipgloss.Color("12"))
	sweepJoint   = cellStyle.Foreground(lipgloss.Color("14"))
	sweepCurrent = cellStyle.Foreground(lipgloss.Color("11"))
	sweepOK      = cellStyle.Foreground(lipgloss.Color("10"))
	sweepShort   = cellStyle.Foreground(lipgloss.Color("9"))
)

func (m calibrationModel) View() string {
	if m.quitting {
		return ""
	}

	rows := make([][]string, 0, len(m.sweeps))
	for _, s := range m.sweeps {
		kind := "servo"
		if s.name.IsSlide() {
			kind = "slide"
		}
		status := "move"
		if s.ready() {
			status = "ok"
		}
		rows = append(rows, []string{
			string(s.name),
			kind,
			fmt.Sprintf("%d", s.cur),
			fmt.Sprintf("%d-%d", s.lo, s.hi),
			fmt.Sprintf("%d/%d", s.travel(), s.name.MinTravel()),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Joint", "Kind", "Now", "Range", "Travel", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return sweepHeader
			}
			switch col {
			case 0:
				return sweepJoint
			case 2:
				return sweepCurrent
			case 4, 5:
				if row >= 0 && row < len(m.sweeps) && m.sweeps[row].ready() {
					return sweepOK
				}
				return sweepShort
			}
			return cellStyle
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("%d/%d joints swept  ", m.readyCount(), len(m.sweeps)))
	sb.WriteString(dimStyle.Render("Press Enter when done"))
	return sb.String()
}
