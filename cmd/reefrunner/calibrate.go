package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/console"
	"github.com/tidepool-robotics/reefrunner/pkg/hardware"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// minRange is the smallest span, in steps, shown as a usable range.
const minRange = 500

type CalibrateCommand struct {
	Config string `short:"c" long:"config" description:"Config file to update" default:"reefrunner.json"`
}

func (c *CalibrateCommand) Execute(args []string) error {
	ctx := context.Background()
	log := newLogger()

	cfg, err := robot.LoadConfigFrom(c.Config)
	if err != nil {
		return errors.Wrap(err, "run setup first")
	}
	hw, err := hardware.Open(ctx, cfg, robot.NewSystemClock(), log)
	if err != nil {
		return err
	}
	defer hw.Close()

	// Disable torque so the attachments can be moved by hand
	if err := hw.Relax(ctx); err != nil {
		return err
	}

	fmt.Println(console.SubHeaderStyle.Render("Record range of motion"))
	fmt.Println("Move each attachment to its minimum AND maximum positions.")
	fmt.Println()

	pos, err := hw.RawPositions(ctx)
	if err != nil {
		return err
	}
	model := newCalibrationModel(hw, pos)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return errors.Wrap(err, "run calibration")
	}

	cm := final.(calibrationModel)
	for _, name := range cm.motors {
		cal := cfg.Actuators[name]
		cal.RangeMin = cm.minPositions[name]
		cal.RangeMax = cm.maxPositions[name]
		cfg.Actuators[name] = cal
	}
	if err := cfg.SaveTo(c.Config); err != nil {
		return errors.Wrap(err, "save config")
	}
	fmt.Println(console.SuccessStyle.Render("Attachment ranges saved."))
	return nil
}

// positionReader reads raw actuator positions.
type positionReader interface {
	RawPositions(ctx context.Context) (map[robot.ActuatorName]int, error)
}

// Calibration TUI model
type calibrationModel struct {
	motors       []robot.ActuatorName
	reader       positionReader
	curPositions map[robot.ActuatorName]int
	minPositions map[robot.ActuatorName]int
	maxPositions map[robot.ActuatorName]int
	quitting     bool
}

type tickMsg time.Time

func newCalibrationModel(r positionReader, start map[robot.ActuatorName]int) calibrationModel {
	m := calibrationModel{
		motors:       []robot.ActuatorName{robot.Big, robot.Small},
		reader:       r,
		curPositions: make(map[robot.ActuatorName]int),
		minPositions: make(map[robot.ActuatorName]int),
		maxPositions: make(map[robot.ActuatorName]int),
	}
	for _, name := range m.motors {
		m.curPositions[name] = start[name]
		m.minPositions[name] = start[name]
		m.maxPositions[name] = start[name]
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m calibrationModel) Init() tea.Cmd {
	return tick()
}

func (m calibrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		pos, err := m.reader.RawPositions(context.Background())
		if err == nil {
			m.observe(pos)
		}
		return m, tick()
	}

	return m, nil
}

// observe widens the recorded ranges to include pos.
func (m calibrationModel) observe(pos map[robot.ActuatorName]int) {
	for _, name := range m.motors {
		p, ok := pos[name]
		if !ok {
			continue
		}
		m.curPositions[name] = p
		if p < m.minPositions[name] {
			m.minPositions[name] = p
		}
		if p > m.maxPositions[name] {
			m.maxPositions[name] = p
		}
	}
}

func (m calibrationModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableMotorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableCurrentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableRangeGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableRangeLowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, len(m.motors))
	ranges := make([]int, 0, len(m.motors))
	for _, name := range m.motors {
		span := m.maxPositions[name] - m.minPositions[name]
		ranges = append(ranges, span)
		rows = append(rows, []string{
			string(name),
			fmt.Sprintf("%d", m.curPositions[name]),
			fmt.Sprintf("%d", m.minPositions[name]),
			fmt.Sprintf("%d", m.maxPositions[name]),
			fmt.Sprintf("%d", span),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(console.DimStyle).
		Headers("Motor", "Current", "Min", "Max", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 0:
				return tableMotorStyle
			case 1:
				return tableCurrentStyle
			case 4:
				if row >= 0 && row < len(ranges) && ranges[row] > minRange {
					return tableRangeGoodStyle
				}
				return tableRangeLowStyle
			default:
				return tableCellStyle
			}
		})

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(console.DimStyle.Render("Press Enter when done"))

	return sb.String()
}
