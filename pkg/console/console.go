// Package console stands in for the hub's display, light and menu buttons
// on a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/menu"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

var (
	HeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	SubHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	numberStyle    = lipgloss.NewStyle().Bold(true).Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

// lightColors maps status colors to terminal colors.
var lightColors = map[robot.Color]string{
	robot.ColorOff:    "238",
	robot.ColorGreen:  "46",
	robot.ColorYellow: "226",
	robot.ColorRed:    "196",
	robot.ColorBlue:   "33",
}

// Hub renders the display and status light to a terminal.
type Hub struct {
	mu  sync.Mutex
	out io.Writer

	light robot.Color
}

// NewHub creates a hub writing to out.
func NewHub(out io.Writer) *Hub {
	return &Hub{out: out, light: robot.ColorOff}
}

func (h *Hub) println(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.out, s)
}

func (h *Hub) ShowNumber(n int) {
	h.println(numberStyle.Render(fmt.Sprintf("%d", n)))
}

func (h *Hub) Clear() {}

// PlayAnimation shows the first frame. A terminal has no background
// display loop, so the remaining frames are not cycled.
func (h *Hub) PlayAnimation(frames []robot.Matrix, frameDelay time.Duration) {
	if len(frames) == 0 {
		return
	}
	h.println(RenderMatrix(frames[0]))
}

func (h *Hub) SetLight(c robot.Color) {
	h.mu.Lock()
	h.light = c
	h.mu.Unlock()
	h.println(RenderLight(c))
}

// Light returns the current status light color.
func (h *Hub) Light() robot.Color {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.light
}

// RenderLight renders the status light.
func RenderLight(c robot.Color) string {
	code, ok := lightColors[c]
	if !ok {
		code = lightColors[robot.ColorOff]
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Render("●")
	return dot + " " + DimStyle.Render(string(c))
}

// RenderMatrix renders a display frame as shaded blocks.
func RenderMatrix(m robot.Matrix) string {
	var sb strings.Builder
	for i, row := range m {
		for _, v := range row {
			sb.WriteString(pixelStyle(v).Render("██"))
		}
		if i < len(m)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// pixelStyle maps brightness 0-100 onto the 24-step grayscale ramp.
func pixelStyle(brightness int) lipgloss.Style {
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}
	shade := 232 + brightness*23/100
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("%d", shade)))
}

// Prompter shows the run menu as a huh select.
type Prompter struct{}

var _ menu.Prompter = Prompter{}

func (Prompter) Prompt(ctx context.Context, options []menu.Token) (menu.Token, error) {
	opts := make([]huh.Option[menu.Token], 0, len(options))
	for _, t := range options {
		opts = append(opts, huh.NewOption(optionLabel(t), t))
	}

	var choice menu.Token
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[menu.Token]().
				Title("Select run").
				Options(opts...).
				Value(&choice),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return 0, errors.Wrap(err, "run menu")
	}
	return choice, nil
}

func optionLabel(t menu.Token) string {
	if t == menu.Idle {
		return "C  clean motors"
	}
	return fmt.Sprintf("%s  run %d", t, t.Run())
}
