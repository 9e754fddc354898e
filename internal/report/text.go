package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
	"github.com/gyaneshwarpardhi/circuitlab/internal/engine"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00")).
		Bold(true)

	badStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF0000")).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))
)

// Text is the terminal renderer.
type Text struct{}

func (Text) Name() string { return "text" }

func (Text) Outcome(w io.Writer, o *engine.Outcome) error {
	var b strings.Builder

	verdict := badStyle.Render("INVALID")
	if o.Valid() {
		verdict = okStyle.Render("VALID")
	}
	cached := ""
	if o.Cached {
		cached = " (cached)"
	}
	fmt.Fprintf(&b, "%s %s%s\n", titleStyle.Render(fmt.Sprintf("%s circuit", o.Variant)), verdict, cached)

	var circuits []circuit.Path
	switch {
	case o.Vehicle != nil:
		circuits = o.Vehicle.CompletedCircuits
	case o.Circuit != nil:
		circuits = o.Circuit.CompletedCircuits
	}

	fmt.Fprintf(&b, "Completed circuits: %d\n", len(circuits))
	for i, p := range circuits {
		line := fmt.Sprintf("  %d. %s", i+1, strings.Join(p, " -> "))
		if i < len(o.LEDs) {
			if o.LEDs[i] {
				line += "  " + okStyle.Render("[LED on]")
			} else {
				line += "  " + dimStyle.Render("[LED off]")
			}
		}
		b.WriteString(line + "\n")
	}

	if errs := o.Errors(); len(errs) > 0 {
		b.WriteString("Errors:\n")
		for _, e := range errs {
			fmt.Fprintf(&b, "  - %s\n", badStyle.Render(e))
		}
	}

	if v := o.Vehicle; v != nil {
		b.WriteString(vehicleLine(v) + "\n")
	}

	fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("run %s in %.3fms", o.RunID, o.DurationMs)))
	_, err := io.WriteString(w, b.String())
	return err
}

func vehicleLine(v *validate.VehicleResult) string {
	onOff := func(on bool, yes, no string) string {
		if on {
			return yes
		}
		return no
	}
	if !v.PowerStatus {
		return "Power: off"
	}
	d := v.DriveMotorStatus
	drive := "stopped"
	if d.IsRunning {
		drive = fmt.Sprintf("running %.0f %s", d.Speed, d.Direction)
	}
	steer := "idle"
	if v.SteeringMotorStatus.IsRunning {
		steer = string(v.SteeringMotorStatus.Position)
	}
	return fmt.Sprintf("Power: on | Drive: %s | Steering: %s | Brake: %s | Fuel: %.0f",
		drive, steer, onOff(v.BrakeStatus, "pressed", "released"), v.FuelLevel)
}

func (Text) Puzzles(w io.Writer, reports []engine.PuzzleReport) error {
	idWidth := len("PUZZLE")
	for _, r := range reports {
		if len(r.ID) > idWidth {
			idWidth = len(r.ID)
		}
	}
	idCol := lipgloss.NewStyle().Width(idWidth + 2)
	statusCol := lipgloss.NewStyle().Width(10)

	var b strings.Builder
	b.WriteString(titleStyle.Render(idCol.Render("PUZZLE")+statusCol.Render("STATUS")+"DETAIL") + "\n")
	solved := 0
	for _, r := range reports {
		var status, detail string
		switch r.Status {
		case engine.StatusSolved:
			solved++
			status = okStyle.Render(string(r.Status))
			detail = r.Goal
		case engine.StatusUnsolved:
			status = badStyle.Render(string(r.Status))
			detail = r.Goal
			if r.Outcome != nil && len(r.Outcome.Errors()) > 0 {
				detail = strings.Join(r.Outcome.Errors(), "; ")
			}
		default:
			status = badStyle.Render(string(r.Status))
			detail = r.Error
		}
		if detail == "" {
			detail = dimStyle.Render("(validates)")
		}
		b.WriteString(idCol.Render(r.ID) + statusCol.Render(status) + detail + "\n")
	}
	fmt.Fprintf(&b, "%d/%d solved\n", solved, len(reports))
	_, err := io.WriteString(w, b.String())
	return err
}
