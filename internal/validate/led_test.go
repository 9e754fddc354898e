package validate_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

func edge(id, from, to string) circuit.Edge {
	return circuit.Edge{ID: id, Source: from, Target: to}
}

func buildGraph(t *testing.T, nodes []circuit.Node, edges []circuit.Edge) *circuit.Graph {
	t.Helper()
	g, err := circuit.NewGraph(nodes, edges)
	if err != nil {
		t.Fatalf("NewGraph error: %v", err)
	}
	return g
}

// ledLoop builds battery → switch → LED → battery.
func ledLoop(t *testing.T, on bool) *circuit.Graph {
	t.Helper()
	sw := circuit.NewRockerSwitch("sw", circuit.RolePower)
	sw.IsOn = on
	return buildGraph(t,
		[]circuit.Node{circuit.NewBattery("bat"), sw, circuit.NewLED("led")},
		[]circuit.Edge{edge("e1", "bat", "sw"), edge("e2", "sw", "led"), edge("e3", "led", "bat")},
	)
}

func TestCircuit_Valid(t *testing.T) {
	res := validate.Circuit(ledLoop(t, true))

	want := validate.CircuitResult{
		IsValid:           true,
		Errors:            []string{},
		CompletedCircuits: []circuit.Path{{"bat", "sw", "led", "bat"}},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestCircuit_Rules(t *testing.T) {
	cases := []struct {
		name  string
		nodes []circuit.Node
		edges []circuit.Edge
		want  []string
	}{
		{
			name:  "no battery",
			nodes: []circuit.Node{circuit.NewLED("led"), circuit.NewRockerSwitch("sw", circuit.RolePower)},
			edges: []circuit.Edge{edge("e1", "led", "sw"), edge("e2", "sw", "led")},
			want:  []string{validate.ErrNoBattery},
		},
		{
			name:  "open circuit reports only the missing loop",
			nodes: []circuit.Node{circuit.NewBattery("bat"), circuit.NewLED("led")},
			edges: []circuit.Edge{edge("e1", "bat", "led")},
			want:  []string{validate.ErrNoCompleteCircuit},
		},
		{
			name:  "loop without LED",
			nodes: []circuit.Node{circuit.NewBattery("bat"), circuit.NewRockerSwitch("sw", circuit.RolePower)},
			edges: []circuit.Edge{edge("e1", "bat", "sw"), edge("e2", "sw", "bat")},
			want:  []string{validate.ErrNoLED},
		},
		{
			name:  "loop without switch",
			nodes: []circuit.Node{circuit.NewBattery("bat"), circuit.NewLED("led")},
			edges: []circuit.Edge{edge("e1", "bat", "led"), edge("e2", "led", "bat")},
			want:  []string{validate.ErrNoSwitch},
		},
		{
			name:  "loop through wire only",
			nodes: []circuit.Node{circuit.NewBattery("bat"), circuit.NewWire("w")},
			edges: []circuit.Edge{edge("e1", "bat", "w"), edge("e2", "w", "bat")},
			want:  []string{validate.ErrNoLED, validate.ErrNoSwitch},
		},
		{
			name:  "self edge is not a loop",
			nodes: []circuit.Node{circuit.NewBattery("bat")},
			edges: []circuit.Edge{edge("e1", "bat", "bat")},
			want:  []string{validate.ErrNoCompleteCircuit},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := validate.Circuit(buildGraph(t, tc.nodes, tc.edges))
			if res.IsValid {
				t.Error("expected invalid circuit")
			}
			if diff := cmp.Diff(tc.want, res.Errors); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCircuit_NoBatteryMentionsBattery(t *testing.T) {
	res := validate.Circuit(buildGraph(t, nil, nil))
	if res.IsValid || len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "battery") {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestCircuit_OneLoopPerBattery(t *testing.T) {
	sw := circuit.NewRockerSwitch("sw", circuit.RolePower)
	g := buildGraph(t,
		[]circuit.Node{circuit.NewBattery("b1"), circuit.NewBattery("b2"), sw, circuit.NewLED("led")},
		[]circuit.Edge{
			edge("e1", "b1", "sw"), edge("e2", "sw", "led"), edge("e3", "led", "b1"),
			edge("e4", "b2", "led"), edge("e5", "led", "b2"),
		},
	)
	res := validate.Circuit(g)
	want := []circuit.Path{{"b1", "sw", "led", "b1"}, {"b2", "led", "b2"}}
	if diff := cmp.Diff(want, res.CompletedCircuits); diff != "" {
		t.Errorf("circuits mismatch (-want +got):\n%s", diff)
	}
	// The switch only has to be in some circuit.
	if !res.IsValid {
		t.Errorf("expected valid, errors %v", res.Errors)
	}
}

func TestIsLEDOn(t *testing.T) {
	on := validate.Circuit(ledLoop(t, true))
	if !validate.IsLEDOn(ledLoop(t, true), on.CompletedCircuits[0]) {
		t.Error("LED should be on with the switch on")
	}
	off := ledLoop(t, false)
	if validate.IsLEDOn(off, validate.Circuit(off).CompletedCircuits[0]) {
		t.Error("LED should be off with the switch off")
	}
}

func TestIsLEDOn_NoSwitchIsAlwaysOn(t *testing.T) {
	g := buildGraph(t,
		[]circuit.Node{circuit.NewBattery("bat"), circuit.NewLED("led"), circuit.NewRockerSwitch("elsewhere", circuit.RolePower)},
		[]circuit.Edge{edge("e1", "bat", "led"), edge("e2", "led", "bat")},
	)
	if !validate.IsLEDOn(g, circuit.Path{"bat", "led", "bat"}) {
		t.Error("a loop without switches should always light")
	}
}

func TestIsLEDOn_AllSwitchesMustBeOn(t *testing.T) {
	a := circuit.NewRockerSwitch("a", circuit.RolePower)
	a.IsOn = true
	b := circuit.NewRockerSwitch("b", circuit.RolePower)
	g := buildGraph(t, []circuit.Node{circuit.NewBattery("bat"), a, b, circuit.NewLED("led")}, nil)
	loop := circuit.Path{"bat", "a", "b", "led", "bat"}

	if validate.IsLEDOn(g, loop) {
		t.Error("one open switch should keep the LED off")
	}
	b.IsOn = true
	if !validate.IsLEDOn(g, loop) {
		t.Error("all switches on should light the LED")
	}
}

func TestCircuit_Idempotent(t *testing.T) {
	g := ledLoop(t, true)
	if diff := cmp.Diff(validate.Circuit(g), validate.Circuit(g)); diff != "" {
		t.Errorf("second run differs:\n%s", diff)
	}
}
