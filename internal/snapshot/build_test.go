package snapshot_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

const ledYAML = `
nodes:
  - id: bat
    type: battery
    data: {label: 9V Battery}
  - id: sw
    type: rocker-switch
    data: {role: power, isOn: true}
  - id: led
    type: led
edges:
  - {id: e1, source: bat, target: sw}
  - {id: e2, source: sw, target: led}
  - {id: e3, source: led, target: bat}
`

func TestBuild_YAML(t *testing.T) {
	doc, err := snapshot.Decode([]byte(ledYAML), snapshot.FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g, err := snapshot.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 3 {
		t.Fatalf("graph has %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if g.Node("bat").Label() != "9V Battery" {
		t.Errorf("label = %q", g.Node("bat").Label())
	}
	sw, ok := g.Node("sw").(*circuit.RockerSwitch)
	if !ok || !sw.IsOn || sw.Role != circuit.RolePower {
		t.Errorf("switch decoded as %#v", g.Node("sw"))
	}
	if res := validate.Circuit(g); !res.IsValid {
		t.Errorf("decoded circuit should be valid: %v", res.Errors)
	}
}

func TestBuild_JSONDefaultsAndClamping(t *testing.T) {
	const data = `{
	  "nodes": [
	    {"id": "steer", "type": "potentiometer", "data": {"role": "steering"}},
	    {"id": "thr", "type": "potentiometer", "data": {"role": "throttle", "value": 140}},
	    {"id": "zero", "type": "potentiometer", "data": {"role": "steering", "value": 0}},
	    {"id": "fuel", "type": "fuel-gauge", "data": {"fuelLevel": -5}},
	    {"id": "dir", "type": "rocker-switch", "data": {"role": "direction"}}
	  ],
	  "edges": []
	}`
	doc, err := snapshot.Decode([]byte(data), snapshot.FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g, err := snapshot.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cases := []struct {
		id   string
		got  float64
		want float64
	}{
		{"steer", g.Node("steer").(*circuit.Potentiometer).Value, 50},
		{"thr", g.Node("thr").(*circuit.Potentiometer).Value, 100},
		{"zero", g.Node("zero").(*circuit.Potentiometer).Value, 0},
		{"fuel", g.Node("fuel").(*circuit.FuelGauge).FuelLevel, 0},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.id, tc.got, tc.want)
		}
	}
	if !g.Node("dir").(*circuit.RockerSwitch).IsOn {
		t.Error("direction switch without isOn should default to forward")
	}
}

func TestBuild_NonFiniteReadingsKeepDefaults(t *testing.T) {
	const data = `
nodes:
  - {id: thr, type: potentiometer, data: {role: throttle, value: .nan}}
  - {id: spot, type: potentiometer, data: {role: steering, value: -.inf}}
  - {id: fuel, type: fuel-gauge, data: {fuelLevel: .nan}}
  - {id: drive, type: motor, data: {role: drive, speed: .inf}}
  - {id: mcu, type: microcontroller, data: {throttleValue: .nan, fuelLevel: .inf}}
edges: []
`
	doc, err := snapshot.Decode([]byte(data), snapshot.FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g, err := snapshot.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	mc := g.Node("mcu").(*circuit.Microcontroller)
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"throttle", g.Node("thr").(*circuit.Potentiometer).Value, 0},
		{"steering", g.Node("spot").(*circuit.Potentiometer).Value, 50},
		{"fuel", g.Node("fuel").(*circuit.FuelGauge).FuelLevel, 100},
		{"speed", g.Node("drive").(*circuit.Motor).Speed, 0},
		{"mcu throttle", mc.ThrottleValue, 0},
		{"mcu fuel", mc.FuelLevel, 100},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}

	// The rebuilt document must stay encodable.
	if _, err := json.Marshal(snapshot.EncodeGraph(g)); err != nil {
		t.Errorf("encode after build: %v", err)
	}
}

func TestBuild_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		doc     snapshot.Document
		wantSub string
		wantErr error
	}{
		{
			name:    "unknown kind",
			doc:     snapshot.Document{Nodes: []snapshot.NodeDoc{{ID: "x", Type: "capacitor"}}},
			wantSub: "capacitor",
		},
		{
			name:    "missing id",
			doc:     snapshot.Document{Nodes: []snapshot.NodeDoc{{Type: "battery"}}},
			wantSub: "required",
		},
		{
			name:    "bad role",
			doc:     snapshot.Document{Nodes: []snapshot.NodeDoc{{ID: "m", Type: "motor", Data: snapshot.NodeData{Role: "throttle"}}}},
			wantSub: "not a valid role for motor",
		},
		{
			name:    "role on a battery",
			doc:     snapshot.Document{Nodes: []snapshot.NodeDoc{{ID: "b", Type: "battery", Data: snapshot.NodeData{Role: "power"}}}},
			wantSub: "takes no role",
		},
		{
			name: "dangling edge",
			doc: snapshot.Document{
				Nodes: []snapshot.NodeDoc{{ID: "b", Type: "battery"}},
				Edges: []snapshot.EdgeDoc{{ID: "e1", Source: "b", Target: "ghost"}},
			},
			wantErr: circuit.ErrDanglingEdge,
		},
		{
			name: "duplicate node",
			doc: snapshot.Document{
				Nodes: []snapshot.NodeDoc{{ID: "b", Type: "battery"}, {ID: "b", Type: "led"}},
			},
			wantErr: circuit.ErrDuplicateNode,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := snapshot.Build(&tc.doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantSub != "" && !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("err %q should contain %q", err, tc.wantSub)
			}
		})
	}
}

func TestEncodeGraph_RoundTrip(t *testing.T) {
	doc, err := snapshot.Decode([]byte(ledYAML), snapshot.FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g, err := snapshot.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	again, err := snapshot.Build(snapshot.EncodeGraph(g))
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if diff := cmp.Diff(snapshot.EncodeGraph(g), snapshot.EncodeGraph(again)); diff != "" {
		t.Errorf("round trip changed the circuit (-first +second):\n%s", diff)
	}
}

func TestLoad_PicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "led.yaml")
	if err := os.WriteFile(path, []byte(ledYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	doc, err := snapshot.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("nodes = %d", len(doc.Nodes))
	}
	if _, err := snapshot.Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestBuild_RoleIsOptional(t *testing.T) {
	doc := snapshot.Document{Nodes: []snapshot.NodeDoc{
		{ID: "sw", Type: "rocker-switch"},
		{ID: "m", Type: "motor"},
	}}
	g, err := snapshot.Build(&doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sw := g.Node("sw").(*circuit.RockerSwitch)
	if sw.Role != "" || sw.IsOn {
		t.Errorf("generic switch decoded as %#v", sw)
	}
}
