// Package snapshottest provides ready-made circuit documents for tests.
package snapshottest

import "github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"

func b(v bool) *bool       { return &v }
func f(v float64) *float64 { return &v }

// LED is battery → switch → LED → battery with the switch set to on.
func LED(on bool) snapshot.Document {
	return snapshot.Document{
		Nodes: []snapshot.NodeDoc{
			{ID: "bat", Type: "battery"},
			{ID: "sw", Type: "rocker-switch", Data: snapshot.NodeData{IsOn: b(on)}},
			{ID: "led", Type: "led"},
		},
		Edges: []snapshot.EdgeDoc{
			{ID: "e1", Source: "bat", Target: "sw"},
			{ID: "e2", Source: "sw", Target: "led"},
			{ID: "e3", Source: "led", Target: "bat"},
		},
	}
}

// Vehicle is a complete, switched-on vehicle: a power feed bat → psw → mcu
// and a ground return from every component to the battery.
func Vehicle(throttle, steering float64) snapshot.Document {
	doc := snapshot.Document{
		Nodes: []snapshot.NodeDoc{
			{ID: "bat", Type: "battery"},
			{ID: "psw", Type: "rocker-switch", Data: snapshot.NodeData{Role: "power", IsOn: b(true)}},
			{ID: "dsw", Type: "rocker-switch", Data: snapshot.NodeData{Role: "direction"}},
			{ID: "brake", Type: "momentary-switch"},
			{ID: "thr", Type: "potentiometer", Data: snapshot.NodeData{Role: "throttle", Value: f(throttle)}},
			{ID: "spot", Type: "potentiometer", Data: snapshot.NodeData{Role: "steering", Value: f(steering)}},
			{ID: "drive", Type: "motor", Data: snapshot.NodeData{Role: "drive"}},
			{ID: "steer", Type: "motor", Data: snapshot.NodeData{Role: "steering"}},
			{ID: "mcu", Type: "microcontroller"},
			{ID: "fuel", Type: "fuel-gauge"},
		},
		Edges: []snapshot.EdgeDoc{
			{ID: "p1", Source: "bat", Target: "psw", TargetHandle: "power"},
			{ID: "p2", Source: "psw", Target: "mcu", TargetHandle: "power"},
		},
	}
	for i, src := range []string{"drive", "steer", "thr", "spot", "brake", "mcu", "fuel"} {
		doc.Edges = append(doc.Edges, snapshot.EdgeDoc{
			ID: "g" + string(rune('1'+i)), Source: src, Target: "bat", SourceHandle: "ground",
		})
	}
	return doc
}
