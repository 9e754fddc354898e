package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

// memo caches outcomes by the structure of the validated graph. Entries are
// evicted oldest-first once size is reached.
type memo struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]memoEntry
	order   []uint64
}

type memoEntry struct {
	key     []byte
	outcome Outcome
}

// newMemo returns nil when size is not positive; a nil memo never hits.
func newMemo(size int) *memo {
	if size <= 0 {
		return nil
	}
	return &memo{size: size, entries: make(map[uint64]memoEntry, size)}
}

// memoKey serializes everything validation reads from a request.
func memoKey(variant validate.Variant, g *circuit.Graph) ([]byte, error) {
	key, err := json.Marshal(struct {
		Variant validate.Variant   `json:"variant"`
		Doc     *snapshot.Document `json:"doc"`
	}{variant, snapshot.EncodeGraph(g)})
	if err != nil {
		return nil, fmt.Errorf("memo key: %w", err)
	}
	return key, nil
}

func (m *memo) get(key []byte) (Outcome, bool) {
	if m == nil {
		return Outcome{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[xxhash.Sum64(key)]
	if !ok || !bytes.Equal(e.key, key) {
		return Outcome{}, false
	}
	return e.outcome.clone(), true
}

func (m *memo) put(key []byte, o Outcome) {
	if m == nil {
		return
	}
	h := xxhash.Sum64(key)
	o = o.clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[h]; !ok {
		if len(m.order) >= m.size {
			delete(m.entries, m.order[0])
			m.order = m.order[1:]
		}
		m.order = append(m.order, h)
	}
	m.entries[h] = memoEntry{key: key, outcome: o}
}

func (m *memo) count() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// clone copies every slice and pointer reachable from o so callers holding a
// cached outcome cannot alter the stored one or each other's.
func (o Outcome) clone() Outcome {
	if o.Circuit != nil {
		c := cloneResult(*o.Circuit)
		o.Circuit = &c
	}
	if o.Vehicle != nil {
		v := *o.Vehicle
		v.CircuitResult = cloneResult(v.CircuitResult)
		o.Vehicle = &v
	}
	o.LEDs = slices.Clone(o.LEDs)
	if o.Nodes != nil {
		nodes := make([]snapshot.NodeDoc, len(o.Nodes))
		for i, n := range o.Nodes {
			n.Data = cloneNodeData(n.Data)
			nodes[i] = n
		}
		o.Nodes = nodes
	}
	return o
}

func cloneResult(r validate.CircuitResult) validate.CircuitResult {
	r.Errors = slices.Clone(r.Errors)
	if r.CompletedCircuits != nil {
		paths := make([]circuit.Path, len(r.CompletedCircuits))
		for i, p := range r.CompletedCircuits {
			paths[i] = slices.Clone(p)
		}
		r.CompletedCircuits = paths
	}
	return r
}

func cloneNodeData(d snapshot.NodeData) snapshot.NodeData {
	d.IsOn = clonePtr(d.IsOn)
	d.IsPressed = clonePtr(d.IsPressed)
	d.Value = clonePtr(d.Value)
	d.FuelLevel = clonePtr(d.FuelLevel)
	d.IsRunning = clonePtr(d.IsRunning)
	d.Speed = clonePtr(d.Speed)
	d.IsActive = clonePtr(d.IsActive)
	d.ThrottleValue = clonePtr(d.ThrottleValue)
	d.SteeringValue = clonePtr(d.SteeringValue)
	d.BrakeActive = clonePtr(d.BrakeActive)
	d.DirectionForward = clonePtr(d.DirectionForward)
	return d
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
