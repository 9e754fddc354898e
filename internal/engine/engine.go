// Package engine runs validation requests on a bounded worker pool and checks
// puzzle libraries against their goals.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
	"github.com/gyaneshwarpardhi/circuitlab/internal/config"
	"github.com/gyaneshwarpardhi/circuitlab/internal/goal"
	"github.com/gyaneshwarpardhi/circuitlab/internal/logging"
	"github.com/gyaneshwarpardhi/circuitlab/internal/metrics"
	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

// ErrQueueFull is returned when a request cannot be enqueued.
var ErrQueueFull = errors.New("request queue full")

// Request asks for one graph to be validated under a variant.
type Request struct {
	ID      string
	Variant validate.Variant
	Graph   *circuit.Graph
}

// Outcome is the result of one validation run. Exactly one of Circuit and
// Vehicle is set.
type Outcome struct {
	RunID      string                  `json:"runId" yaml:"runId"`
	RequestID  string                  `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	Variant    validate.Variant        `json:"variant" yaml:"variant"`
	Circuit    *validate.CircuitResult `json:"circuit,omitempty" yaml:"circuit,omitempty"`
	LEDs       []bool                  `json:"ledOn,omitempty" yaml:"ledOn,omitempty"` // per completed circuit
	Vehicle    *validate.VehicleResult `json:"vehicle,omitempty" yaml:"vehicle,omitempty"`
	Nodes      []snapshot.NodeDoc      `json:"nodes,omitempty" yaml:"nodes,omitempty"` // vehicle render state
	DurationMs float64                 `json:"durationMs" yaml:"durationMs"`
	Cached     bool                    `json:"cached" yaml:"cached"`
}

// Valid reports the IsValid flag of whichever result is set.
func (o *Outcome) Valid() bool {
	switch {
	case o.Vehicle != nil:
		return o.Vehicle.IsValid
	case o.Circuit != nil:
		return o.Circuit.IsValid
	}
	return false
}

// Errors returns the rule violations of whichever result is set.
func (o *Outcome) Errors() []string {
	switch {
	case o.Vehicle != nil:
		return o.Vehicle.Errors
	case o.Circuit != nil:
		return o.Circuit.Errors
	}
	return nil
}

// Engine validates circuits on a worker pool.
type Engine struct {
	pool   *workerPool[Request, *Outcome]
	memo   *memo
	conf   config.EngineConf
	logger *slog.Logger
}

// New creates an Engine using conf and starts its workers. Workers stop when
// ctx is cancelled or Shutdown is called.
func New(ctx context.Context, conf config.EngineConf, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if conf.Workers < 1 {
		conf.Workers = 1
	}
	if conf.QueueDepth < 1 {
		conf.QueueDepth = 1
	}
	e := &Engine{
		memo:   newMemo(conf.CacheSize),
		conf:   conf,
		logger: logger,
	}
	e.pool = newWorkerPool[Request, *Outcome](ctx, conf.Workers, conf.QueueDepth, e.process)
	return e
}

func (e *Engine) timeout() time.Duration {
	if e.conf.TimeoutMs <= 0 {
		return 0
	}
	return time.Duration(e.conf.TimeoutMs) * time.Millisecond
}

// Validate runs req and waits for the outcome. It fails fast with
// ErrQueueFull when the queue has no room.
func (e *Engine) Validate(ctx context.Context, req Request) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	replyC := make(chan reply, 1)
	if !e.pool.Submit(req, replyTo(replyC)) {
		metrics.RequestsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.QueueCap())
	}
	e.observeQueue()
	return e.await(ctx, replyC)
}

// Submit enqueues req for background validation; fn, if set, receives the
// outcome on a worker goroutine. Returns false if the queue is full.
func (e *Engine) Submit(req Request, fn func(*Outcome, error)) bool {
	if !e.pool.Submit(req, fn) {
		metrics.RequestsDropped.Inc()
		return false
	}
	e.observeQueue()
	return true
}

type reply struct {
	o   *Outcome
	err error
}

func replyTo(c chan<- reply) func(*Outcome, error) {
	return func(o *Outcome, err error) { c <- reply{o, err} }
}

// await waits for a reply, bounded by the configured timeout and ctx.
func (e *Engine) await(ctx context.Context, replyC <-chan reply) (*Outcome, error) {
	var timeoutC <-chan time.Time
	if d := e.timeout(); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeoutC = t.C
	}
	select {
	case r := <-replyC:
		return r.o, r.err
	case <-timeoutC:
		return nil, fmt.Errorf("validation timeout after %v", e.timeout())
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// QueueUtilization returns queue used / capacity (0-1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

func (e *Engine) observeQueue() {
	metrics.QueueUtilization.Set(e.QueueUtilization())
}

// Shutdown stops accepting requests and waits for queued ones to finish.
func (e *Engine) Shutdown() {
	e.pool.Drain()
	e.observeQueue()
}

func (e *Engine) process(ctx context.Context, req Request) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Graph == nil {
		return nil, fmt.Errorf("request %q: nil graph", req.ID)
	}
	if _, err := validate.ParseVariant(string(req.Variant)); err != nil {
		return nil, fmt.Errorf("request %q: %w", req.ID, err)
	}
	start := time.Now()
	logger := e.logger.With("request", req.ID, "variant", req.Variant)

	var key []byte
	if e.memo != nil {
		k, err := memoKey(req.Variant, req.Graph)
		if err != nil {
			return nil, err
		}
		key = k
		if o, ok := e.memo.get(key); ok {
			metrics.CacheHits.Inc()
			o.RunID = uuid.NewString()
			o.RequestID = req.ID
			o.Cached = true
			o.DurationMs = msSince(start)
			e.record(ctx, logger, &o)
			return &o, nil
		}
		metrics.CacheMisses.Inc()
	}

	o := &Outcome{RequestID: req.ID, Variant: req.Variant}
	switch req.Variant {
	case validate.VariantLED:
		res := validate.Circuit(req.Graph)
		o.Circuit = &res
		o.LEDs = make([]bool, len(res.CompletedCircuits))
		for i, p := range res.CompletedCircuits {
			o.LEDs[i] = validate.IsLEDOn(req.Graph, p)
		}
	case validate.VariantVehicle:
		res := validate.Vehicle(req.Graph)
		o.Vehicle = &res
		o.Nodes = snapshot.Encode(validate.UpdateVehicleNodes(req.Graph.Nodes(), res))
	}
	if e.memo != nil {
		e.memo.put(key, *o)
	}
	o.RunID = uuid.NewString()
	o.DurationMs = msSince(start)

	e.record(ctx, logger, o)
	return o, nil
}

func (e *Engine) record(ctx context.Context, logger *slog.Logger, o *Outcome) {
	outcome := "invalid"
	if o.Valid() {
		outcome = "valid"
	}
	metrics.Validations.WithLabelValues(string(o.Variant), outcome).Inc()
	metrics.ValidationDuration.Observe(o.DurationMs)
	var circuits []circuit.Path
	if o.Vehicle != nil {
		circuits = o.Vehicle.CompletedCircuits
	} else if o.Circuit != nil {
		circuits = o.Circuit.CompletedCircuits
	}
	metrics.CircuitsDiscovered.Add(float64(len(circuits)))
	for _, msg := range o.Errors() {
		metrics.RuleViolations.WithLabelValues(msg).Inc()
	}

	logger.Debug("validation finished",
		"run", o.RunID, "outcome", outcome, "circuits", len(circuits),
		"errors", len(o.Errors()), "cached", o.Cached, "duration_ms", o.DurationMs)
	for i, p := range circuits {
		logging.Trace(ctx, logger, "completed circuit", "index", i, "path", p)
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}

// PuzzleStatus classifies a checked puzzle.
type PuzzleStatus string

const (
	StatusSolved   PuzzleStatus = "solved"
	StatusUnsolved PuzzleStatus = "unsolved"
	StatusError    PuzzleStatus = "error"
)

// PuzzleReport is the result of checking one library entry.
type PuzzleReport struct {
	ID          string           `json:"id" yaml:"id"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Variant     validate.Variant `json:"variant" yaml:"variant"`
	Goal        string           `json:"goal,omitempty" yaml:"goal,omitempty"`
	Status      PuzzleStatus     `json:"status" yaml:"status"`
	Error       string           `json:"error,omitempty" yaml:"error,omitempty"`
	Facts       goal.Facts       `json:"facts,omitempty" yaml:"facts,omitempty"`
	Outcome     *Outcome         `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// CheckLibrary validates every puzzle and evaluates its goal. A puzzle with
// no goal is solved when its circuit is valid. Reports keep library order.
func (e *Engine) CheckLibrary(ctx context.Context, puzzles []config.Puzzle) []PuzzleReport {
	reports := make([]PuzzleReport, len(puzzles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.conf.Workers)
	for i, p := range puzzles {
		g.Go(func() error {
			reports[i] = e.checkPuzzle(gctx, p)
			return nil
		})
	}
	_ = g.Wait() // failures are recorded per report

	for _, r := range reports {
		metrics.PuzzlesChecked.WithLabelValues(string(r.Status)).Inc()
	}
	return reports
}

func (e *Engine) checkPuzzle(ctx context.Context, p config.Puzzle) PuzzleReport {
	r := PuzzleReport{ID: p.ID, Description: p.Description, Variant: p.Variant, Goal: p.Goal}
	fail := func(err error) PuzzleReport {
		r.Status = StatusError
		r.Error = err.Error()
		e.logger.Warn("puzzle check failed", "puzzle", p.ID, "error", err)
		return r
	}

	doc := p.Circuit
	graph, err := snapshot.Build(&doc)
	if err != nil {
		return fail(err)
	}
	o, err := e.validateWait(ctx, Request{ID: p.ID, Variant: p.Variant, Graph: graph})
	if err != nil {
		return fail(err)
	}
	r.Outcome = o
	r.Facts = Facts(o)

	solved := o.Valid()
	if p.Goal != "" {
		expr, err := goal.Parse(p.Goal)
		if err != nil {
			return fail(fmt.Errorf("goal: %w", err))
		}
		solved, err = goal.Evaluate(expr, r.Facts)
		if err != nil {
			return fail(fmt.Errorf("goal: %w", err))
		}
	}
	r.Status = StatusUnsolved
	if solved {
		r.Status = StatusSolved
	}
	return r
}

// validateWait is Validate but waits for queue room instead of failing.
func (e *Engine) validateWait(ctx context.Context, req Request) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	replyC := make(chan reply, 1)
	if err := e.pool.SubmitWait(ctx, req, replyTo(replyC)); err != nil {
		return nil, err
	}
	e.observeQueue()
	return e.await(ctx, replyC)
}
