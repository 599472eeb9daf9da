package layout

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/dag"
	"github.com/matzehuels/umlflow/pkg/dag/transform"
	"github.com/matzehuels/umlflow/pkg/flow"
)

// Engine lays out activity diagrams. It holds only configuration and a
// logger, so one Engine may serve concurrent Layout calls; every call works
// on a graph of its own.
type Engine struct {
	cfg    Config
	logger *log.Logger
	hook   StageHook
}

// Pipeline stage names passed to a [StageHook].
const (
	StageBuild       = "build"
	StageNormalize   = "normalize"
	StageOrder       = "order"
	StageCoordinates = "coordinates"
	StageFinish      = "finish"
)

// StageHook observes the working graph after each pipeline stage. The graph
// must not be modified.
type StageHook func(stage string, g *dag.Graph)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for diagnostics. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStageHook registers fn to be called after every stage.
func WithStageHook(fn StageHook) Option {
	return func(e *Engine) {
		e.hook = fn
	}
}

// New creates an Engine. cfg is completed with [Config.SetDefaults]. When
// cfg.Debug is set the engine logs per-step summaries at debug level without
// changing the level of the logger passed in.
func New(cfg Config, opts ...Option) *Engine {
	cfg.SetDefaults()
	e := &Engine{
		cfg:    cfg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if cfg.Debug {
		e.logger = e.logger.With()
		e.logger.SetLevel(log.DebugLevel)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Layout computes the layout of d. It never fails: if any step returns an
// error or panics, the failure is logged and the [Fallback] layout is
// returned with Result.Fallback set and Result.Error describing the cause.
//
// The steps are:
//
//  1. Build the graph ([flow.Build])
//  2. Assign layers and insert virtual nodes ([transform.Normalize])
//  3. Reduce crossings ([OrderLayers])
//  4. Size the canvas and swimlane bands ([SizeCanvas])
//  5. Assign coordinates ([AssignCoordinates])
//  6. Re-pin start/end nodes and export positions ([Finish])
func (e *Engine) Layout(d flow.Diagram) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("layout panicked, using fallback", "panic", r)
			e.logger.Debug(string(debug.Stack()))
			res = Fallback(d, e.cfg)
			res.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	r, err := e.layout(d)
	if err != nil {
		e.logger.Error("layout failed, using fallback", "err", err)
		fb := Fallback(d, e.cfg)
		fb.Error = err.Error()
		return fb
	}
	return r
}

func (e *Engine) layout(d flow.Diagram) (*Result, error) {
	g := flow.Build(d, e.logger)
	e.stage(StageBuild, g)
	if g.NodeCount() == 0 {
		e.logger.Warn("diagram has no elements")
		return &Result{
			Positions: map[string]Position{},
			Canvas:    Canvas{Width: e.cfg.CanvasWidth, Height: e.cfg.CanvasHeight},
			Layers:    [][]string{},
			Edges:     []EdgeInfo{},
		}, nil
	}

	// Snapshot logical edges before subdivision replaces long ones.
	logical := g.Edges()
	realEdges := len(logical)

	report := transform.Normalize(g, e.logger)
	if err := g.ValidateLayers(); err != nil {
		return nil, fmt.Errorf("assign layers: %w", err)
	}
	if err := g.ValidateSpans(); err != nil {
		return nil, fmt.Errorf("subdivide: %w", err)
	}
	e.logger.Debug("normalized graph",
		"layers", report.Layers,
		"virtual", report.Virtual,
		"loop_backs", report.LoopBacks)
	e.stage(StageNormalize, g)

	order := OrderLayers(g, e.cfg.MaxIterations)
	e.logger.Debug("ordered layers",
		"iterations", order.Iterations,
		"crossings_before", order.CrossingsBefore,
		"crossings_after", order.CrossingsAfter)
	e.stage(StageOrder, g)

	canvas := SizeCanvas(g, e.cfg)
	AssignCoordinates(g, e.cfg, canvas)
	e.stage(StageCoordinates, g)

	positions, grid, canvas, moved := Finish(g, e.cfg, canvas)
	if moved > 0 {
		e.logger.Warn("re-pinned start/end nodes", "moved", moved)
	}
	if err := g.ValidateLayers(); err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}
	e.stage(StageFinish, g)
	e.logger.Debug("finished layout",
		"canvas_width", canvas.Width,
		"canvas_height", canvas.Height,
		"columns", grid.Columns,
		"rows", grid.Rows)

	res := &Result{
		Positions: positions,
		Grid:      grid,
		Canvas:    canvas,
		Layers:    exportLayers(g),
		Edges:     exportEdges(logical),
		Lanes:     exportLanes(g),
		Stats: Stats{
			Nodes:           len(positions),
			Edges:           realEdges,
			Virtual:         report.Virtual,
			Layers:          g.LayerCount(),
			Iterations:      order.Iterations,
			CrossingsBefore: order.CrossingsBefore,
			CrossingsAfter:  order.CrossingsAfter,
			LoopBacks:       report.LoopBacks,
			Unreached:       len(report.Unreached),
		},
	}
	return res, nil
}

func (e *Engine) stage(name string, g *dag.Graph) {
	if e.hook != nil {
		e.hook(name, g)
	}
}

func exportLayers(g *dag.Graph) [][]string {
	out := make([][]string, 0, g.LayerCount())
	for _, layer := range g.Layers() {
		ids := make([]string, 0, len(layer))
		for _, n := range layer {
			if !n.Virtual {
				ids = append(ids, n.ID)
			}
		}
		out = append(out, ids)
	}
	return out
}

func exportEdges(edges []*dag.Edge) []EdgeInfo {
	out := make([]EdgeInfo, 0, len(edges))
	for _, e := range edges {
		out = append(out, EdgeInfo{From: e.From, To: e.To, Label: e.Label, LoopBack: e.LoopBack})
	}
	return out
}

func exportLanes(g *dag.Graph) []LaneInfo {
	lanes := g.Lanes()
	if len(lanes) == 0 {
		return nil
	}
	out := make([]LaneInfo, 0, len(lanes))
	for _, l := range lanes {
		out = append(out, LaneInfo{
			Name:  l.Name,
			X:     int(l.XStart),
			Width: int(l.Width),
			Nodes: l.Nodes,
		})
	}
	return out
}
