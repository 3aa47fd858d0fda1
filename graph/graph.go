package graph

import (
	"errors"
	"fmt"
)

type nodeRuntime struct {
	kind    string
	runtime Runtime
}

// Graph owns a compiled processing topology and its node runtimes. It
// is independent of any playback engine; callers push stereo blocks
// through Process.
type Graph struct {
	ctx      Context
	registry *Registry

	compiled *compiledGraph
	nodes    map[string]*nodeRuntime
	wet      *WetMixer

	leftBuf  map[string][]float64
	rightBuf map[string][]float64
	mixBuf   []float64
}

// New creates a Graph with the given context and registry.
func New(ctx Context, registry *Registry) *Graph {
	return &Graph{
		ctx:      ctx,
		registry: registry,
		nodes:    make(map[string]*nodeRuntime),
	}
}

// Context returns the current graph context.
func (g *Graph) Context() Context { return g.ctx }

// SetContext updates the graph context (e.g., after a sample rate
// change) and reconfigures all node runtimes.
func (g *Graph) SetContext(ctx Context) error {
	g.ctx = ctx

	if g.wet != nil {
		wet, bypassed := g.wet.Wet(), g.wet.Bypassed()

		g.wet = nil
		if m := g.wetMixer(); m != nil {
			_ = m.SetWet(wet)
			m.SetBypassed(bypassed)
			m.Snap()
		}
	}

	if g.compiled == nil {
		return nil
	}

	for id, rt := range g.nodes {
		params, ok := g.compiled.Nodes[id]
		if !ok {
			continue
		}

		err := rt.runtime.Configure(ctx, params)
		if err != nil {
			return fmt.Errorf("graph: reconfigure node %q (%s): %w", id, rt.kind, err)
		}
	}

	return nil
}

// Compiled reports whether the graph has a loaded topology.
func (g *Graph) Compiled() bool { return g.compiled != nil }

// Load compiles the recipe and synchronises node runtimes. The swap is
// atomic: on error the previous topology and its runtimes keep their
// parameters and remain fully usable.
func (g *Graph) Load(r Recipe) error {
	compiled, err := compileRecipe(r)
	if err != nil {
		return err
	}

	nodes, err := g.stageNodes(compiled)
	if err != nil {
		return err
	}

	g.nodes = nodes
	g.compiled = compiled

	return nil
}

// UpdateNode applies a parameter update to a single node without
// recompiling the topology.
func (g *Graph) UpdateNode(params Params) error {
	if g.compiled == nil {
		return fmt.Errorf("%w: no graph loaded", ErrBuild)
	}

	existing, ok := g.compiled.Nodes[params.ID]
	if !ok {
		return fmt.Errorf("%w: unknown node %q", ErrBuild, params.ID)
	}

	if params.Kind == "" {
		params.Kind = existing.Kind
	}

	if params.Kind != existing.Kind {
		return fmt.Errorf("%w: node %q kind change requires reload", ErrBuild, params.ID)
	}

	if rt := g.nodes[params.ID]; rt != nil {
		err := rt.runtime.Configure(g.ctx, params)
		if err != nil {
			return fmt.Errorf("graph: configure node %q (%s): %w", params.ID, params.Kind, err)
		}
	}

	g.compiled.Nodes[params.ID] = params

	return nil
}

// SetBypassed toggles the graph's wet/dry bypass. The dry input takes
// over through a short crossfade instead of a hard switch; offline
// graphs snap immediately.
func (g *Graph) SetBypassed(bypass bool) {
	m := g.wetMixer()
	if m == nil {
		return
	}

	m.SetBypassed(bypass)

	if g.ctx.Offline {
		m.Snap()
	}
}

// Bypassed reports whether the wet/dry bypass is engaged.
func (g *Graph) Bypassed() bool {
	m := g.wetMixer()
	if m == nil {
		return false
	}

	return m.Bypassed()
}

// SetWet sets the processed share of the output in [0, 1]. The change
// crossfades in; offline graphs snap immediately.
func (g *Graph) SetWet(wet float64) error {
	m := g.wetMixer()
	if m == nil {
		return fmt.Errorf("graph: no wet mixer for sample rate %f", g.ctx.SampleRate)
	}

	if err := m.SetWet(wet); err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	if g.ctx.Offline {
		m.Snap()
	}

	return nil
}

// Wet returns the configured processed share of the output.
func (g *Graph) Wet() float64 {
	m := g.wetMixer()
	if m == nil {
		return 1
	}

	return m.Wet()
}

func (g *Graph) wetMixer() *WetMixer {
	if g.wet == nil {
		m, err := NewWetMixer(g.ctx.SampleRate)
		if err != nil {
			return nil
		}

		g.wet = m
	}

	return g.wet
}

// NodeRuntime returns the Runtime for the given node ID, or nil.
func (g *Graph) NodeRuntime(nodeID string) Runtime {
	rt := g.nodes[nodeID]
	if rt == nil {
		return nil
	}

	return rt.runtime
}

// Dispose releases all node runtimes and processing state.
func (g *Graph) Dispose() {
	g.compiled = nil
	g.nodes = make(map[string]*nodeRuntime)
	g.leftBuf = nil
	g.rightBuf = nil
	g.mixBuf = nil
}

// stageNodes assembles the runtime set for the compiled topology
// without touching the live set. Runtimes are carried over when a node
// keeps its kind; new and kind-changed nodes get fresh instances, and
// nodes dropped from the recipe simply never enter the staging set. All
// kinds are resolved before any carried-over runtime is reconfigured,
// and a configure failure restores the previous parameters on the
// runtimes it already touched.
func (g *Graph) stageNodes(compiled *compiledGraph) (map[string]*nodeRuntime, error) {
	next := make(map[string]*nodeRuntime, len(compiled.Nodes))

	for _, node := range compiled.Nodes {
		if isStructuralNodeKind(node.Kind) {
			continue
		}

		if rt := g.nodes[node.ID]; rt != nil && rt.kind == node.Kind {
			next[node.ID] = rt
			continue
		}

		runtime, err := g.newRuntime(node.Kind)
		if err != nil {
			return nil, err
		}

		next[node.ID] = &nodeRuntime{kind: node.Kind, runtime: runtime}
	}

	var reconfigured []string

	for _, id := range compiled.Order {
		rt, ok := next[id]
		if !ok {
			continue
		}

		node := compiled.Nodes[id]

		err := rt.runtime.Configure(g.ctx, node)
		if err != nil {
			if g.nodes[id] == rt {
				reconfigured = append(reconfigured, id)
			}

			g.restoreNodes(reconfigured)

			return nil, fmt.Errorf("graph: configure node %q (%s): %w", id, node.Kind, err)
		}

		if g.nodes[id] == rt {
			reconfigured = append(reconfigured, id)
		}
	}

	return next, nil
}

// restoreNodes re-applies the previous parameters to carried-over
// runtimes that a failed load already reconfigured.
func (g *Graph) restoreNodes(ids []string) {
	if g.compiled == nil {
		return
	}

	for _, id := range ids {
		params, ok := g.compiled.Nodes[id]
		if !ok {
			continue
		}

		_ = g.nodes[id].runtime.Configure(g.ctx, params)
	}
}

func (g *Graph) newRuntime(kind string) (Runtime, error) {
	factory := g.registry.Lookup(kind)
	if factory == nil {
		return nil, fmt.Errorf("%w: %w: %s", ErrBuild, ErrUnknownNodeKind, kind)
	}

	rt, err := factory(g.ctx)
	if err != nil {
		return nil, fmt.Errorf("graph: create %s runtime: %w", kind, err)
	}

	if rt == nil {
		return nil, errors.New("graph: factory returned nil runtime")
	}

	return rt, nil
}
