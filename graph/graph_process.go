package graph

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Process applies the graph to paired left/right blocks in place.
// Returns false if no topology is loaded or the blocks differ in
// length. The chain output is blended against the dry input by the
// graph's wet mixer, and the result is scrubbed of non-finite samples.
func (g *Graph) Process(left, right []float64) bool {
	if len(left) != len(right) {
		return false
	}

	if len(left) == 0 {
		return true
	}

	compiled := g.compiled
	if compiled == nil {
		return false
	}

	g.prepareBuffers(left, right, compiled)

	for _, id := range compiled.Order {
		if id == InputNodeID {
			continue
		}

		g.processNode(id, compiled)
	}

	// The input node's buffers alias left/right and no node writes
	// them, so they still carry the dry signal here.
	wetL := g.leftBuf[OutputNodeID]
	wetR := g.rightBuf[OutputNodeID]

	if m := g.wetMixer(); m != nil {
		_ = m.ProcessStereo(left, right, wetL, wetR)
	} else {
		copy(left, wetL)
		copy(right, wetR)
	}

	scrubNonFinite(left)
	scrubNonFinite(right)

	return true
}

func (g *Graph) prepareBuffers(left, right []float64, compiled *compiledGraph) {
	if g.leftBuf == nil {
		g.leftBuf = make(map[string][]float64, len(compiled.Nodes))
	}

	if g.rightBuf == nil {
		g.rightBuf = make(map[string][]float64, len(compiled.Nodes))
	}

	n := len(left)

	for _, id := range compiled.Order {
		if id == InputNodeID {
			g.leftBuf[id] = left
			g.rightBuf[id] = right

			continue
		}

		l := g.leftBuf[id]
		if cap(l) < n {
			l = make([]float64, n)
		}

		g.leftBuf[id] = l[:n]

		r := g.rightBuf[id]
		if cap(r) < n {
			r = make([]float64, n)
		}

		g.rightBuf[id] = r[:n]
	}

	if cap(g.mixBuf) < n {
		g.mixBuf = make([]float64, n)
	}

	g.mixBuf = g.mixBuf[:n]
}

func (g *Graph) processNode(id string, compiled *compiledGraph) {
	node := compiled.Nodes[id]
	left := g.leftBuf[id]
	right := g.rightBuf[id]

	parents := compiled.Incoming[id]
	g.mixParents(parents, left, g.leftBuf)
	g.mixParents(parents, right, g.rightBuf)

	if id == OutputNodeID || node.Bypassed || isStructuralNodeKind(node.Kind) {
		return
	}

	rt := g.nodes[id]
	if rt == nil || rt.runtime == nil {
		return
	}

	rt.runtime.Process(left, right)
}

// mixParents fills dst with the fan-in of the parent buffers: a copy
// for one parent, the average for several, silence for none.
func (g *Graph) mixParents(parents []string, dst []float64, buffers map[string][]float64) {
	if len(parents) == 0 {
		for i := range dst {
			dst[i] = 0
		}

		return
	}

	if len(parents) == 1 {
		copy(dst, buffers[parents[0]])
		return
	}

	mix := g.mixBuf[:len(dst)]
	for i := range mix {
		mix[i] = 0
	}

	for _, parent := range parents {
		vecmath.AddBlockInPlace(mix, buffers[parent][:len(dst)])
	}

	vecmath.ScaleBlock(dst, mix, 1.0/float64(len(parents)))
}

func scrubNonFinite(block []float64) {
	for i, s := range block {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			block[i] = 0
		}
	}
}
