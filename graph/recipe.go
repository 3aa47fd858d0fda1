package graph

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// InputNodeID is the reserved node ID for the chain input.
	InputNodeID = "_input"
	// OutputNodeID is the reserved node ID for the chain output.
	OutputNodeID = "_output"
)

// ErrBuild is returned when a recipe cannot be compiled into a runnable
// graph.
var ErrBuild = errors.New("graph: build error")

// NodeSpec describes one node in a recipe.
type NodeSpec struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Bypassed bool           `json:"bypassed,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// Connection links the output of one node to the input of another.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Recipe is the JSON-serialisable description of a processing graph.
type Recipe struct {
	Nodes       []NodeSpec   `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// ParseRecipe decodes a JSON recipe.
func ParseRecipe(raw []byte) (Recipe, error) {
	var r Recipe

	err := json.Unmarshal(raw, &r)
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: invalid recipe json: %w", ErrBuild, err)
	}

	return r, nil
}

// Encode serialises the recipe to JSON.
func (r Recipe) Encode() ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("graph: encode recipe: %w", err)
	}

	return raw, nil
}

// compiledGraph holds the compiled topology with adjacency info and a
// topologically sorted traversal order.
type compiledGraph struct {
	Nodes    map[string]Params
	Incoming map[string][]string
	Outgoing map[string][]string
	Order    []string
}

// compileRecipe validates the recipe and performs a topological sort
// (Kahn's algorithm). The reserved input and output nodes must be
// present, every connection must reference declared nodes, the topology
// must be acyclic, and the output must be reachable from the input.
func compileRecipe(r Recipe) (*compiledGraph, error) {
	nodes := make(map[string]Params, len(r.Nodes))

	for _, n := range r.Nodes {
		if n.ID == "" || n.Kind == "" {
			return nil, fmt.Errorf("%w: node with empty id or kind", ErrBuild)
		}

		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrBuild, n.ID)
		}

		num, str := parseNodeParams(n.Params)
		nodes[n.ID] = Params{
			ID:       n.ID,
			Kind:     n.Kind,
			Bypassed: n.Bypassed,
			Num:      num,
			Str:      str,
		}
	}

	if _, ok := nodes[InputNodeID]; !ok {
		return nil, fmt.Errorf("%w: missing %s node", ErrBuild, InputNodeID)
	}

	if _, ok := nodes[OutputNodeID]; !ok {
		return nil, fmt.Errorf("%w: missing %s node", ErrBuild, OutputNodeID)
	}

	incoming := make(map[string][]string, len(nodes))
	outgoing := make(map[string][]string, len(nodes))
	indegree := make(map[string]int, len(nodes))

	for id := range nodes {
		incoming[id] = nil
		outgoing[id] = nil
		indegree[id] = 0
	}

	for _, c := range r.Connections {
		if c.From == c.To {
			return nil, fmt.Errorf("%w: self connection on %q", ErrBuild, c.From)
		}

		if _, ok := nodes[c.From]; !ok {
			return nil, fmt.Errorf("%w: connection from unknown node %q", ErrBuild, c.From)
		}

		if _, ok := nodes[c.To]; !ok {
			return nil, fmt.Errorf("%w: connection to unknown node %q", ErrBuild, c.To)
		}

		outgoing[c.From] = append(outgoing[c.From], c.To)
		incoming[c.To] = append(incoming[c.To], c.From)
		indegree[c.To]++
	}

	queue := make([]string, 0, len(nodes))
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		order = append(order, id)
		for _, to := range outgoing[id] {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, fmt.Errorf("%w: contains cycle", ErrBuild)
	}

	if !reachable(outgoing, InputNodeID, OutputNodeID) {
		return nil, fmt.Errorf("%w: %s not reachable from %s", ErrBuild, OutputNodeID, InputNodeID)
	}

	return &compiledGraph{
		Nodes:    nodes,
		Incoming: incoming,
		Outgoing: outgoing,
		Order:    order,
	}, nil
}

func reachable(outgoing map[string][]string, from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == to {
			return true
		}

		for _, next := range outgoing[id] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}

	return false
}

// parseNodeParams extracts numeric and string parameters from a raw
// JSON params map.
func parseNodeParams(raw map[string]any) (map[string]float64, map[string]string) {
	num := map[string]float64{}
	str := map[string]string{}

	for k, v := range raw {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case float32:
			num[k] = float64(t)
		case int:
			num[k] = float64(t)
		case int64:
			num[k] = float64(t)
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		}
	}

	return num, str
}

func isStructuralNodeKind(kind string) bool {
	return kind == InputNodeID || kind == OutputNodeID ||
		kind == "input" || kind == "output" || kind == "destination"
}
