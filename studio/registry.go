package studio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/algo-studio/graph"
)

// Range bounds one user-facing parameter.
type Range struct {
	Min     float64
	Max     float64
	Default float64
	Unit    string
}

// Preset is a named parameter vector. It applies atomically: callers
// copy the whole map into the graph within one update.
type Preset struct {
	Name   string
	Params map[string]float64
}

// Binding routes a user-facing parameter onto a recipe node's
// parameter. An empty Node marks the playback-rate pseudo-parameter,
// consumed by the renderer instead of the graph.
type Binding struct {
	Node  string
	Param string
}

// Definition describes one studio: its graph recipe, the slug used for
// rendered downloads, defaults, ranges, and named presets.
type Definition struct {
	ID       string
	Title    string
	FileSlug string
	Recipe   graph.Recipe
	Ranges   map[string]Range
	Bindings map[string]Binding
	Presets  []Preset
}

// ApplyParams folds a parameter vector into a copy of the recipe via
// the studio's bindings and returns it with the playback rate (1 when
// the vector does not set one). Unknown parameters are ignored.
func (d Definition) ApplyParams(params map[string]float64) (graph.Recipe, float64) {
	recipe := cloneRecipe(d.Recipe)
	rate := 1.0

	for name, value := range params {
		binding, ok := d.Bindings[name]
		if !ok {
			continue
		}

		if binding.Node == "" {
			rate = value
			continue
		}

		for i := range recipe.Nodes {
			if recipe.Nodes[i].ID != binding.Node {
				continue
			}

			if recipe.Nodes[i].Params == nil {
				recipe.Nodes[i].Params = make(map[string]any)
			}

			recipe.Nodes[i].Params[binding.Param] = value
		}
	}

	return recipe, rate
}

func cloneRecipe(r graph.Recipe) graph.Recipe {
	nodes := make([]graph.NodeSpec, len(r.Nodes))

	for i, n := range r.Nodes {
		params := make(map[string]any, len(n.Params))
		for k, v := range n.Params {
			params[k] = v
		}

		n.Params = params
		nodes[i] = n
	}

	conns := make([]graph.Connection, len(r.Connections))
	copy(conns, r.Connections)

	return graph.Recipe{Nodes: nodes, Connections: conns}
}

// Preset returns the named preset, if the studio declares it.
func (d Definition) Preset(name string) (Preset, bool) {
	for _, p := range d.Presets {
		if p.Name == name {
			return p, true
		}
	}

	return Preset{}, false
}

// OutputName builds the download filename for a rendered result:
// "<stem>-<fileSlug>.wav".
func OutputName(stem, fileSlug string) string {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		stem = "render"
	}

	return fmt.Sprintf("%s-%s.wav", stem, fileSlug)
}

// Get looks up a studio definition by its identifier.
func Get(id string) (Definition, bool) {
	def, ok := definitions[id]
	return def, ok
}

// IDs returns all registered studio identifiers, sorted.
func IDs() []string {
	ids := make([]string, 0, len(definitions))
	for id := range definitions {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func chainRecipe(nodes ...graph.NodeSpec) graph.Recipe {
	specs := make([]graph.NodeSpec, 0, len(nodes)+2)
	specs = append(specs, graph.NodeSpec{ID: graph.InputNodeID, Kind: "input"})
	specs = append(specs, nodes...)
	specs = append(specs, graph.NodeSpec{ID: graph.OutputNodeID, Kind: "output"})

	conns := make([]graph.Connection, 0, len(specs)-1)
	for i := 1; i < len(specs); i++ {
		conns = append(conns, graph.Connection{From: specs[i-1].ID, To: specs[i].ID})
	}

	return graph.Recipe{Nodes: specs, Connections: conns}
}

var definitions = map[string]Definition{
	"eq-studio": {
		ID:       "eq-studio",
		Title:    "EQ Studio",
		FileSlug: "equalised",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "low", Kind: "biquad", Params: map[string]any{
				"filterType": "lowshelf", "frequency": 120.0, "gainDb": 0.0, "q": 0.707,
			}},
			graph.NodeSpec{ID: "mid", Kind: "biquad", Params: map[string]any{
				"filterType": "peaking", "frequency": 1000.0, "gainDb": 0.0, "q": 1.0,
			}},
			graph.NodeSpec{ID: "high", Kind: "biquad", Params: map[string]any{
				"filterType": "highshelf", "frequency": 8000.0, "gainDb": 0.0, "q": 0.707,
			}},
		),
		Ranges: map[string]Range{
			"lowGain":  {Min: -40, Max: 40, Default: 0, Unit: "dB"},
			"midGain":  {Min: -40, Max: 40, Default: 0, Unit: "dB"},
			"highGain": {Min: -40, Max: 40, Default: 0, Unit: "dB"},
			"midFreq":  {Min: 200, Max: 8000, Default: 1000, Unit: "Hz"},
			"midQ":     {Min: 0.1, Max: 30, Default: 1, Unit: ""},
		},
		Bindings: map[string]Binding{
			"lowGain":  {Node: "low", Param: "gainDb"},
			"midGain":  {Node: "mid", Param: "gainDb"},
			"highGain": {Node: "high", Param: "gainDb"},
			"midFreq":  {Node: "mid", Param: "frequency"},
			"midQ":     {Node: "mid", Param: "q"},
		},
	},

	"reverb-studio": {
		ID:       "reverb-studio",
		Title:    "Reverb Studio",
		FileSlug: "reverb",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "verb", Kind: "reverb", Params: map[string]any{
				"decay": 2.0, "preDelay": 0.02, "wet": 0.4,
			}},
		),
		Ranges: map[string]Range{
			"decay":    {Min: 0.1, Max: 20, Default: 2, Unit: "s"},
			"preDelay": {Min: 0, Max: 0.5, Default: 0.02, Unit: "s"},
			"wet":      {Min: 0, Max: 1, Default: 0.4, Unit: ""},
		},
		Bindings: map[string]Binding{
			"decay":    {Node: "verb", Param: "decay"},
			"preDelay": {Node: "verb", Param: "preDelay"},
			"wet":      {Node: "verb", Param: "wet"},
		},
	},

	"slowed-reverb-studio": {
		ID:       "slowed-reverb-studio",
		Title:    "Slowed + Reverb Studio",
		FileSlug: "slowed-reverb",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "verb", Kind: "reverb", Params: map[string]any{
				"decay": 6.0, "preDelay": 0.08, "wet": 0.85,
			}},
		),
		Ranges: map[string]Range{
			"decay":    {Min: 0.1, Max: 20, Default: 6, Unit: "s"},
			"preDelay": {Min: 0, Max: 0.5, Default: 0.08, Unit: "s"},
			"wet":      {Min: 0, Max: 1, Default: 0.85, Unit: ""},
			"slowRate": {Min: 0.25, Max: 1, Default: 0.75, Unit: ""},
		},
		Bindings: map[string]Binding{
			"decay":    {Node: "verb", Param: "decay"},
			"preDelay": {Node: "verb", Param: "preDelay"},
			"wet":      {Node: "verb", Param: "wet"},
			"slowRate": {},
		},
		Presets: []Preset{
			{Name: "Dreamy", Params: map[string]float64{
				"decay": 6.0, "wet": 0.85, "slowRate": 0.75, "preDelay": 0.08,
			}},
			{Name: "Spacey", Params: map[string]float64{
				"decay": 15.0, "wet": 0.95, "slowRate": 0.55, "preDelay": 0.25,
			}},
		},
	},

	"bass-booster": {
		ID:       "bass-booster",
		Title:    "Bass Booster",
		FileSlug: "bass-enhanced",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "peak", Kind: "biquad", Params: map[string]any{
				"filterType": "peaking", "frequency": 60.0, "gainDb": 22.0, "q": 1.2,
			}},
			graph.NodeSpec{ID: "sub", Kind: "biquad", Params: map[string]any{
				"filterType": "lowshelf", "frequency": 80.0, "gainDb": 18.0, "q": 0.707,
			}},
			graph.NodeSpec{ID: "limit", Kind: "limiter", Params: map[string]any{
				"ceiling": -0.3, "release": 80.0,
			}},
		),
		Ranges: map[string]Range{
			"centre":   {Min: 30, Max: 200, Default: 60, Unit: "Hz"},
			"peakGain": {Min: 0, Max: 40, Default: 22, Unit: "dB"},
			"subGain":  {Min: 0, Max: 40, Default: 18, Unit: "dB"},
		},
		Bindings: map[string]Binding{
			"centre":   {Node: "peak", Param: "frequency"},
			"peakGain": {Node: "peak", Param: "gainDb"},
			"subGain":  {Node: "sub", Param: "gainDb"},
		},
		Presets: []Preset{
			{Name: "808 Style", Params: map[string]float64{
				"centre": 60.0, "peakGain": 22.0, "subGain": 18.0,
			}},
		},
	},

	"pitch-shift-explorer": {
		ID:       "pitch-shift-explorer",
		Title:    "Pitch Shift Explorer",
		FileSlug: "pitch-shifted",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "shift", Kind: "pitch-shift", Params: map[string]any{
				"semitones": 0.0, "windowSec": 0.1,
			}},
		),
		Ranges: map[string]Range{
			"semitones": {Min: -12, Max: 12, Default: 0, Unit: "st"},
			"windowSec": {Min: 0.01, Max: 0.5, Default: 0.1, Unit: "s"},
		},
		Bindings: map[string]Binding{
			"semitones": {Node: "shift", Param: "semitones"},
			"windowSec": {Node: "shift", Param: "windowSec"},
		},
	},

	"stereo-imager-explorer": {
		ID:       "stereo-imager-explorer",
		Title:    "Stereo Imager Explorer",
		FileSlug: "stereo-imaged",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "width", Kind: "widener", Params: map[string]any{
				"width": 0.5,
			}},
			graph.NodeSpec{ID: "pan", Kind: "panner", Params: map[string]any{
				"pan": 0.0,
			}},
		),
		Ranges: map[string]Range{
			"width": {Min: 0, Max: 1, Default: 0.5, Unit: ""},
			"pan":   {Min: -1, Max: 1, Default: 0, Unit: ""},
		},
		Bindings: map[string]Binding{
			"width": {Node: "width", Param: "width"},
			"pan":   {Node: "pan", Param: "pan"},
		},
	},

	"drum-machine": {
		ID:       "drum-machine",
		Title:    "Drum Machine",
		FileSlug: "drums",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "comp", Kind: "compressor", Params: map[string]any{
				"threshold": -18.0, "ratio": 4.0, "attack": 5.0, "release": 120.0,
			}},
			graph.NodeSpec{ID: "level", Kind: "gain", Params: map[string]any{"gain": 0.9}},
		),
		Ranges: map[string]Range{
			"tempo": {Min: 40, Max: 240, Default: 120, Unit: "BPM"},
			"swing": {Min: 0, Max: 1, Default: 0, Unit: ""},
		},
	},

	"time-signature-metronome": {
		ID:       "time-signature-metronome",
		Title:    "Time Signature Metronome",
		FileSlug: "metronome",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "level", Kind: "gain", Params: map[string]any{"gain": 1.0}},
		),
		Ranges: map[string]Range{
			"tempo":       {Min: 30, Max: 300, Default: 120, Unit: "BPM"},
			"numerator":   {Min: 1, Max: 12, Default: 4, Unit: ""},
			"denominator": {Min: 1, Max: 16, Default: 4, Unit: ""},
		},
	},

	"synthesis-challenge": {
		ID:       "synthesis-challenge",
		Title:    "Synthesis Challenge",
		FileSlug: "synth",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "tone", Kind: "biquad", Params: map[string]any{
				"filterType": "lowpass", "frequency": 4000.0, "q": 0.707,
			}},
			graph.NodeSpec{ID: "level", Kind: "gain", Params: map[string]any{"gain": 0.8}},
		),
		Ranges: map[string]Range{
			"cutoff":    {Min: 100, Max: 16000, Default: 4000, Unit: "Hz"},
			"frequency": {Min: 20, Max: 20000, Default: 440, Unit: "Hz"},
		},
	},

	"drum-sequencer-game": {
		ID:       "drum-sequencer-game",
		Title:    "Drum Sequencer Game",
		FileSlug: "sequence",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "echo", Kind: "delay", Params: map[string]any{
				"delayTime": 0.25, "feedback": 0.3, "wet": 0.2,
			}},
			graph.NodeSpec{ID: "level", Kind: "gain", Params: map[string]any{"gain": 0.9}},
		),
		Ranges: map[string]Range{
			"tempo": {Min: 40, Max: 240, Default: 120, Unit: "BPM"},
		},
	},

	"adsr-envelope-tool": {
		ID:       "adsr-envelope-tool",
		Title:    "ADSR Envelope Tool",
		FileSlug: "envelope",
		Recipe: chainRecipe(
			graph.NodeSpec{ID: "scope", Kind: "analyser", Params: map[string]any{
				"fftSize": 2048.0, "smoothing": 0.8,
			}},
		),
		Ranges: map[string]Range{
			"attack":  {Min: 0.001, Max: 2, Default: 0.01, Unit: "s"},
			"decay":   {Min: 0.001, Max: 5, Default: 0.1, Unit: "s"},
			"sustain": {Min: 0, Max: 1, Default: 1, Unit: ""},
			"release": {Min: 0.001, Max: 5, Default: 0.2, Unit: "s"},
		},
	},
}
