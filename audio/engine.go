package audio

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultMaxNodes is the number of generators an engine can play at once.
const DefaultMaxNodes = 256

// Engine owns the output graph and the backend that drives it, and turns generators
// into playing nodes.
type Engine struct {
	backend  Backend
	graph    *Graph
	maxNodes int
	nextID   atomic.Uint64

	mu    sync.Mutex // serializes writers of graph.commands; never taken by the render thread
	nodes map[NodeID]*node
}

// NewEngine builds a graph matching the backend's format and starts the backend.
// An error here means there is no audio at all.
func NewEngine(backend Backend) (*Engine, error) {
	return NewEngineSize(backend, DefaultMaxNodes)
}

// NewEngineSize is like NewEngine with a custom node limit.
func NewEngineSize(backend Backend, maxNodes int) (*Engine, error) {
	if backend.BlockSize() <= 0 {
		return nil, fmt.Errorf("invalid block size %d", backend.BlockSize())
	}
	if maxNodes <= 0 {
		return nil, fmt.Errorf("invalid node limit %d", maxNodes)
	}
	e := &Engine{
		backend:  backend,
		graph:    newGraph(backend.SampleRate(), backend.BlockSize(), backend.Channels(), maxNodes),
		maxNodes: maxNodes,
		nodes:    make(map[NodeID]*node),
	}
	if err := backend.Start(e.graph); err != nil {
		return nil, fmt.Errorf("start audio backend: %w", err)
	}
	slog.Info("audio engine started",
		"sampleRate", backend.SampleRate(),
		"blockSize", backend.BlockSize(),
		"channels", backend.Channels(),
	)
	return e, nil
}

// Attach inserts gen into the running graph, connected to the output, and returns
// its node id. The generator belongs to the render thread afterwards.
//
// At most maxNodes nodes play at once and as many again wait for a free slot.
// Past that the generator is dropped and its node is never playing.
func (e *Engine) Attach(gen Generator) NodeID {
	id := NodeID(e.nextID.Add(1))
	n := newNode(id, gen, e.graph.blockSize)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.prune()
	if len(e.nodes) >= 2*e.maxNodes {
		n.playing.Store(false)
		slog.Warn("too many nodes, dropping generator", "node", id, "max", e.maxNodes)
		return id
	}
	e.nodes[id] = n
	e.graph.commands.push(command{op: opInsert, node: n})
	slog.Debug("node attached", "node", id, "channels", gen.Channels())
	return id
}

// Remove drops a node from the graph. Unknown or finished nodes are ignored.
func (e *Engine) Remove(id NodeID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.nodes[id]; !ok {
		return
	}
	delete(e.nodes, id)
	e.graph.commands.push(command{op: opRemove, id: id})
	slog.Debug("node removed", "node", id)
}

// Playing reports whether the node is still in the graph or about to be inserted.
func (e *Engine) Playing(id NodeID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[id]
	return ok && n.playing.Load()
}

// Nodes returns the ids of all playing nodes in ascending order.
func (e *Engine) Nodes() []NodeID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prune()
	ids := make([]NodeID, 0, len(e.nodes))
	for id := range e.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// prune forgets nodes the render thread has dropped.
func (e *Engine) prune() {
	for id, n := range e.nodes {
		if !n.playing.Load() {
			delete(e.nodes, id)
			slog.Debug("node finished", "node", id)
		}
	}
}

func (e *Engine) SampleRate() float64 { return e.backend.SampleRate() }

// Close stops the backend.
func (e *Engine) Close() error {
	return e.backend.Close()
}
