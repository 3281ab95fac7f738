package audio

import (
	"fmt"
	"sync/atomic"
)

// NodeID identifies a generator inside the graph.
type NodeID uint64

func (id NodeID) String() string { return fmt.Sprintf("node-%d", uint64(id)) }

// maxChannels bounds the channel count of a single generator.
const maxChannels = 8

type node struct {
	id      NodeID
	gen     Generator
	out     [][]float32 // scratch buffers, one per generator channel
	playing atomic.Bool
}

func newNode(id NodeID, gen Generator, blockSize int) *node {
	n := &node{id: id, gen: gen, out: make([][]float32, gen.Channels())}
	for ch := range n.out {
		n.out[ch] = make([]float32, blockSize)
	}
	n.playing.Store(true)
	return n
}

// Graph mixes the output of its nodes. Process runs on the render thread; topology
// changes reach it through a command queue and are applied at the start of a callback.
type Graph struct {
	sampleRate float64
	blockSize  int
	channels   int
	commands   *commandQueue
	nodes      []*node // owned by the render thread
	waiting    []*node // inserts that found the table full, oldest first
	views      [][]float32
}

func newGraph(sampleRate float64, blockSize, channels, maxNodes int) *Graph {
	return &Graph{
		sampleRate: sampleRate,
		blockSize:  blockSize,
		channels:   channels,
		commands:   newCommandQueue(queueSize(max(4*maxNodes, 64))),
		nodes:      make([]*node, 0, maxNodes),
		waiting:    make([]*node, 0, maxNodes),
		views:      make([][]float32, 0, maxChannels),
	}
}

// queueSize rounds n up to a power of two.
func queueSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// Process renders len(out[0]) frames into out, in sub-blocks of at most the
// configured block size.
func (g *Graph) Process(out [][]float32) {
	for _, ch := range out {
		for i := range ch {
			ch[i] = 0
		}
	}
	g.commands.drain(g.apply)
	g.promote()
	if len(out) == 0 {
		return
	}
	for start := 0; start < len(out[0]); start += g.blockSize {
		end := start + g.blockSize
		if end > len(out[0]) {
			end = len(out[0])
		}
		g.processBlock(out, start, end)
	}
}

func (g *Graph) apply(cmd command) {
	switch cmd.op {
	case opInsert:
		g.promote()
		switch {
		case len(g.waiting) == 0 && len(g.nodes) < cap(g.nodes):
			g.nodes = append(g.nodes, cmd.node)
		case len(g.waiting) < cap(g.waiting):
			g.waiting = append(g.waiting, cmd.node)
		default:
			// nowhere to keep it
			cmd.node.playing.Store(false)
		}
	case opRemove:
		for i, n := range g.nodes {
			if n.id == cmd.id {
				g.remove(i)
				return
			}
		}
		for i, n := range g.waiting {
			if n.id == cmd.id {
				copy(g.waiting[i:], g.waiting[i+1:])
				g.waiting[len(g.waiting)-1] = nil
				g.waiting = g.waiting[:len(g.waiting)-1]
				n.playing.Store(false)
				return
			}
		}
	}
}

// promote moves waiting nodes into free slots of the node table.
func (g *Graph) promote() {
	k := 0
	for k < len(g.waiting) && len(g.nodes) < cap(g.nodes) {
		g.nodes = append(g.nodes, g.waiting[k])
		k++
	}
	if k == 0 {
		return
	}
	n := copy(g.waiting, g.waiting[k:])
	clear(g.waiting[n:])
	g.waiting = g.waiting[:n]
}

func (g *Graph) processBlock(out [][]float32, start, end int) {
	frames := end - start
	for i := 0; i < len(g.nodes); {
		n := g.nodes[i]
		g.views = g.views[:0]
		for _, ch := range n.out {
			g.views = append(g.views, ch[:frames])
		}
		state := n.gen.Process(g.sampleRate, g.views)
		g.mix(out, start, g.views)
		if state == Finished {
			g.remove(i)
			continue
		}
		i++
	}
}

// mix adds a node's output to the graph output. A mono node is heard on every
// output channel.
func (g *Graph) mix(out [][]float32, start int, src [][]float32) {
	if len(src) == 1 {
		for _, dst := range out {
			for i, s := range src[0] {
				dst[start+i] += s
			}
		}
		return
	}
	for ch := 0; ch < len(src) && ch < len(out); ch++ {
		dst := out[ch][start:]
		for i, s := range src[ch] {
			dst[i] += s
		}
	}
}

func (g *Graph) remove(i int) {
	n := g.nodes[i]
	last := len(g.nodes) - 1
	g.nodes[i] = g.nodes[last]
	g.nodes[last] = nil
	g.nodes = g.nodes[:last]
	n.playing.Store(false)
}
