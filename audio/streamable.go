package audio

// State is returned by a Generator after rendering a block.
type State int

const (
	// Continue keeps the generator in the graph.
	Continue State = iota
	// Finished asks the graph to drop the generator after the current block.
	Finished
)

func (s State) String() string {
	switch s {
	case Continue:
		return "continue"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// A Generator produces audio on the render thread. Process fills out, which holds
// Channels() slices of equal length, and must not allocate, block or call back into
// control code.
type Generator interface {
	Channels() int
	Inputs() int
	Process(sampleRate float64, out [][]float32) State
}

// A Control is the control side of a generator. Controls stay valid after their
// generator has been dropped from the graph; they just stop having any effect.
type Control interface {
	Device
}

// Streamable describes a sound that can be turned into a running generator and the
// control handle paired with it.
type Streamable[C Control] interface {
	Stream() (Generator, C)
}
