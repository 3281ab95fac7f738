package audio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestID identifies a request to play a sound.
type RequestID = uuid.UUID

// Attacher inserts generators into a running graph. *Engine implements it.
type Attacher interface {
	Attach(gen Generator) NodeID
}

// Binding is what a request turned into once attached.
type Binding struct {
	Node    NodeID
	Control Control
}

type request struct {
	id     RequestID
	stream func() (Generator, Control)

	attached bool
	binding  Binding
}

// Binder attaches requested sounds to the graph. Requests queue up with Play and are
// attached on the next call to Update, exactly once each.
type Binder struct {
	attacher Attacher

	mu       sync.Mutex
	pending  []*request
	requests map[RequestID]*request
}

func NewBinder(a Attacher) *Binder {
	return &Binder{
		attacher: a,
		requests: make(map[RequestID]*request),
	}
}

// Handle refers to a request and gives typed access to its control.
type Handle[C Control] struct {
	binder *Binder
	id     RequestID
}

// Play records a request to play s. Nothing is instantiated until the next Update.
func Play[C Control](b *Binder, s Streamable[C]) Handle[C] {
	req := &request{
		id: uuid.New(),
		stream: func() (Generator, Control) {
			gen, ctl := s.Stream()
			return gen, ctl
		},
	}
	b.mu.Lock()
	b.pending = append(b.pending, req)
	b.requests[req.id] = req
	b.mu.Unlock()
	return Handle[C]{binder: b, id: req.id}
}

// Update attaches every request that has no node yet and returns how many it
// attached.
func (b *Binder) Update() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, req := range b.pending {
		if req.attached {
			continue
		}
		gen, ctl := req.stream()
		req.binding = Binding{Node: b.attacher.Attach(gen), Control: ctl}
		req.attached = true
		req.stream = nil
		n++
		slog.Debug("request attached", "request", req.id, "node", req.binding.Node)
	}
	clear(b.pending)
	b.pending = b.pending[:0]
	return n
}

// Run calls Update every interval until ctx is done.
func (b *Binder) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Update()
		}
	}
}

// Lookup returns the binding of a request. ok is false while the request is still
// pending or when it is unknown.
func (b *Binder) Lookup(id RequestID) (Binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, found := b.requests[id]
	if !found || !req.attached {
		return Binding{}, false
	}
	return req.binding, true
}

// Forget drops the record of a request. A pending request is never attached.
func (b *Binder) Forget(id RequestID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.requests[id]
	if !ok {
		return
	}
	delete(b.requests, id)
	if !req.attached {
		for i, p := range b.pending {
			if p == req {
				b.pending = append(b.pending[:i], b.pending[i+1:]...)
				break
			}
		}
	}
}

func (h Handle[C]) ID() RequestID { return h.id }

// Node returns the node id once the request has been attached.
func (h Handle[C]) Node() (NodeID, bool) {
	b, ok := h.binder.Lookup(h.id)
	return b.Node, ok
}

// Control returns the control handle once the request has been attached.
func (h Handle[C]) Control() (C, bool) {
	b, ok := h.binder.Lookup(h.id)
	if !ok {
		var zero C
		return zero, false
	}
	return b.Control.(C), true
}
