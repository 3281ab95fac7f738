package audio

import (
	"runtime"
	"sync/atomic"
)

type opcode int

const (
	opInsert opcode = iota
	opRemove
)

// command is a topology change sent from control code to the render thread.
type command struct {
	op   opcode
	node *node  // opInsert
	id   NodeID // opRemove
}

// commandQueue is a lock-free spsc queue.
type commandQueue struct {
	commands    []command
	read, write atomic.Uint32
}

func newCommandQueue(size int) *commandQueue {
	if size <= 0 || size&(size-1) != 0 {
		panic("command queue size must be a power of 2")
	}
	return &commandQueue{commands: make([]command, size)}
}

// push blocks while the queue is full. It must only be called from one goroutine at
// a time.
func (q *commandQueue) push(cmd command) {
	for q.write.Load()-q.read.Load() == uint32(len(q.commands)) {
		runtime.Gosched()
	}
	write := q.write.Load()
	q.commands[write%uint32(len(q.commands))] = cmd
	q.write.Store(write + 1)
}

// drain hands every queued command to f in order.
func (q *commandQueue) drain(f func(command)) {
	read := q.read.Load()
	write := q.write.Load()
	for ; read != write; read++ {
		slot := &q.commands[read%uint32(len(q.commands))]
		f(*slot)
		*slot = command{}
	}
	q.read.Store(read)
}

func (q *commandQueue) len() int {
	return int(q.write.Load() - q.read.Load())
}
