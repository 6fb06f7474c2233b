package server

import (
	"sync"

	"github.com/google/uuid"
)

const sendQueueSize = 32

// Client is one live connection as seen by the hub. The transport supplies
// the line writer and the underlying close; the hub owns registration state.
type Client struct {
	ID string

	send      chan string
	writeLine func(string) error
	closeConn func() error
	closeOnce sync.Once
}

// NewClient wraps a transport connection. writeLine must append the line
// terminator itself; closeConn tears down the underlying connection so the
// transport's read loop unblocks.
func NewClient(writeLine func(string) error, closeConn func() error) *Client {
	return &Client{
		ID:        uuid.NewString(),
		send:      make(chan string, sendQueueSize),
		writeLine: writeLine,
		closeConn: closeConn,
	}
}

// enqueue appends a line to the outbound queue without blocking. It reports
// false when the queue is full, which the hub treats as a dead connection so
// one slow client cannot stall a broadcast.
func (c *Client) enqueue(line string) bool {
	select {
	case c.send <- line:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		_ = c.closeConn()
	})
}

// writeLoop drains the outbound queue onto the wire. It runs in its own
// goroutine per connection; a write failure reports the client to the hub and
// the loop keeps draining until the hub closes the queue.
func (c *Client) writeLoop(h *Hub) {
	for line := range c.send {
		if err := c.writeLine(line); err != nil {
			h.Drop(c)
			break
		}
	}
	for range c.send {
	}
	c.close()
}
