package chat

import (
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

// Handler processes one inbound event kind.
type Handler interface {
	Event() string
	Handle(ctx *Context, f *Frame, c *Client) error
}

// Context hands handlers the server they run inside.
type Context struct {
	S *Server
}

type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// Register installs a handler. Call during wiring, before the server accepts
// connections; the map is read-only afterwards.
func (d *Dispatcher) Register(h Handler) { d.handlers[h.Event()] = h }

func (d *Dispatcher) Dispatch(ctx *Context, f *Frame, c *Client) error {
	h, ok := d.handlers[f.Event]
	if !ok {
		return errs.New("no handler for event", "event", f.Event)
	}
	return h.Handle(ctx, f, c)
}
