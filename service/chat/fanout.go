package chat

import (
	"sync"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
)

type fanoutJob struct {
	conns   []*Client
	payload []byte
}

// Fanout pushes payloads into per-connection send queues. A single worker
// drains the job queue, so two broadcasts to the same room (or the same
// direct pair) reach every member's queue in submission order.
type Fanout struct {
	jobs     chan fanoutJob
	stopOnce sync.Once
	stopped  chan struct{} // closed when Close begins
	done     chan struct{} // closed when the worker exits
}

func NewFanout(queue int) *Fanout {
	if queue <= 0 {
		queue = 1024
	}
	f := &Fanout{
		jobs:    make(chan fanoutJob, queue),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go f.worker()
	return f
}

func (f *Fanout) worker() {
	defer close(f.done)
	for {
		select {
		case <-f.stopped:
			return
		case job := <-f.jobs:
			for _, c := range job.conns {
				if !c.enqueue(job.payload) {
					// slow or closing client: drop, never block the fan-out
					logger.Debugf("[fanout] drop payload conn=%s user=%s", c.ConnID, c.UserID)
				}
			}
		}
	}
}

// Broadcast submits a payload for the given connections. Empty target set or
// payload is a silent no-op, as is a broadcast after Close.
func (f *Fanout) Broadcast(conns []*Client, payload []byte) {
	if len(conns) == 0 || len(payload) == 0 {
		return
	}
	select {
	case <-f.stopped:
	case f.jobs <- fanoutJob{conns: conns, payload: payload}:
	}
}

// Close stops the worker; jobs still queued are dropped. The jobs channel is
// never closed, so a racing Broadcast cannot panic.
func (f *Fanout) Close() {
	f.stopOnce.Do(func() { close(f.stopped) })
	<-f.done
}
