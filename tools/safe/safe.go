package safe

import (
	"github.com/SHANKAR-YADAVA/ChatApp/logger"
)

// Go starts a goroutine that recovers from panic, so a misbehaving handler
// cannot take down the whole process.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}

// Call runs f inline with panic recovery. Used at event-handler entry points
// where one bad frame must not stop the read loop.
func Call(f func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[safe.Call] panic recovered: %v", r)
		}
	}()
	f()
}
