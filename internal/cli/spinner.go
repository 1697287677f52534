package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// spinner is a minimal stderr progress indicator. It stops on its own
// when the context is cancelled.
type spinner struct {
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	frames  []string
}

func newSpinner(ctx context.Context, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				fmt.Fprintf(os.Stderr, "\r%s %s", styleSpin.Render(frame), styleDim.Render(s.message))
				i++
			}
		}
	}()
}

// stop halts the animation and clears the line. Safe to call once.
func (s *spinner) stop() {
	s.cancel()
	<-s.stopped
}

func (s *spinner) clearLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
