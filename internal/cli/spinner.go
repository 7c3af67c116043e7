package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line while a layout or render runs. It stops on
// Stop or when its parent context ends, whichever comes first.
type spinner struct {
	out     io.Writer
	message string

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	wg   sync.WaitGroup
	once sync.Once
}

func newSpinner(message string) *spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(parent context.Context, message string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	return &spinner{
		out:     os.Stderr,
		message: message,
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start draws frames in the background until the spinner is stopped.
func (s *spinner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[frame%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", StyleHighlight.Render(frame), StyleDim.Render(s.message))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Stop halts the animation and clears the line. Safe to call repeatedly.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.clear()
	})
}

func (s *spinner) StopWithSuccess(message string) {
	s.Stop()
	newUI(s.out).success("%s", message)
}

func (s *spinner) StopWithError(message string) {
	s.Stop()
	newUI(s.out).failure("%s", message)
}

// Cancelled reports whether the parent context ended, as opposed to an
// explicit Stop.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
