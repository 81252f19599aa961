package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// spinner shows a waiting animation until the first reply byte arrives.
type spinner struct {
	w       io.Writer
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner starts the animation on w. A disabled spinner draws nothing.
func startSpinner(w io.Writer, enabled bool) *spinner {
	s := &spinner{w: w, done: make(chan struct{}), stopped: make(chan struct{})}
	if !enabled {
		close(s.stopped)
		return s
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)

	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(frames) {
		fmt.Fprintf(s.w, "%s Waiting for response...", frames[i])
		select {
		case <-s.done:
			// Clear the spinner text
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			fmt.Fprint(s.w, "\r\033[K")
		}
	}
}

// Stop clears the animation and waits for it to finish. Safe to call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

// Writer returns a writer that stops the spinner before the first write to w.
func (s *spinner) Writer(w io.Writer) io.Writer {
	return spinnerWriter{s: s, w: w}
}

type spinnerWriter struct {
	s *spinner
	w io.Writer
}

func (sw spinnerWriter) Write(p []byte) (int, error) {
	sw.s.Stop()
	return sw.w.Write(p)
}
