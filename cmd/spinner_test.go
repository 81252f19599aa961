package cmd

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestSpinnerStopsOnFirstWrite(t *testing.T) {
	var status syncBuffer
	var out bytes.Buffer

	s := startSpinner(&status, true)
	w := s.Writer(&out)

	if _, err := w.Write([]byte("He")); err != nil {
		t.Fatal(err)
	}
	after := status.String()
	if _, err := w.Write([]byte("llo")); err != nil {
		t.Fatal(err)
	}
	s.Stop()

	if out.String() != "Hello" {
		t.Errorf("output = %q, want Hello", out.String())
	}
	if status.String() != after {
		t.Error("spinner kept drawing after the first write")
	}
	if !strings.HasSuffix(after, "\r\033[K") {
		t.Errorf("spinner did not clear its line: %q", after)
	}
}

func TestDisabledSpinnerDrawsNothing(t *testing.T) {
	var status syncBuffer
	var out bytes.Buffer

	s := startSpinner(&status, false)
	if _, err := s.Writer(&out).Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	s.Stop()

	if status.String() != "" {
		t.Errorf("status = %q, want empty", status.String())
	}
}
