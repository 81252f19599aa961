// Package input reads multi-line user messages from an interactive terminal.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CommandPrefix starts a slash command such as /help.
const CommandPrefix = "/"

// Message is one unit of user input.
type Message struct {
	Text    string // Lines joined with "\n", end marker excluded
	Command string // Set instead of Text when the first line is a slash command
}

// Reader collects lines until a line equal to the end marker.
type Reader struct {
	scanner   *bufio.Scanner
	endMarker string
	eof       bool
}

// NewReader creates a reader over r that ends each message at endMarker.
func NewReader(r io.Reader, endMarker string) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner, endMarker: endMarker}
}

// ReadMessage returns the next message.
//
// A first line starting with CommandPrefix is returned at once as a command.
// At end of input the pending lines are returned as a final message, and the
// following call returns io.EOF.
func (r *Reader) ReadMessage() (Message, error) {
	if r.eof {
		return Message{}, io.EOF
	}

	var lines []string
	for r.scanner.Scan() {
		line := strings.TrimRight(r.scanner.Text(), "\r")

		if len(lines) == 0 && strings.HasPrefix(strings.TrimSpace(line), CommandPrefix) {
			return Message{Command: strings.TrimSpace(line)}, nil
		}
		if line == r.endMarker {
			return Message{Text: strings.Join(lines, "\n")}, nil
		}
		lines = append(lines, line)
	}

	if err := r.scanner.Err(); err != nil {
		return Message{}, fmt.Errorf("input error: %w", err)
	}

	r.eof = true
	if len(lines) == 0 {
		return Message{}, io.EOF
	}
	return Message{Text: strings.Join(lines, "\n")}, nil
}
