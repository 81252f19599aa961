// Package content splits free-form user input into ordered text and image
// blocks. Images are written inline with the markup ![](path-or-url).
package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/longkey1/omnichat/internal/omnichat"
	"go.uber.org/zap"
)

var imagePattern = regexp.MustCompile(`!\[\]\((.+?)\)`)

// Resolver turns an image reference into a URL or data URI.
type Resolver interface {
	Resolve(ref string) (string, error)
}

// Assembler builds message content from raw user text.
type Assembler struct {
	resolver Resolver
	logger   *zap.SugaredLogger
}

// NewAssembler creates an assembler using resolver for every image reference.
func NewAssembler(resolver Resolver, logger *zap.SugaredLogger) *Assembler {
	return &Assembler{resolver: resolver, logger: logger}
}

// FailureMarker is the text emitted in place of an image that could not be resolved.
func FailureMarker(ref string) string {
	return fmt.Sprintf("[Image processing failed for: %s]", ref)
}

// Assemble scans text left to right and returns its content blocks in reading
// order. Text around images is trimmed; text without any image marker is kept
// verbatim as a single block.
func (a *Assembler) Assemble(text string) []omnichat.ContentBlock {
	var blocks []omnichat.ContentBlock
	lastEnd := 0

	for _, m := range imagePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]

		if before := strings.TrimSpace(text[lastEnd:start]); before != "" {
			blocks = append(blocks, omnichat.Text(before))
		}

		ref := strings.TrimSpace(text[m[2]:m[3]])
		url, err := a.resolver.Resolve(ref)
		if err != nil {
			a.logger.Warnw("Image could not be resolved", "ref", ref, "error", err)
			blocks = append(blocks, omnichat.Text(FailureMarker(ref)))
		} else {
			blocks = append(blocks, omnichat.Image(url))
		}

		lastEnd = end
	}

	if remaining := strings.TrimSpace(text[lastEnd:]); remaining != "" {
		blocks = append(blocks, omnichat.Text(remaining))
	}

	if len(blocks) == 0 {
		blocks = append(blocks, omnichat.Text(text))
	}

	return blocks
}
