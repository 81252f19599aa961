package omnichat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentType tags a ContentBlock.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image_url"
)

// ContentBlock is one typed unit within a message: either text or an image.
// URL holds a remote URL or a data URI for image blocks.
type ContentBlock struct {
	Type ContentType
	Text string
	URL  string
}

// Text returns a text block.
func Text(s string) ContentBlock {
	return ContentBlock{Type: ContentText, Text: s}
}

// Image returns an image block for a URL or data URI.
func Image(url string) ContentBlock {
	return ContentBlock{Type: ContentImage, URL: url}
}

type imageURL struct {
	URL string `json:"url"`
}

type textPart struct {
	Type ContentType `json:"type"`
	Text string      `json:"text"`
}

type imagePart struct {
	Type     ContentType `json:"type"`
	ImageURL imageURL    `json:"image_url"`
}

// MarshalJSON encodes the block in the chat completions content-part format.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case ContentText:
		return json.Marshal(textPart{Type: b.Type, Text: b.Text})
	case ContentImage:
		return json.Marshal(imagePart{Type: b.Type, ImageURL: imageURL{URL: b.URL}})
	default:
		return nil, fmt.Errorf("unknown content type: %q", b.Type)
	}
}

// Message represents a single message in a conversation.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// PlainText joins the text blocks of the message. Image blocks are rendered as
// a short placeholder so the result stays readable in a terminal.
func (m Message) PlainText() string {
	parts := make([]string, 0, len(m.Content))
	for _, block := range m.Content {
		switch block.Type {
		case ContentText:
			parts = append(parts, block.Text)
		case ContentImage:
			parts = append(parts, "[image]")
		}
	}
	return strings.Join(parts, " ")
}
