// Package llm wraps the language-model client used by the catalog
// extractor to normalize scraped camp listings.
package llm

import "context"

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Client is a text generator backed by a remote service that must be
// closed when the process exits.
type Client interface {
	TextGenerator
	Closer
}
