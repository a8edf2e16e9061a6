// Package vision suggests a title for a newly selected work image using a
// vision model.
package vision

import (
	"context"
	"io"
)

// TitlePrompt is the shared prompt used by all vision adapters.
const TitlePrompt = `This photo shows a work from an architecture and interior design portfolio.
Suggest a short gallery title for it (at most six words).
Respond with the title only, on a single line, without quotes.`

type Suggester interface {
	SuggestTitle(ctx context.Context, r io.Reader, mimeType string) (string, error)
}
