package workflows

import (
	"context"

	"github.com/PolarWolf314/pinsign/internal/signature"
)

// InspectResult describes the signature container of a document.
type InspectResult struct {
	Path      string
	Container *signature.Container
	Span      signature.Span

	// DocumentLength is the length of the bytes preceding the separator
	// newline. It matches Container.ByteRange[1] for untouched output.
	DocumentLength int
}

// ByteRangeMatches reports whether /ByteRange agrees with the document length.
func (r *InspectResult) ByteRangeMatches() bool {
	n := int64(r.DocumentLength)
	return r.Container.ByteRange == [4]int64{0, n, n, 0}
}

// Inspect parses the signature container of the document at path without
// verifying it.
//
// Returns ErrNoSignature if the document carries no container.
// Returns ErrMalformedSignature if the container cannot be parsed.
func Inspect(ctx context.Context, path string) (*InspectResult, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	signed, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	container, span, err := signature.Inspect(signed)
	if err != nil {
		return nil, err
	}

	docLen := span.Start
	if docLen > 0 && signed[docLen-1] == '\n' {
		docLen--
	}

	return &InspectResult{
		Path:           path,
		Container:      container,
		Span:           span,
		DocumentLength: docLen,
	}, nil
}
