package signature

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
)

const (
	// Type, Filter and SubFilter are the fixed markers written into every container.
	Type      = "/Sig"
	Filter    = "/Adobe.PPKLite"
	SubFilter = "/adbe.pkcs7.detached"
)

var (
	// openMarker and closeMarker delimit a container in the byte stream. The
	// close marker is the '>' that ends the /Contents value followed by the
	// dictionary terminator.
	openMarker  = []byte("<<\n/Type /Sig")
	closeMarker = []byte(">\n>>")

	contentsPattern  = regexp.MustCompile(`/Contents\s*<([0-9A-Fa-f]+)>`)
	byteRangePattern = regexp.MustCompile(`/ByteRange\s*\[\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s*\]`)
	filterPattern    = regexp.MustCompile(`/Filter\s*(/\S+)`)
	subFilterPattern = regexp.MustCompile(`/SubFilter\s*(/\S+)`)
	typePattern      = regexp.MustCompile(`/Type\s*(/\S+)`)
)

// Container is the parsed form of a signature block.
type Container struct {
	Type      string
	Filter    string
	SubFilter string
	// ByteRange is the declared (offset, length) pairs. The signer always
	// writes [0 N N 0] where N is the original document length.
	ByteRange [4]int64
	Contents  []byte
}

// Span is the position of a container within a signed document.
// Start is the index of the opening marker and End is one past the closing marker.
type Span struct {
	Start int
	End   int
}

// Build renders the container text for a signature over a document of docLen bytes.
func Build(signature []byte, docLen int) []byte {
	var b bytes.Buffer
	b.WriteString("<<\n")
	b.WriteString("/Type " + Type + "\n")
	b.WriteString("/Filter " + Filter + "\n")
	b.WriteString("/SubFilter " + SubFilter + "\n")
	fmt.Fprintf(&b, "/ByteRange [0 %d %d 0]\n", docLen, docLen)
	b.WriteString("/Contents <")
	b.WriteString(hex.EncodeToString(signature))
	b.WriteString(">\n")
	b.WriteString(">>")
	return b.Bytes()
}

// Locate finds the signature container in a signed document.
//
// The scan looks for the opening marker from the right, because containers
// are only ever appended. A document with no opening marker returns
// ErrNoSignature. A document with more than one opening marker returns
// ErrMultipleSignatures rather than guessing which container is meant. The
// container ends at the last closing marker that follows the opening one;
// if there is none the container is malformed.
func Locate(signed []byte) (Span, error) {
	start := bytes.LastIndex(signed, openMarker)
	if start < 0 {
		return Span{}, kerrors.ErrNoSignature
	}
	if bytes.LastIndex(signed[:start], openMarker) >= 0 {
		return Span{}, kerrors.ErrMultipleSignatures
	}

	rel := bytes.LastIndex(signed[start:], closeMarker)
	if rel < 0 {
		return Span{}, fmt.Errorf("%w: container is not terminated", kerrors.ErrMalformedSignature)
	}

	return Span{Start: start, End: start + rel + len(closeMarker)}, nil
}

// Reconstruct rebuilds the bytes that were signed: the data before the
// container and the data after it, each with trailing whitespace removed,
// followed by a single newline.
func Reconstruct(signed []byte, span Span) []byte {
	before := trimTrailingSpace(signed[:span.Start])
	after := trimTrailingSpace(signed[span.End:])

	message := make([]byte, 0, len(before)+len(after)+1)
	message = append(message, before...)
	message = append(message, after...)
	return append(message, '\n')
}

// SigningInput returns the bytes a signer must sign so that Reconstruct
// recovers them from the signed output.
func SigningInput(document []byte) []byte {
	trimmed := trimTrailingSpace(document)
	message := make([]byte, 0, len(trimmed)+1)
	message = append(message, trimmed...)
	return append(message, '\n')
}

// extractSignature pulls the hex signature value out of a container.
func extractSignature(container []byte) ([]byte, error) {
	match := contentsPattern.FindSubmatch(container)
	if match == nil {
		return nil, fmt.Errorf("%w: no /Contents value", kerrors.ErrMalformedSignature)
	}
	sig, err := hex.DecodeString(string(match[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: /Contents is not valid hex: %v", kerrors.ErrMalformedSignature, err)
	}
	return sig, nil
}

// Parse reads every field of a container. Only /Contents is required; the
// other fields are left empty when absent.
func Parse(container []byte) (*Container, error) {
	sig, err := extractSignature(container)
	if err != nil {
		return nil, err
	}

	c := &Container{Contents: sig}
	if m := typePattern.FindSubmatch(container); m != nil {
		c.Type = string(m[1])
	}
	if m := filterPattern.FindSubmatch(container); m != nil {
		c.Filter = string(m[1])
	}
	if m := subFilterPattern.FindSubmatch(container); m != nil {
		c.SubFilter = string(m[1])
	}
	if m := byteRangePattern.FindSubmatch(container); m != nil {
		for i := range c.ByteRange {
			n, err := strconv.ParseInt(string(m[i+1]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: /ByteRange value %q: %v", kerrors.ErrMalformedSignature, m[i+1], err)
			}
			c.ByteRange[i] = n
		}
	}
	return c, nil
}

// Inspect locates and parses the container of a signed document.
func Inspect(signed []byte) (*Container, Span, error) {
	span, err := Locate(signed)
	if err != nil {
		return nil, Span{}, err
	}
	c, err := Parse(signed[span.Start:span.End])
	if err != nil {
		return nil, Span{}, err
	}
	return c, span, nil
}

// trimTrailingSpace drops trailing ASCII whitespace: space, \t, \n, \v, \f and \r.
func trimTrailingSpace(b []byte) []byte {
	return bytes.TrimRight(b, " \t\n\v\f\r")
}
