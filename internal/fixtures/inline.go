// internal/fixtures/inline.go
package fixtures

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// DomainAlt selects the alternate origin for a minted document.
const DomainAlt = "alt"

type inlineOptions struct {
	domain      string
	charset     string
	contentType string
}

// InlineOption customizes a document minted by Inline.
type InlineOption func(*inlineOptions)

// WithDomain serves the document from the named domain. The empty string is
// the primary origin; "alt" is the alternate origin.
func WithDomain(domain string) InlineOption {
	return func(o *inlineOptions) {
		o.domain = domain
	}
}

// WithAltDomain serves the document from the alternate origin.
func WithAltDomain() InlineOption {
	return WithDomain(DomainAlt)
}

// WithCharset declares the document charset. Non-UTF-8 documents are encoded
// accordingly before serving.
func WithCharset(charset string) InlineOption {
	return func(o *inlineOptions) {
		o.charset = charset
	}
}

// WithContentType overrides the served content type entirely.
func WithContentType(contentType string) InlineOption {
	return func(o *inlineOptions) {
		o.contentType = contentType
	}
}

// Inline registers an HTML snippet as a complete, uniquely addressable document
// and returns its URL. Each call mints a distinct URL even for identical
// content. A malformed fixture definition (unknown domain or charset) is a
// programming error in the calling check and panics.
func (s *Server) Inline(content string, opts ...InlineOption) string {
	o := inlineOptions{charset: "utf-8"}
	for _, opt := range opts {
		opt(&o)
	}

	page := buildDocument(content, o.charset)
	body, err := encodeBody(page, o.charset)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = "text/html; charset=" + o.charset
	}

	s.mu.Lock()
	s.seq++
	id := strconv.FormatInt(s.seq, 10)
	s.docs[id] = &document{body: body, contentType: contentType}

	var base string
	switch o.domain {
	case "":
		base = s.primaryBase
	case DomainAlt:
		base = s.altBase
	default:
		s.mu.Unlock()
		panic(fmt.Sprintf("fixtures: unknown domain %q", o.domain))
	}
	s.mu.Unlock()

	if base == "" {
		panic("fixtures: server origins not assigned; call Start or SetOrigins first")
	}

	return fmt.Sprintf("%s/inline/%s", base, id)
}

// CharsetSupported reports whether the charset name maps to a known encoding.
func CharsetSupported(charset string) bool {
	if isUTF8(charset) {
		return true
	}
	_, err := htmlindex.Get(charset)
	return err == nil
}

// buildDocument wraps a snippet into a minimal complete HTML document.
func buildDocument(content, charset string) string {
	return fmt.Sprintf("<!doctype html>\n<meta charset=\"%s\">\n%s", charset, content)
}

// encodeBody converts the document into the byte encoding the declared
// charset requires.
func encodeBody(page, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return []byte(page), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}

	encoded, err := enc.NewEncoder().Bytes([]byte(page))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document as %s: %w", charset, err)
	}
	return encoded, nil
}

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "":
		return true
	}
	return false
}
