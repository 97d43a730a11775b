package reconcile

import (
	"context"
	"fmt"

	"connector/internal/domain"
)

type sequenceIDs struct {
	n int
}

func (s *sequenceIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type stubRenderer struct {
	content string
	err     error
}

func (r *stubRenderer) DataURI(content string) (string, error) {
	r.content = content
	if r.err != nil {
		return "", r.err
	}
	return pngDataURIPrefix + "iVBORw0KGgo=", nil
}

type stubDocuments struct {
	calls []string
	url   domain.DocumentURL
	err   error
}

func (d *stubDocuments) GetDocumentURL(_ context.Context, key string) (domain.DocumentURL, error) {
	d.calls = append(d.calls, key)
	return d.url, d.err
}
