// ABOUTME: Page store backed by the page API over HTTP
// ABOUTME: Lets editing clients load and save pages without direct database access

package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pagesmith-api/core/errors"
	"pagesmith-api/core/interfaces"
)

const maxPageSize = 8 << 20

// Store implements interfaces.PageStore against GET/PUT /pages/{pageId}
type Store struct {
	client  interfaces.HTTPClient
	baseURL string
}

var _ interfaces.PageStore = (*Store)(nil)

// NewStore creates a store for the API at baseURL (e.g. http://localhost:8080)
func NewStore(client interfaces.HTTPClient, baseURL string) *Store {
	return &Store{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Load fetches the canonical content of pageID
func (s *Store) Load(ctx context.Context, pageID string) ([]byte, error) {
	resp, err := s.client.Get(ctx, s.pageURL(pageID))
	if err != nil {
		return nil, errors.WrapError(err, "load page")
	}
	body := resp.Body()
	defer body.Close()

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, &errors.NotFoundError{Resource: "page", ID: pageID}
	case code != http.StatusOK:
		return nil, fmt.Errorf("load page %s: server returned %d", pageID, code)
	}

	data, err := io.ReadAll(io.LimitReader(body, maxPageSize+1))
	if err != nil {
		return nil, errors.WrapError(err, "read page")
	}
	if len(data) > maxPageSize {
		return nil, fmt.Errorf("load page %s: content exceeds %d bytes", pageID, maxPageSize)
	}
	return data, nil
}

// Store replaces the content of pageID
func (s *Store) Store(ctx context.Context, pageID string, content []byte) error {
	resp, err := s.client.Put(ctx, s.pageURL(pageID), bytes.NewReader(content))
	if err != nil {
		return errors.WrapError(err, "store page")
	}
	body := resp.Body()
	defer body.Close()

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(body, 512))
		return fmt.Errorf("store page %s: server returned %d: %s", pageID, code, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (s *Store) pageURL(pageID string) string {
	return s.baseURL + "/pages/" + url.PathEscape(pageID)
}
