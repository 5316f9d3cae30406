package handlers

import (
	"context"
	"sync"

	"pagesmith-api/core/domain"
	"pagesmith-api/core/errors"
	"pagesmith-api/core/render"
)

// mockPageService is a hand-written fake of interfaces.PageService
type mockPageService struct {
	mu        sync.Mutex
	pages     map[string]domain.PageContent
	storeErr  error
	published []domain.Event
	lastOpts  render.Options
	lastMax   int
}

func newMockPageService() *mockPageService {
	return &mockPageService{pages: make(map[string]domain.PageContent)}
}

func (m *mockPageService) Load(ctx context.Context, pageID string) (domain.PageContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pageID == "bad!" {
		return domain.PageContent{}, &errors.ValidationError{Field: "pageId", Message: "invalid page id"}
	}
	c, ok := m.pages[pageID]
	if !ok {
		return domain.PageContent{}, &errors.NotFoundError{Resource: "page", ID: pageID}
	}
	return c, nil
}

func (m *mockPageService) Store(ctx context.Context, pageID string, c domain.PageContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return m.storeErr
	}
	m.pages[pageID] = c
	return nil
}

func (m *mockPageService) Render(ctx context.Context, pageID string, opts render.Options) (render.Output, error) {
	c, err := m.Load(ctx, pageID)
	if err != nil {
		return render.Output{}, err
	}
	m.mu.Lock()
	m.lastOpts = opts
	m.mu.Unlock()
	return render.Render(c, domain.ScopeID(pageID), opts), nil
}

func (m *mockPageService) Static(ctx context.Context, pageID string) (string, error) {
	c, err := m.Load(ctx, pageID)
	if err != nil {
		return "", err
	}
	if c.IsLegacy() {
		return "", &errors.ValidationError{Field: "content", Message: "legacy content has no static rendering"}
	}
	return render.ToStaticDocument(c, render.StaticOptions{Scoped: true, ScopeID: domain.ScopeID(pageID)}), nil
}

func (m *mockPageService) Text(ctx context.Context, pageID string, maxLength int) (string, error) {
	c, err := m.Load(ctx, pageID)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.lastMax = maxLength
	m.mu.Unlock()
	return render.ExtractTextContent(c, maxLength), nil
}

func (m *mockPageService) Markdown(ctx context.Context, pageID string) (string, error) {
	c, err := m.Load(ctx, pageID)
	if err != nil {
		return "", err
	}
	return render.ToMarkdown(c), nil
}

func (m *mockPageService) Publish(ctx context.Context, pageID string, event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !event.Type.Valid() {
		return &errors.ValidationError{Field: "type", Message: "unknown event type"}
	}
	m.published = append(m.published, event)
	return nil
}

type mockMetadataService struct {
	meta *domain.PageMetadata
	err  error
}

func (m *mockMetadataService) ExtractMetadata(ctx context.Context, pageID string) (*domain.PageMetadata, error) {
	return m.meta, m.err
}
