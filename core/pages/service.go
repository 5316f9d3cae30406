// ABOUTME: Page service loads, stores and renders page content
// ABOUTME: Provides business logic for page operations independent of HTTP layer

package pages

import (
	"context"
	"errors"
	"sync"
	"time"

	"pagesmith-api/core/content"
	"pagesmith-api/core/domain"
	coreerrors "pagesmith-api/core/errors"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/core/render"
	"pagesmith-api/core/services"
	"pagesmith-api/pkg/featureflags"
)

const (
	staticCachePrefix = "static:"
	maxPageIDLength   = 128
)

// Config holds page service settings
type Config struct {
	// Lang is the document language of static output
	Lang string

	// StaticTTL is how long static documents stay cached
	StaticTTL time.Duration
}

// Service handles page content and its renderings
type Service struct {
	deps      interfaces.Dependencies
	cfg       Config
	metadata  interfaces.MetadataService
	hub       interfaces.Broadcaster
	prerender interfaces.Prerenderer

	// generations counts invalidations per page so a render that raced a
	// store does not repopulate the cache with the old document
	cacheMu     sync.Mutex
	generations map[string]uint64
}

// NewService creates a new page service instance
func NewService(deps interfaces.Dependencies, cfg Config) *Service {
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.StaticTTL <= 0 {
		cfg.StaticTTL = time.Hour
	}
	return &Service{deps: deps, cfg: cfg, generations: make(map[string]uint64)}
}

// SetMetadataService sets the service used for static document head metadata
func (s *Service) SetMetadataService(svc interfaces.MetadataService) {
	s.metadata = svc
}

// SetBroadcaster sets the hub that receives published generation events
func (s *Service) SetBroadcaster(hub interfaces.Broadcaster) {
	s.hub = hub
}

// SetPrerenderer sets the background prerenderer used after stores
func (s *Service) SetPrerenderer(p interfaces.Prerenderer) {
	s.prerender = p
}

// Load returns the resolved content of a page
func (s *Service) Load(ctx context.Context, pageID string) (domain.PageContent, error) {
	if err := ValidatePageID(pageID); err != nil {
		return domain.PageContent{}, err
	}

	data, err := s.deps.Store.Load(ctx, pageID)
	if err != nil {
		return domain.PageContent{}, err
	}
	if data == nil {
		return domain.PageContent{}, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	}

	return content.Resolve(data), nil
}

// Store persists page content in canonical form and invalidates renderings
func (s *Service) Store(ctx context.Context, pageID string, c domain.PageContent) error {
	if err := ValidatePageID(pageID); err != nil {
		return err
	}

	data, err := content.Serialize(c)
	if err != nil {
		return &coreerrors.ValidationError{Field: "content", Message: err.Error()}
	}

	if err := s.deps.Store.Store(ctx, pageID, data); err != nil {
		s.deps.Logger.Error("Failed to store page", map[string]interface{}{
			"page_id": pageID,
			"error":   err.Error(),
		})
		return &coreerrors.SaveError{PageID: pageID, Err: err}
	}

	s.invalidate(ctx, pageID)

	s.deps.Logger.Info("Page stored", map[string]interface{}{
		"page_id": pageID,
		"kind":    c.Kind.String(),
		"bytes":   len(data),
	})

	if s.prerender != nil && !c.IsLegacy() && featureflags.IsEnabled(ctx, featureflags.PrerenderEnabled) {
		// background work must outlive the request
		if err := s.prerender.Enqueue(context.Background(), pageID); err != nil {
			s.deps.Logger.Warn("Failed to enqueue prerender", map[string]interface{}{
				"page_id": pageID,
				"error":   err.Error(),
			})
		}
	}

	return nil
}

// Render renders a page under its scope identifier
func (s *Service) Render(ctx context.Context, pageID string, opts render.Options) (render.Output, error) {
	c, err := s.Load(ctx, pageID)
	if err != nil {
		return render.Output{}, err
	}

	return render.Render(c, domain.ScopeID(pageID), s.renderOptions(ctx, opts)), nil
}

// Static returns the self-contained static document of a page
func (s *Service) Static(ctx context.Context, pageID string) (string, error) {
	useCache := s.deps.Cache != nil && featureflags.IsEnabled(ctx, featureflags.CacheEnabled)
	if useCache {
		if data, err := s.deps.Cache.Get(ctx, staticCachePrefix+pageID); err == nil && len(data) > 0 {
			return string(data), nil
		}
	}

	gen := s.generation(pageID)
	c, err := s.Load(ctx, pageID)
	if err != nil {
		return "", err
	}
	if c.IsLegacy() {
		return "", &coreerrors.ValidationError{Field: "content", Message: "legacy content has no static rendering"}
	}

	opts := render.StaticOptions{
		Scoped:        true,
		ScopeID:       domain.ScopeID(pageID),
		Lang:          s.cfg.Lang,
		NestedAtRules: featureflags.IsEnabled(ctx, featureflags.ScopeNestedRules),
	}
	if s.metadata != nil {
		meta, err := s.metadata.ExtractMetadata(ctx, pageID)
		if err == nil && meta != nil {
			opts.Metadata = *meta
		}
	}

	doc := render.ToStaticDocument(c, opts)

	if useCache {
		s.cacheStatic(ctx, pageID, gen, doc)
	}
	return doc, nil
}

// Text returns the plain text of a page, truncated to maxLength characters
func (s *Service) Text(ctx context.Context, pageID string, maxLength int) (string, error) {
	c, err := s.Load(ctx, pageID)
	if err != nil {
		return "", err
	}
	return render.ExtractTextContent(c, maxLength), nil
}

// Markdown returns a markdown export of a page
func (s *Service) Markdown(ctx context.Context, pageID string) (string, error) {
	c, err := s.Load(ctx, pageID)
	if err != nil {
		return "", err
	}
	return render.ToMarkdown(c), nil
}

// Publish forwards a generation event to everyone editing the page
func (s *Service) Publish(ctx context.Context, pageID string, event domain.Event) error {
	if err := ValidatePageID(pageID); err != nil {
		return err
	}
	if !event.Type.Valid() {
		return &coreerrors.ValidationError{Field: "type", Message: "unknown event type: " + string(event.Type)}
	}
	if s.hub == nil {
		return errors.New("event hub not configured")
	}

	receivers := s.hub.Broadcast(pageID, event)
	s.deps.Logger.Debug("Published generation event", map[string]interface{}{
		"page_id":   pageID,
		"event":     string(event.Type),
		"receivers": receivers,
	})
	return nil
}

func (s *Service) renderOptions(ctx context.Context, opts render.Options) render.Options {
	if featureflags.IsEnabled(ctx, featureflags.IncludeDefaults) {
		opts.IncludeDefaults = true
	}
	if featureflags.IsEnabled(ctx, featureflags.ScopeNestedRules) {
		opts.NestedAtRules = true
	}
	return opts
}

func (s *Service) generation(pageID string) uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generations[pageID]
}

// cacheStatic stores doc unless the page was invalidated after gen was read
func (s *Service) cacheStatic(ctx context.Context, pageID string, gen uint64, doc string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.generations[pageID] != gen {
		s.deps.Logger.Debug("Skipping cache of superseded static document", map[string]interface{}{
			"page_id": pageID,
		})
		return
	}
	_ = s.deps.Cache.Set(ctx, staticCachePrefix+pageID, []byte(doc), s.cfg.StaticTTL)
}

func (s *Service) invalidate(ctx context.Context, pageID string) {
	if s.deps.Cache == nil {
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generations[pageID]++

	for _, key := range []string{staticCachePrefix + pageID, services.MetadataCacheKey(pageID)} {
		if err := s.deps.Cache.Delete(ctx, key); err != nil {
			s.deps.Logger.Warn("Failed to invalidate cached rendering", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
}

// ValidatePageID checks that pageID is usable as a store key and DOM anchor
func ValidatePageID(pageID string) error {
	if pageID == "" {
		return &coreerrors.ValidationError{Field: "pageId", Message: "page id cannot be empty"}
	}
	if len(pageID) > maxPageIDLength {
		return &coreerrors.ValidationError{Field: "pageId", Message: "page id is too long"}
	}
	for _, r := range pageID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return &coreerrors.ValidationError{Field: "pageId", Message: "page id may only contain letters, digits, '-' and '_'"}
		}
	}
	return nil
}
