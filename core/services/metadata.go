// ABOUTME: Metadata extraction service for SEO metadata of stored pages
// ABOUTME: Reads title, description, image and language from page markup with cached results

package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"pagesmith-api/core/content"
	"pagesmith-api/core/domain"
	coreerrors "pagesmith-api/core/errors"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/core/render"
)

const metadataTTL = 24 * time.Hour

// MetadataCacheKey is the cache key of a page's extracted metadata
func MetadataCacheKey(pageID string) string {
	return "metadata:" + pageID
}

// MetadataService handles metadata extraction from stored pages
type MetadataService struct {
	deps    interfaces.Dependencies
	baseURL string
}

// NewMetadataService creates a new metadata service. baseURL is the public
// address pages are served under; relative image URLs resolve against it.
func NewMetadataService(deps interfaces.Dependencies, baseURL string) *MetadataService {
	return &MetadataService{
		deps:    deps,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ExtractMetadata extracts metadata for a single page
func (s *MetadataService) ExtractMetadata(ctx context.Context, pageID string) (*domain.PageMetadata, error) {
	// Check cache first
	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, MetadataCacheKey(pageID)); err == nil && data != nil {
			var result domain.PageMetadata
			if err := json.Unmarshal(data, &result); err == nil {
				return &result, nil
			}
		}
	}

	data, err := s.deps.Store.Load(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	}

	c := content.Resolve(data)
	if c.IsLegacy() {
		return &domain.PageMetadata{}, nil
	}

	result := render.ExtractMetadata(c, s.pageURL(pageID))

	// Cache the result
	if s.deps.Cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.deps.Cache.Set(ctx, MetadataCacheKey(pageID), data, metadataTTL)
		}
	}

	s.deps.Logger.Debug("Extracted page metadata", map[string]interface{}{
		"page_id":   pageID,
		"has_title": result.Title != "",
		"has_image": result.Image != "",
	})

	return &result, nil
}

func (s *MetadataService) pageURL(pageID string) string {
	if s.baseURL == "" {
		return ""
	}
	return s.baseURL + "/" + pageID
}
