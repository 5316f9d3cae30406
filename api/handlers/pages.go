// ABOUTME: Page handlers for the Huma API
// ABOUTME: Provides HTTP endpoints to store pages and fetch their renderings

package handlers

import (
	"context"
	"net/http"

	"pagesmith-api/api/dto/requests"
	"pagesmith-api/api/dto/responses"
	"pagesmith-api/core/content"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/core/render"

	"github.com/danielgtaylor/huma/v2"
)

const defaultTextLength = 300

// PageHandler handles page-related HTTP requests
type PageHandler struct {
	pageService     interfaces.PageService
	metadataService interfaces.MetadataService
	textLength      int
}

// NewPageHandler creates a new page handler. textLength is the default
// truncation of the text endpoint; 0 selects the built-in default.
func NewPageHandler(pageService interfaces.PageService, metadataService interfaces.MetadataService, textLength int) *PageHandler {
	if textLength <= 0 {
		textLength = defaultTextLength
	}
	return &PageHandler{
		pageService:     pageService,
		metadataService: metadataService,
		textLength:      textLength,
	}
}

// RegisterRoutes registers all page-related routes
func (h *PageHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getPage",
		Method:      http.MethodGet,
		Path:        "/pages/{pageId}",
		Summary:     "Get page content",
		Description: "Returns the stored page content in canonical form",
		Tags:        []string{"Pages"},
	}, h.GetPage)

	huma.Register(api, huma.Operation{
		OperationID: "storePage",
		Method:      http.MethodPut,
		Path:        "/pages/{pageId}",
		Summary:     "Store page content",
		Description: "Stores document ({html, css}) or legacy ({data}) content. The body may also be a JSON string holding either form.",
		Tags:        []string{"Pages"},
	}, h.StorePage)

	huma.Register(api, huma.Operation{
		OperationID: "renderPage",
		Method:      http.MethodGet,
		Path:        "/pages/{pageId}/render",
		Summary:     "Render a page for embedding",
		Description: "Returns the scoped style block and markup wrapped in the page scope element",
		Tags:        []string{"Rendering"},
	}, h.RenderPage)

	huma.Register(api, huma.Operation{
		OperationID: "staticPage",
		Method:      http.MethodGet,
		Path:        "/pages/{pageId}/static",
		Summary:     "Static HTML document",
		Description: "Returns a self-contained HTML document with SEO metadata",
		Tags:        []string{"Rendering"},
	}, h.StaticPage)

	huma.Register(api, huma.Operation{
		OperationID: "pageText",
		Method:      http.MethodGet,
		Path:        "/pages/{pageId}/text",
		Summary:     "Plain text of a page",
		Tags:        []string{"Rendering"},
	}, h.PageText)

	huma.Register(api, huma.Operation{
		OperationID: "pageMarkdown",
		Method:      http.MethodGet,
		Path:        "/pages/{pageId}/markdown",
		Summary:     "Markdown export of a page",
		Tags:        []string{"Rendering"},
	}, h.PageMarkdown)

	huma.Register(api, huma.Operation{
		OperationID: "pageMetadata",
		Method:      http.MethodGet,
		Path:        "/pages/{pageId}/metadata",
		Summary:     "SEO metadata of a page",
		Tags:        []string{"Rendering"},
	}, h.PageMetadata)
}

// PageIDInput is the path parameter shared by page operations
type PageIDInput struct {
	PageID string `path:"pageId" maxLength:"128" doc:"Page identifier"`
}

// RawPageOutput carries serialized page content
type RawPageOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// GetPage handles the GET /pages/{pageId} endpoint
func (h *PageHandler) GetPage(ctx context.Context, input *PageIDInput) (*RawPageOutput, error) {
	c, err := h.pageService.Load(ctx, input.PageID)
	if err != nil {
		return nil, toHumaError(err)
	}

	data, err := content.Serialize(c)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &RawPageOutput{ContentType: "application/json", Body: data}, nil
}

// StorePageInput defines the input for the StorePage operation
type StorePageInput struct {
	PageID  string `path:"pageId" maxLength:"128" doc:"Page identifier"`
	RawBody []byte `contentType:"application/json"`
}

// StorePageOutput defines the output for the StorePage operation
type StorePageOutput struct {
	Body responses.StoreResponse
}

// StorePage handles the PUT /pages/{pageId} endpoint
func (h *PageHandler) StorePage(ctx context.Context, input *StorePageInput) (*StorePageOutput, error) {
	c := content.Resolve(input.RawBody)
	if err := h.pageService.Store(ctx, input.PageID, c); err != nil {
		return nil, toHumaError(err)
	}

	return &StorePageOutput{Body: responses.StoreResponse{
		PageID: input.PageID,
		Kind:   c.Kind.String(),
	}}, nil
}

// RenderPageInput defines the input for the RenderPage operation
type RenderPageInput struct {
	PageID string `path:"pageId" maxLength:"128" doc:"Page identifier"`
	requests.RenderQuery
}

// RenderPageOutput defines the output for the RenderPage operation
type RenderPageOutput struct {
	Body responses.RenderResponse
}

// RenderPage handles the GET /pages/{pageId}/render endpoint
func (h *PageHandler) RenderPage(ctx context.Context, input *RenderPageInput) (*RenderPageOutput, error) {
	out, err := h.pageService.Render(ctx, input.PageID, render.Options{
		IncludeDefaults: input.IncludeDefaults,
		NestedAtRules:   input.NestedAtRules,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &RenderPageOutput{Body: responses.NewRenderResponse(input.PageID, out)}, nil
}

// DocumentOutput carries a non-JSON rendering
type DocumentOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// StaticPage handles the GET /pages/{pageId}/static endpoint
func (h *PageHandler) StaticPage(ctx context.Context, input *PageIDInput) (*DocumentOutput, error) {
	doc, err := h.pageService.Static(ctx, input.PageID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DocumentOutput{
		ContentType:  "text/html; charset=utf-8",
		CacheControl: "public, max-age=300",
		Body:         []byte(doc),
	}, nil
}

// PageTextInput defines the input for the PageText operation
type PageTextInput struct {
	PageID    string `path:"pageId" maxLength:"128" doc:"Page identifier"`
	MaxLength int    `query:"max_length" minimum:"0" maximum:"100000" doc:"Truncate to this many characters; 0 uses the server default"`
}

// PageTextOutput defines the output for the PageText operation
type PageTextOutput struct {
	Body responses.TextResponse
}

// PageText handles the GET /pages/{pageId}/text endpoint
func (h *PageHandler) PageText(ctx context.Context, input *PageTextInput) (*PageTextOutput, error) {
	maxLength := input.MaxLength
	if maxLength == 0 {
		maxLength = h.textLength
	}

	text, err := h.pageService.Text(ctx, input.PageID, maxLength)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &PageTextOutput{Body: responses.TextResponse{PageID: input.PageID, Text: text}}, nil
}

// PageMarkdown handles the GET /pages/{pageId}/markdown endpoint
func (h *PageHandler) PageMarkdown(ctx context.Context, input *PageIDInput) (*DocumentOutput, error) {
	md, err := h.pageService.Markdown(ctx, input.PageID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DocumentOutput{
		ContentType:  "text/markdown; charset=utf-8",
		CacheControl: "no-cache",
		Body:         []byte(md),
	}, nil
}

// PageMetadataOutput defines the output for the PageMetadata operation
type PageMetadataOutput struct {
	Body responses.MetadataResponse
}

// PageMetadata handles the GET /pages/{pageId}/metadata endpoint
func (h *PageHandler) PageMetadata(ctx context.Context, input *PageIDInput) (*PageMetadataOutput, error) {
	if h.metadataService == nil {
		return nil, huma.Error503ServiceUnavailable("Metadata extraction is not configured")
	}

	// the metadata service reads the store directly, so check the id first
	if _, err := h.pageService.Load(ctx, input.PageID); err != nil {
		return nil, toHumaError(err)
	}

	meta, err := h.metadataService.ExtractMetadata(ctx, input.PageID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &PageMetadataOutput{Body: responses.NewMetadataResponse(input.PageID, meta)}, nil
}
