// ABOUTME: Generation event handler for the Huma API
// ABOUTME: Forwards generator events to the editors joined on a page

package handlers

import (
	"context"
	"net/http"

	"pagesmith-api/api/dto/requests"
	"pagesmith-api/api/dto/responses"
	"pagesmith-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// EventHandler accepts events from the page generator
type EventHandler struct {
	pageService interfaces.PageService
}

// NewEventHandler creates a new event handler
func NewEventHandler(pageService interfaces.PageService) *EventHandler {
	return &EventHandler{pageService: pageService}
}

// RegisterRoutes registers the event routes
func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "publishEvent",
		Method:        http.MethodPost,
		Path:          "/pages/{pageId}/events",
		Summary:       "Publish a generation event",
		Description:   "Broadcasts a generation event to every editor joined on the page",
		Tags:          []string{"Events"},
		DefaultStatus: http.StatusAccepted,
	}, h.PublishEvent)
}

// PublishEventInput defines the input for the PublishEvent operation
type PublishEventInput struct {
	PageID string `path:"pageId" maxLength:"128" doc:"Page identifier"`
	Body   requests.PublishEventRequest
}

// PublishEventOutput defines the output for the PublishEvent operation
type PublishEventOutput struct {
	Body responses.EventAcceptedResponse
}

// PublishEvent handles the POST /pages/{pageId}/events endpoint
func (h *EventHandler) PublishEvent(ctx context.Context, input *PublishEventInput) (*PublishEventOutput, error) {
	event, err := input.Body.ToEvent()
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid event payload", err)
	}

	if err := h.pageService.Publish(ctx, input.PageID, event); err != nil {
		return nil, toHumaError(err)
	}

	return &PublishEventOutput{Body: responses.EventAcceptedResponse{
		PageID: input.PageID,
		Type:   input.Body.Type,
	}}, nil
}
