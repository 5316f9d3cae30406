// ABOUTME: Request DTOs for page-related API endpoints
// ABOUTME: Provides validation and default values for incoming requests

package requests

import (
	"encoding/json"

	"pagesmith-api/core/domain"
)

// RenderQuery holds the render options accepted on the query string
type RenderQuery struct {
	// IncludeDefaults prepends the baseline stylesheet
	IncludeDefaults bool `query:"include_defaults" doc:"Prepend the baseline stylesheet"`

	// NestedAtRules scopes rules inside @media and similar blocks
	NestedAtRules bool `query:"scope_nested_rules" doc:"Scope rules nested inside conditional at-rules"`
}

// PublishEventRequest is a generation event sent by the page generator
type PublishEventRequest struct {
	Type       string      `json:"type" enum:"BuildingStarted,BuildingProgress,ContentReplaced,BuildingCompleted" doc:"Event type"`
	Message    string      `json:"message,omitempty" maxLength:"1024" doc:"Status message shown to the editor"`
	Step       int         `json:"step,omitempty" minimum:"0" doc:"Current step (BuildingProgress)"`
	TotalSteps int         `json:"total_steps,omitempty" minimum:"0" doc:"Total steps (BuildingProgress)"`
	Payload    interface{} `json:"payload,omitempty" doc:"Replacement page content (ContentReplaced), object or JSON string"`
}

// ToEvent converts the request into a domain event
func (r *PublishEventRequest) ToEvent() (domain.Event, error) {
	ev := domain.Event{
		Type:       domain.EventType(r.Type),
		Message:    r.Message,
		Step:       r.Step,
		TotalSteps: r.TotalSteps,
	}
	if r.Payload != nil {
		raw, err := json.Marshal(r.Payload)
		if err != nil {
			return domain.Event{}, err
		}
		ev.Payload = raw
	}
	return ev, nil
}
