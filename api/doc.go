// Package api provides the HTTP API layer for the page service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration, middleware and the hub mount
// - handlers/: HTTP request handlers
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Key Features
//
// 1. Automatic OpenAPI Generation
//
// The API automatically generates OpenAPI 3.0 documentation:
// - JSON spec available at /openapi.json
// - Interactive docs UI at /docs
//
// 2. Request/Response Validation
//
// Huma provides automatic validation based on struct tags:
//
//	type PublishEventRequest struct {
//	    Type    string `json:"type" enum:"BuildingStarted,BuildingProgress,ContentReplaced,BuildingCompleted"`
//	    Message string `json:"message,omitempty" maxLength:"1024"`
//	}
//
// 3. Middleware Support
//
// The API includes middleware for:
// - Request logging with unique request IDs
// - Feature flags installed in the request context
// - Rate limiting per IP address (rate_limit_enabled flag)
// - CORS handling
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:      logger,
//	    Flags:       flags,
//	    RateLimiter: middleware.NewRateLimiter(10, 20),
//	    Hub:         hub,
//	})
//
//	handlers.NewPageHandler(pageService, metadataService, 300).RegisterRoutes(humaAPI)
//	handlers.NewEventHandler(pageService).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8080", router)
//
// # Error Handling
//
// The API uses a consistent error format based on RFC 7807:
//
//	{
//	    "status": 404,
//	    "title": "Not Found",
//	    "detail": "page not found: home"
//	}
//
// Domain errors are mapped to status codes: not found 404, validation 400,
// failed saves 500.
package api
