// Package core contains the business logic of the page service.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (PageContent, Document, Event, ...)
// - content: Resolves stored or received content into one explicit form
// - cssscope: Prefixes stylesheet selectors with the page scope
// - extract: Lifts inline style attributes into generated rules
// - render: SSR fragments, static documents, text, markdown and metadata
// - livesync: Keeps an editing session in sync with the event hub
// - editor: Live editing state implementing the livesync editor contract
// - pages: Page service used by the HTTP layer
// - services: Metadata extraction with caching
// - workers: Background prerendering
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (store, cache, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Content transformations are total; only storage fails
//
// # Usage Example
//
//	import (
//	    "pagesmith-api/core/interfaces"
//	    "pagesmith-api/core/pages"
//	)
//
//	deps := interfaces.Dependencies{
//	    Store:  myStore,  // implements interfaces.PageStore
//	    Cache:  myCache,  // implements interfaces.Cache
//	    Logger: myLogger, // implements interfaces.Logger
//	}
//
//	svc := pages.NewService(deps, pages.Config{Lang: "en"})
//	out, err := svc.Render(ctx, "home", render.Options{})
package core
