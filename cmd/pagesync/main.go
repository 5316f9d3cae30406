// ABOUTME: Command-line editing client that keeps one page in sync with the hub
// ABOUTME: Applies generation events to a local editor and autosaves through the page API

package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pagesmith-api/core/content"
	"pagesmith-api/core/domain"
	"pagesmith-api/core/editor"
	"pagesmith-api/core/errors"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/core/livesync"
	"pagesmith-api/infrastructure/http/standard"
	"pagesmith-api/infrastructure/logger/structured"
	"pagesmith-api/infrastructure/realtime"
	"pagesmith-api/infrastructure/store/remote"

	flag "github.com/spf13/pflag"
)

type options struct {
	apiURL        string
	hubURL        string
	pageID        string
	autosave      time.Duration
	pingInterval  time.Duration
	nestedAtRules bool
	logLevel      string
	logText       bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pagesync", flag.ContinueOnError)
	fs.StringVar(&opts.apiURL, "api", "http://localhost:8080", "base URL of the page API")
	fs.StringVar(&opts.hubURL, "hub", "", "websocket URL of the event hub (derived from --api when empty)")
	fs.StringVarP(&opts.pageID, "page", "p", "", "page to edit (required)")
	fs.DurationVar(&opts.autosave, "autosave", 30*time.Second, "autosave interval, 0 disables autosave")
	fs.DurationVar(&opts.pingInterval, "ping-interval", 30*time.Second, "ping interval of the hub, used to detect dead connections")
	fs.BoolVar(&opts.nestedAtRules, "scope-nested-rules", false, "scope rules inside @media and similar blocks")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.BoolVar(&opts.logText, "log-text", true, "human readable log output instead of JSON")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.pageID == "" {
		return opts, fmt.Errorf("--page is required")
	}
	if opts.hubURL == "" {
		u, err := deriveHubURL(opts.apiURL, "/hub")
		if err != nil {
			return opts, err
		}
		opts.hubURL = u
	}
	return opts, nil
}

// deriveHubURL turns http(s)://host/base into ws(s)://host/base/hub
func deriveHubURL(apiURL, path string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid --api URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("invalid --api URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String(), nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := structured.New(structured.Config{Level: opts.logLevel, Text: opts.logText})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := remote.NewStore(standard.NewStandardHTTPClient(15*time.Second), opts.apiURL)
	initial, err := loadInitial(ctx, store, opts.pageID)
	if err != nil {
		log.Fatalf("Failed to load page %s: %v", opts.pageID, err)
	}

	ed := editor.New(opts.pageID, initial, store, logger)
	client := realtime.NewClient(opts.hubURL, nil, logger)
	client.SetPingInterval(opts.pingInterval)
	session := livesync.NewSession(livesync.Config{
		PageID:        opts.pageID,
		NestedAtRules: opts.nestedAtRules,
	}, client, ed, logger)

	logger.Info("Editing page", map[string]interface{}{
		"page_id": opts.pageID,
		"hub":     opts.hubURL,
		"kind":    initial.Kind.String(),
	})
	session.Start(ctx)

	saver := newAutosaver(ed, session, logger)
	if opts.autosave > 0 {
		ticker := time.NewTicker(opts.autosave)
		defer ticker.Stop()
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				saver.tick(ctx)
			}
		}
	} else {
		<-ctx.Done()
	}

	session.Close()

	// one last explicit save on the way out
	if ed.Dirty() {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ed.Save(saveCtx); err != nil {
			logger.Error("Unsaved changes were lost", map[string]interface{}{
				"page_id": opts.pageID,
				"error":   err.Error(),
			})
		}
	}
	logger.Info("Session closed", map[string]interface{}{"page_id": opts.pageID})
}

func loadInitial(ctx context.Context, store interfaces.PageStore, pageID string) (domain.PageContent, error) {
	data, err := store.Load(ctx, pageID)
	if errors.IsNotFound(err) {
		return domain.PageContent{}, nil
	}
	if err != nil {
		return domain.PageContent{}, err
	}
	return content.Resolve(data), nil
}

// autosaver saves the editor between edit batches. A revision whose save
// failed is not attempted again; the next edit makes it eligible.
type autosaver struct {
	ed        *editor.Editor
	session   *livesync.Session
	logger    interfaces.Logger
	attempted uint64
}

func newAutosaver(ed *editor.Editor, session *livesync.Session, logger interfaces.Logger) *autosaver {
	return &autosaver{ed: ed, session: session, logger: logger}
}

func (a *autosaver) tick(ctx context.Context) {
	var dirty bool
	var revision uint64
	// read on the dispatch loop so the snapshot sits between batches
	if err := a.session.Edit(ctx, func() {
		dirty = a.ed.Dirty()
		revision = a.ed.Revision()
	}); err != nil {
		return
	}
	if !dirty || revision == a.attempted {
		return
	}

	a.attempted = revision
	if err := a.ed.Save(ctx); err != nil {
		a.logger.Warn("Autosave failed; waiting for the next change", map[string]interface{}{
			"revision": revision,
			"error":    err.Error(),
		})
	}
}
