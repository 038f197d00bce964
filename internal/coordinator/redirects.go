package coordinator

import (
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// Redirect is the denial signal handed to the UI host: where to send the
// user and when the signal fired.
type Redirect struct {
	URL        string
	Capability string
	At         time.Time
}

// RedirectResolver produces the target URL for a permission denial.
type RedirectResolver interface {
	Resolve(capability string) string
}

// StaticRedirect always redirects to the same location.
type StaticRedirect string

func (s StaticRedirect) Resolve(string) string { return string(s) }

// URLKitRedirect builds the denial target from a go-urlkit route manager so
// hosts keep a single routing table for panels and public pages.
type URLKitRedirect struct {
	Manager  *urlkit.RouteManager
	Group    string
	Route    string
	Fallback string
	// CapabilityParam, when set, carries the denied capability as a route
	// parameter.
	CapabilityParam string
}

func (r *URLKitRedirect) Resolve(capability string) string {
	url, err := r.build(capability)
	if err != nil || strings.TrimSpace(url) == "" {
		return r.Fallback
	}
	return url
}

func (r *URLKitRedirect) build(capability string) (url string, err error) {
	if r == nil || r.Manager == nil {
		return "", fmt.Errorf("coordinator: route manager not configured")
	}
	// urlkit panics on unknown groups and routes.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("coordinator: redirect route lookup: %v", rec)
		}
	}()

	group := r.Manager.Group(r.Group)
	builder := group.Builder(r.Route)
	if r.CapabilityParam != "" && capability != "" {
		builder.WithParam(r.CapabilityParam, capability)
	}
	return builder.Build()
}
