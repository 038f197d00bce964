package interfaces

import (
	"context"

	"github.com/goliatone/go-content-sync/records"
)

// Capability names understood by the permission gate. They mirror the
// permission families exposed by the external authorization collaborator.
const (
	CapabilityWebsiteManagement  = "websiteManagement"
	CapabilityEmployeeManagement = "employeeManagement"
	CapabilityDashboard          = "dashboard"
	CapabilityMedia              = "media"
)

// AuthProvider is the permission gate consumed by panel coordinators. A
// coordinator checks HasCapability once at start-up; revocation mid-session
// is the provider's own responsibility to enforce at the store boundary.
type AuthProvider interface {
	// CurrentUser identifies the acting administrator for audit stamping.
	CurrentUser(ctx context.Context) (records.Actor, error)
	// HasCapability reports whether the current user holds the named
	// capability.
	HasCapability(ctx context.Context, capability string) (bool, error)
}
