package records

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Locale identifies a supported language code (e.g. "en", "id", "ko").
type Locale string

// FieldName identifies a logical record field independent of locale.
type FieldName string

// FieldValues holds the locale overlay for a single field: localized variants
// keyed by locale plus an optional unqualified base value used as the final
// fallback.
type FieldValues struct {
	Values map[Locale]any `json:"values,omitempty"`
	Base   any            `json:"base,omitempty"`
}

// Actor identifies the administrator performing a write. IDs come from the
// external auth collaborator and are treated as opaque.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuditTrail captures creation and update provenance. Deletion provenance
// lives on Deletion so the "deleted implies audit present" invariant is
// structural rather than conventional.
type AuditTrail struct {
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedBy     string    `json:"updated_by,omitempty"`
	UpdatedByName string    `json:"updated_by_name,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Deletion marks a record as tombstoned. A nil Deletion means the record is
// active; a non-nil one always carries the full deletion audit.
type Deletion struct {
	By     string    `json:"deleted_by"`
	ByName string    `json:"deleted_by_name"`
	At     time.Time `json:"deleted_at"`
}

// ContentRecord is the canonical multi-locale document managed by the
// coordinator. Localized text lives in the Fields overlay; everything else is
// shared across locales.
type ContentRecord struct {
	ID       uuid.UUID                 `json:"id"`
	Fields   map[FieldName]FieldValues `json:"fields"`
	ImageURL string                    `json:"image_url,omitempty"`
	Links    map[string]string         `json:"links,omitempty"`
	Featured bool                      `json:"featured,omitempty"`
	Order    int                       `json:"order"`
	Deletion *Deletion                 `json:"deletion,omitempty"`
	Audit    AuditTrail                `json:"audit"`
}

// Patch is an additive wire-level update applied through the store gateway.
// Keys follow the document shape (localized keys as "<field>_<locale>").
type Patch map[string]any

// SetLocalized stores a localized value for field under locale.
func (r *ContentRecord) SetLocalized(field FieldName, locale Locale, value any) {
	if r.Fields == nil {
		r.Fields = make(map[FieldName]FieldValues)
	}
	fv := r.Fields[field]
	if fv.Values == nil {
		fv.Values = make(map[Locale]any)
	}
	fv.Values[locale] = value
	r.Fields[field] = fv
}

// SetBase stores the unqualified base value for field.
func (r *ContentRecord) SetBase(field FieldName, value any) {
	if r.Fields == nil {
		r.Fields = make(map[FieldName]FieldValues)
	}
	fv := r.Fields[field]
	fv.Base = value
	r.Fields[field] = fv
}

// Clone returns a deep copy so published views never alias in-flight edits.
func (r *ContentRecord) Clone() *ContentRecord {
	if r == nil {
		return nil
	}
	copied := *r
	if r.Fields != nil {
		copied.Fields = make(map[FieldName]FieldValues, len(r.Fields))
		for name, fv := range r.Fields {
			local := FieldValues{Base: fv.Base}
			if fv.Values != nil {
				local.Values = maps.Clone(fv.Values)
			}
			copied.Fields[name] = local
		}
	}
	if r.Links != nil {
		copied.Links = maps.Clone(r.Links)
	}
	if r.Deletion != nil {
		deletion := *r.Deletion
		copied.Deletion = &deletion
	}
	return &copied
}

// CloneAll deep-copies a slice of records.
func CloneAll(recs []*ContentRecord) []*ContentRecord {
	if recs == nil {
		return nil
	}
	out := make([]*ContentRecord, len(recs))
	for i, rec := range recs {
		out[i] = rec.Clone()
	}
	return out
}

// ResolvedRecord is the locale-projected view published to the UI host. All
// overlay fields are flattened to a single value per field.
type ResolvedRecord struct {
	ID       uuid.UUID         `json:"id"`
	Locale   Locale            `json:"locale"`
	Values   map[FieldName]any `json:"values"`
	ImageURL string            `json:"image_url,omitempty"`
	Links    map[string]string `json:"links,omitempty"`
	Featured bool              `json:"featured,omitempty"`
	Order    int               `json:"order"`
	Audit    AuditTrail        `json:"audit"`
}
