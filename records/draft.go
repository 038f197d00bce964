package records

import (
	"maps"

	"github.com/google/uuid"
)

// Draft is the in-progress copy of a record being composed in one locale.
// The authoritative record stays untouched until the draft is saved; the
// edit session owns the draft exclusively.
type Draft struct {
	// RecordID is nil while composing a brand new record.
	RecordID *uuid.UUID
	// Locale the draft is being edited in; localized values land under this
	// locale on save.
	Locale   Locale
	Values   map[FieldName]any
	ImageURL string
	Links    map[string]string
	Featured bool
	Order    int
}

// NewDraft starts an empty draft for a new record in the given locale.
func NewDraft(locale Locale) *Draft {
	return &Draft{
		Locale: locale,
		Values: make(map[FieldName]any),
	}
}

// DraftFromRecord seeds a draft from an existing record, resolving each
// overlay field for the editing locale so the form shows what the admin
// currently sees.
func DraftFromRecord(rec *ContentRecord, resolver *Resolver, locale Locale) *Draft {
	if rec == nil {
		return NewDraft(locale)
	}
	id := rec.ID
	draft := &Draft{
		RecordID: &id,
		Locale:   locale,
		Values:   make(map[FieldName]any, len(rec.Fields)),
		ImageURL: rec.ImageURL,
		Featured: rec.Featured,
		Order:    rec.Order,
	}
	if rec.Links != nil {
		draft.Links = maps.Clone(rec.Links)
	}
	for field := range rec.Fields {
		draft.Values[field] = resolver.Resolve(rec, field, locale)
	}
	return draft
}

// Clone deep-copies the draft.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	copied := *d
	if d.RecordID != nil {
		id := *d.RecordID
		copied.RecordID = &id
	}
	if d.Values != nil {
		copied.Values = maps.Clone(d.Values)
	}
	if d.Links != nil {
		copied.Links = maps.Clone(d.Links)
	}
	return &copied
}

// IsNew reports whether saving this draft creates a record.
func (d *Draft) IsNew() bool {
	return d == nil || d.RecordID == nil
}
