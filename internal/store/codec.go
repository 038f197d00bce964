package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-content-sync/records"
	"github.com/google/uuid"
)

// Wire-level document keys. Localized text travels as "<field>_<locale>"
// keys; everything below is shared across locales.
const (
	KeyImageURL      = "imageUrl"
	KeyLinks         = "links"
	KeyFeatured      = "featured"
	KeyFeaturedAlias = "isFeatured"
	KeyOrder         = "order"
	KeyOrderAlias    = "step"
	KeyCreatedBy     = "createdBy"
	KeyCreatedByName = "createdByName"
	KeyCreatedAt     = "createdAt"
	KeyUpdatedBy     = "updatedBy"
	KeyUpdatedByName = "updatedByName"
	KeyUpdatedAt     = "updatedAt"
)

// Codec translates between the store's flattened document shape and the
// explicit locale-overlay record model. The flattened "<field>_<locale>"
// convention stays at this boundary only; everything above works against the
// typed overlay so the fallback chain is enforced by the compiler, not by
// key naming.
type Codec struct {
	locales map[records.Locale]struct{}
}

// NewCodec builds a codec that recognises the supplied locale codes when
// splitting localized keys.
func NewCodec(supported []records.Locale) *Codec {
	locales := make(map[records.Locale]struct{}, len(supported))
	for _, code := range supported {
		normalized := records.Locale(strings.ToLower(strings.TrimSpace(string(code))))
		if normalized != "" {
			locales[normalized] = struct{}{}
		}
	}
	return &Codec{locales: locales}
}

// LocalizedKey joins a field and locale into the wire key.
func (c *Codec) LocalizedKey(field records.FieldName, locale records.Locale) string {
	return string(field) + "_" + string(locale)
}

// Decode materialises a record from a stored document.
func (c *Codec) Decode(id uuid.UUID, doc map[string]any) *records.ContentRecord {
	rec := &records.ContentRecord{ID: id}
	if doc == nil {
		return rec
	}

	rec.ImageURL = asString(doc[KeyImageURL])
	rec.Links = asLinks(doc[KeyLinks])
	rec.Featured = asBool(doc[KeyFeatured]) || asBool(doc[KeyFeaturedAlias])
	if order, ok := asInt(doc[KeyOrder]); ok {
		rec.Order = order
	} else if order, ok := asInt(doc[KeyOrderAlias]); ok {
		rec.Order = order
	}

	rec.Audit = records.AuditTrail{
		CreatedBy:     asString(doc[KeyCreatedBy]),
		CreatedByName: asString(doc[KeyCreatedByName]),
		CreatedAt:     asTime(doc[KeyCreatedAt]),
		UpdatedBy:     asString(doc[KeyUpdatedBy]),
		UpdatedByName: asString(doc[KeyUpdatedByName]),
		UpdatedAt:     asTime(doc[KeyUpdatedAt]),
	}

	if asBool(doc[records.KeyIsDeleted]) {
		rec.Deletion = &records.Deletion{
			By:     asString(doc[records.KeyDeletedBy]),
			ByName: asString(doc[records.KeyDeletedByName]),
			At:     asTime(doc[records.KeyDeletedAt]),
		}
	}

	for key, value := range doc {
		if reservedKey(key) {
			continue
		}
		if field, locale, ok := c.splitLocalized(key); ok {
			rec.SetLocalized(field, locale, value)
			continue
		}
		rec.SetBase(records.FieldName(key), value)
	}
	return rec
}

// Encode flattens a record back into the wire document shape.
func (c *Codec) Encode(rec *records.ContentRecord) map[string]any {
	if rec == nil {
		return nil
	}
	doc := map[string]any{
		KeyOrder:             rec.Order,
		KeyFeatured:          rec.Featured,
		records.KeyIsDeleted: rec.Deletion != nil,
	}
	if rec.ImageURL != "" {
		doc[KeyImageURL] = rec.ImageURL
	}
	if len(rec.Links) > 0 {
		links := make(map[string]any, len(rec.Links))
		for name, url := range rec.Links {
			links[name] = url
		}
		doc[KeyLinks] = links
	}
	for field, fv := range rec.Fields {
		for locale, value := range fv.Values {
			doc[c.LocalizedKey(field, locale)] = value
		}
		if fv.Base != nil {
			doc[string(field)] = fv.Base
		}
	}
	writeAudit(doc, rec.Audit)
	if rec.Deletion != nil {
		doc[records.KeyDeletedBy] = rec.Deletion.By
		doc[records.KeyDeletedByName] = rec.Deletion.ByName
		doc[records.KeyDeletedAt] = rec.Deletion.At.UTC().Format(time.RFC3339)
	}
	return doc
}

func (c *Codec) splitLocalized(key string) (records.FieldName, records.Locale, bool) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	suffix := records.Locale(strings.ToLower(key[idx+1:]))
	if _, ok := c.locales[suffix]; !ok {
		return "", "", false
	}
	return records.FieldName(key[:idx]), suffix, true
}

func reservedKey(key string) bool {
	switch key {
	case KeyImageURL, KeyLinks, KeyFeatured, KeyFeaturedAlias, KeyOrder, KeyOrderAlias,
		KeyCreatedBy, KeyCreatedByName, KeyCreatedAt,
		KeyUpdatedBy, KeyUpdatedByName, KeyUpdatedAt,
		records.KeyIsDeleted, records.KeyDeletedBy, records.KeyDeletedByName, records.KeyDeletedAt:
		return true
	}
	return false
}

func writeAudit(doc map[string]any, audit records.AuditTrail) {
	if audit.CreatedBy != "" {
		doc[KeyCreatedBy] = audit.CreatedBy
	}
	if audit.CreatedByName != "" {
		doc[KeyCreatedByName] = audit.CreatedByName
	}
	if !audit.CreatedAt.IsZero() {
		doc[KeyCreatedAt] = audit.CreatedAt.UTC().Format(time.RFC3339)
	}
	if audit.UpdatedBy != "" {
		doc[KeyUpdatedBy] = audit.UpdatedBy
	}
	if audit.UpdatedByName != "" {
		doc[KeyUpdatedByName] = audit.UpdatedByName
	}
	if !audit.UpdatedAt.IsZero() {
		doc[KeyUpdatedAt] = audit.UpdatedAt.UTC().Format(time.RFC3339)
	}
}

func asString(value any) string {
	if value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}

func asBool(value any) bool {
	b, ok := value.(bool)
	return ok && b
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case float32:
		return int(v), true
	}
	return 0, false
}

func asTime(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func asLinks(value any) map[string]string {
	switch v := value.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for name, url := range v {
			out[name] = url
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(v))
		for name, url := range v {
			out[name] = fmt.Sprint(url)
		}
		return out
	}
	return nil
}
