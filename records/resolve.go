package records

import "strings"

// Chain is the fixed locale fallback order applied to every field lookup:
// requested locale, primary fallback, secondary fallback, unqualified base
// value. The chain is configured once per site and is not tunable per call.
type Chain struct {
	Primary   Locale
	Secondary Locale
}

// Resolver projects a locale-specific view out of a record's overlay.
// Resolution never fails; a field with no usable value resolves to nil.
type Resolver struct {
	chain Chain
}

// NewResolver builds a resolver with the supplied fallback chain.
func NewResolver(chain Chain) *Resolver {
	return &Resolver{chain: chain}
}

// Chain returns the configured fallback chain.
func (r *Resolver) Chain() Chain {
	if r == nil {
		return Chain{}
	}
	return r.chain
}

// Resolve returns the displayable value for field under locale, walking the
// fallback chain until a usable value is found. Empty strings are treated as
// missing so partially translated records keep falling through.
func (r *Resolver) Resolve(rec *ContentRecord, field FieldName, locale Locale) any {
	if r == nil || rec == nil {
		return nil
	}
	fv, ok := rec.Fields[field]
	if !ok {
		return nil
	}
	for _, candidate := range []Locale{locale, r.chain.Primary, r.chain.Secondary} {
		if candidate == "" {
			continue
		}
		if value, ok := fv.Values[candidate]; ok && usable(value) {
			return value
		}
	}
	if usable(fv.Base) {
		return fv.Base
	}
	return nil
}

// ResolveString is Resolve with a string coercion; non-string and missing
// values yield "".
func (r *Resolver) ResolveString(rec *ContentRecord, field FieldName, locale Locale) string {
	value := r.Resolve(rec, field, locale)
	if value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}

// Project flattens every overlay field of rec to its resolved value for
// locale, producing the view shape published to the UI host.
func (r *Resolver) Project(rec *ContentRecord, locale Locale) *ResolvedRecord {
	if rec == nil {
		return nil
	}
	resolved := &ResolvedRecord{
		ID:       rec.ID,
		Locale:   locale,
		Values:   make(map[FieldName]any, len(rec.Fields)),
		ImageURL: rec.ImageURL,
		Featured: rec.Featured,
		Order:    rec.Order,
		Audit:    rec.Audit,
	}
	if rec.Links != nil {
		resolved.Links = make(map[string]string, len(rec.Links))
		for k, v := range rec.Links {
			resolved.Links[k] = v
		}
	}
	for field := range rec.Fields {
		resolved.Values[field] = r.Resolve(rec, field, locale)
	}
	return resolved
}

// ProjectAll projects a slice of records preserving input order.
func (r *Resolver) ProjectAll(recs []*ContentRecord, locale Locale) []*ResolvedRecord {
	out := make([]*ResolvedRecord, 0, len(recs))
	for _, rec := range recs {
		if projected := r.Project(rec, locale); projected != nil {
			out = append(out, projected)
		}
	}
	return out
}

func usable(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return true
	}
}
