package entitlement

import (
	"encoding/json"

	"littlecanvas-analytics/internal/model"
	"littlecanvas-analytics/internal/store"
)

// Loader reads per-user entitlement snapshots from the durable store,
// tolerating absence and corruption.
type Loader struct {
	kv store.KV // may be nil
}

// NewLoader builds a Loader over kv, which may be nil when no durable
// store is available.
func NewLoader(kv store.KV) *Loader {
	return &Loader{kv: kv}
}

// Entitlements returns the snapshot for userID. It degrades to the
// all-empty snapshot when there is no store, no user, no stored value, or
// the value is not valid JSON; a field that is not an array of strings is
// individually replaced with an empty one. It never fails.
func (l *Loader) Entitlements(userID string) model.Entitlements {
	empty := emptySnapshot()
	if l == nil || l.kv == nil || userID == "" {
		return empty
	}
	raw, ok := l.kv.Get(store.EntitlementsKey(userID))
	if !ok {
		return empty
	}

	var fields struct {
		TemplateIDs json.RawMessage `json:"templateIds"`
		PackIDs     json.RawMessage `json:"packIds"`
		PlanCodes   json.RawMessage `json:"planCodes"`
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return empty
	}

	return model.Entitlements{
		TemplateIDs: coerceStrings(fields.TemplateIDs),
		PackIDs:     coerceStrings(fields.PackIDs),
		PlanCodes:   coerceStrings(fields.PlanCodes),
	}
}

func emptySnapshot() model.Entitlements {
	return model.Entitlements{
		TemplateIDs: []string{},
		PackIDs:     []string{},
		PlanCodes:   []string{},
	}
}

// coerceStrings decodes a raw field into a string slice, replacing missing
// or mistyped fields with an empty slice rather than failing the read.
func coerceStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
