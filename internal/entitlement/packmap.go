package entitlement

import (
	"encoding/json"

	"littlecanvas-analytics/internal/store"
)

// builtinPackTemplates is the compiled fallback mapping from pack id to the
// template ids shipped with it. Per-pack overrides in the durable store are
// unioned on top, so newly published packs resolve without a client update.
var builtinPackTemplates = map[string][]string{
	"starter": {"tpl_sun", "tpl_house", "tpl_balloon"},
	"animals": {"tpl_lion", "tpl_elephant", "tpl_owl", "tpl_turtle"},
	"ocean":   {"tpl_whale", "tpl_crab", "tpl_seahorse"},
	"space":   {"tpl_rocket", "tpl_planet", "tpl_astronaut"},
}

// PackMap resolves pack→template membership from the compiled table plus
// per-pack overrides read from the durable store. It never writes; the
// override keys are maintained by admin tooling.
type PackMap struct {
	kv store.KV // may be nil
}

// NewPackMap builds a PackMap over kv, which may be nil when no durable
// store is available.
func NewPackMap(kv store.KV) *PackMap {
	return &PackMap{kv: kv}
}

// TemplateIDs returns the union of compiled and stored template ids for
// packID, compiled entries first. A missing or malformed override
// contributes nothing.
func (p *PackMap) TemplateIDs(packID string) []string {
	ids := append([]string(nil), builtinPackTemplates[packID]...)
	if p == nil || p.kv == nil {
		return ids
	}
	raw, ok := p.kv.Get(store.PackTemplatesKey(packID))
	if !ok {
		return ids
	}
	var override []string
	if err := json.Unmarshal([]byte(raw), &override); err != nil {
		return ids
	}
	for _, id := range override {
		if !containsString(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
