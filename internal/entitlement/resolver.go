package entitlement

import "littlecanvas-analytics/internal/model"

// Query describes the viewer asking for templates.
type Query struct {
	IsGuest      bool
	Entitlements model.Entitlements

	// PackID, when set, scopes the result to one pack context.
	PackID string
}

// Resolver computes the subset of templates a viewer may see. It is pure
// over its inputs apart from pack-map reads and never fails; when a rule is
// ambiguous it excludes rather than includes.
type Resolver struct {
	packs *PackMap
}

// NewResolver builds a Resolver over packs, which may be nil when no pack
// overrides are available.
func NewResolver(packs *PackMap) *Resolver {
	return &Resolver{packs: packs}
}

// FilterTemplatesForUser returns exactly the templates the viewer is
// allowed to use, preserving input order. Stages narrow in sequence:
//
//  1. Guests keep free templates only, regardless of any other signal.
//  2. Recognized users with any entitlement keep the union of explicit
//     template grants, pack-tag unlocks, and pack-map unlocks; users with
//     no entitlements at all fall back to free templates, seeing the same
//     content as a guest.
//  3. A pack-scoped query returns nothing when the viewer's pack grants
//     are non-empty and exclude that pack; otherwise it narrows to that
//     pack's tagged templates when any survived, and leaves the result
//     alone when none carry tags.
func (r *Resolver) FilterTemplatesForUser(templates []model.Template, query Query) []model.Template {
	result := templates

	switch {
	case query.IsGuest:
		result = filterFree(result)
	case query.Entitlements.IsEmpty():
		result = filterFree(result)
	default:
		result = r.filterEntitled(result, query.Entitlements)
	}

	if query.PackID != "" {
		if len(query.Entitlements.PackIDs) > 0 && !query.Entitlements.HasPack(query.PackID) {
			return []model.Template{}
		}
		tagged := make([]model.Template, 0, len(result))
		for _, t := range result {
			if t.InPack(query.PackID) {
				tagged = append(tagged, t)
			}
		}
		// Pack tags are optional metadata: narrow only when some exist.
		if len(tagged) > 0 {
			result = tagged
		}
	}

	return result
}

func filterFree(templates []model.Template) []model.Template {
	out := make([]model.Template, 0, len(templates))
	for _, t := range templates {
		if t.IsFree {
			out = append(out, t)
		}
	}
	return out
}

// filterEntitled keeps templates unlocked by any of the three signals: an
// explicit template grant, a pack membership tag for a granted pack, or
// presence in the pack→template mapping of a granted pack. A single pass
// preserves input order and includes each template once.
func (r *Resolver) filterEntitled(templates []model.Template, ent model.Entitlements) []model.Template {
	mapped := make(map[string]struct{})
	for _, packID := range ent.PackIDs {
		for _, id := range r.packs.TemplateIDs(packID) {
			mapped[id] = struct{}{}
		}
	}

	out := make([]model.Template, 0, len(templates))
	for _, t := range templates {
		switch {
		case ent.HasTemplate(t.ID):
			out = append(out, t)
		case tagUnlocked(t, ent):
			out = append(out, t)
		default:
			if _, ok := mapped[t.ID]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}

func tagUnlocked(t model.Template, ent model.Entitlements) bool {
	for _, packID := range t.PackIDs() {
		if ent.HasPack(packID) {
			return true
		}
	}
	return false
}
