package model

import "strings"

// packTagPrefix is the tag convention that encodes pack membership on a
// template: a tag "pack:animals" marks the template as part of pack
// "animals".
const packTagPrefix = "pack:"

// Entitlements is a per-user snapshot of unlock signals. A missing or
// corrupted stored snapshot degrades to the zero value, never to an error.
type Entitlements struct {
	TemplateIDs []string `json:"templateIds"`
	PackIDs     []string `json:"packIds"`
	PlanCodes   []string `json:"planCodes"`
}

// IsEmpty reports whether the snapshot carries no unlock signals at all.
// Plan codes do not unlock content on their own, so they are not counted.
func (e Entitlements) IsEmpty() bool {
	return len(e.TemplateIDs) == 0 && len(e.PackIDs) == 0
}

// HasTemplate reports whether the template id is explicitly granted.
func (e Entitlements) HasTemplate(id string) bool {
	return containsString(e.TemplateIDs, id)
}

// HasPack reports whether the pack id is granted.
func (e Entitlements) HasPack(id string) bool {
	return containsString(e.PackIDs, id)
}

// Template is a candidate content item shown in the canvas library.
type Template struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	ImageURL string   `json:"imageUrl"`
	IsFree   bool     `json:"isFree"`
	Tags     []string `json:"tags"`
}

// PackIDs returns the pack memberships encoded in the template's tags,
// in tag order.
func (t Template) PackIDs() []string {
	var ids []string
	for _, tag := range t.Tags {
		if strings.HasPrefix(tag, packTagPrefix) {
			ids = append(ids, strings.TrimPrefix(tag, packTagPrefix))
		}
	}
	return ids
}

// InPack reports whether the template carries a membership tag for packID.
func (t Template) InPack(packID string) bool {
	return containsString(t.PackIDs(), packID)
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
