package entitlement

import (
	"testing"

	"littlecanvas-analytics/internal/store"

	"github.com/stretchr/testify/require"
)

func TestPackMapUnionsBuiltinAndOverride(t *testing.T) {
	kv := store.NewMemory()
	kv.Set(store.PackTemplatesKey("animals"), `["tpl_fox","tpl_lion"]`)

	ids := NewPackMap(kv).TemplateIDs("animals")

	require.Contains(t, ids, "tpl_lion")
	require.Contains(t, ids, "tpl_fox")
	// The override repeats tpl_lion; the union must not.
	require.Equal(t, len(ids), len(uniqueStrings(ids)))
}

func TestPackMapMalformedOverrideIgnored(t *testing.T) {
	kv := store.NewMemory()
	kv.Set(store.PackTemplatesKey("ocean"), "not json")

	ids := NewPackMap(kv).TemplateIDs("ocean")

	require.Equal(t, builtinPackTemplates["ocean"], ids)
}

func TestPackMapUnknownPack(t *testing.T) {
	require.Empty(t, NewPackMap(nil).TemplateIDs("nonexistent"))
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
