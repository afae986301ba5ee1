package store

// Key namespaces owned by the analytics client. The queue key belongs
// exclusively to one queue instance per endpoint; the entitlement and pack
// keys are read-only from this module's perspective.
const (
	queueKey            = "lc_analytics_queue_v1"
	entitlementsPrefix  = "lc_entitlements_"
	packTemplatesPrefix = "lc_pack_templates_"
)

// QueueKey returns the durable-store key mirroring the event queue.
func QueueKey() string {
	return queueKey
}

// EntitlementsKey returns the per-user entitlement snapshot key.
func EntitlementsKey(userID string) string {
	return entitlementsPrefix + userID
}

// PackTemplatesKey returns the per-pack template override key.
func PackTemplatesKey(packID string) string {
	return packTemplatesPrefix + packID
}

// KV is a synchronous key→string store. Values are JSON-serialized by the
// caller. Get reports absence via the bool rather than an error; Set may
// fail (quota, closed database) and the caller decides how to degrade.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string)
}
