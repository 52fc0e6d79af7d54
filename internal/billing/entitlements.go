// Package billing answers one question: may this user use premium
// filters. Favorites-only drilling is the only gated feature.
package billing

import "os"

// Entitlements reports which premium features are unlocked.
type Entitlements interface {
	FavoritesOnly() bool
}

// Static is a fixed entitlement set.
type Static struct {
	Premium bool
}

func (s Static) FavoritesOnly() bool { return s.Premium }

// FromEnv reads the entitlement state from TOEIQ_PREMIUM. Any non-empty
// value other than "0" and "false" unlocks premium features.
func FromEnv() Entitlements {
	v := os.Getenv("TOEIQ_PREMIUM")
	return Static{Premium: v != "" && v != "0" && v != "false"}
}
