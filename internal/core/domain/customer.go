package domain

import "time"

type CustomerTier string

const (
	TierNormal  CustomerTier = "normal"
	TierPremium CustomerTier = "premium"
)

// ValidTier reports whether t is a known customer tier.
func ValidTier(t CustomerTier) bool {
	return t == TierNormal || t == TierPremium
}

type Customer struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Tier      CustomerTier `json:"tier"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
}
