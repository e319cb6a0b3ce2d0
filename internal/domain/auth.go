package domain

// AccessTier distinguishes a fully registered identity from a provider
// applicant whose registration request is still pending.
type AccessTier string

const (
	TierFull    AccessTier = "FULL"
	TierPending AccessTier = "PENDING"
)
