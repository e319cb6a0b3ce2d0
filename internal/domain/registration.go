package domain

import "time"

// RegistrationStatus is the lifecycle state of a provider application.
// Approved and rejected are terminal.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// ProviderRegistrationRequest is a service-provider application. It
// exists independently of the users table until an admin approves it,
// at which point a User and ServiceProvider are materialized and the
// request becomes terminal.
type ProviderRegistrationRequest struct {
	ID                string
	Email             string
	FullName          string
	PhoneNumber       *string
	Address           *string
	YearsExperience   *int
	PasswordHash      string
	IDVerificationRef *string
	CertificationRef  *string
	Status            RegistrationStatus
	RejectionReason   *string
	RequestedAt       time.Time
	ProcessedAt       *time.Time
	ProcessedBy       *string
}

// NeedsDocuments reports whether either verification document is missing.
func (r *ProviderRegistrationRequest) NeedsDocuments() bool {
	return r.IDVerificationRef == nil || r.CertificationRef == nil
}
