package domain

import "time"

// HomeOwner extends a User with role=homeowner. Created at
// registration time with no approval gate.
type HomeOwner struct {
	ID      string
	UserID  string
	Address *string
}

// ServiceProvider extends a User with role=service_provider. The row
// only exists after an admin approved the registration request.
type ServiceProvider struct {
	ID                 string
	UserID             string
	BusinessName       *string
	Address            *string
	YearsExperience    *int
	ServiceDescription *string
	IDVerificationRef  *string
	CertificationRef   *string
	Verified           bool
	VerifiedAt         *time.Time
	VerifiedBy         *string
}

// NeedsDocuments reports whether either verification document is missing.
func (p *ServiceProvider) NeedsDocuments() bool {
	return p.IDVerificationRef == nil || p.CertificationRef == nil
}

// Admin extends a User with role=admin. Only super admins may create
// further admins.
type Admin struct {
	ID         string
	UserID     string
	SuperAdmin bool
}
