package domain

import "time"

// Service is a listing offered by a verified provider.
type Service struct {
	ID           string
	ProviderID   string
	Title        string
	Description  string
	Price        int64
	ImageRef     *string
	Rating       int
	ProviderName string
	Active       bool
	CreatedAt    time.Time
}
