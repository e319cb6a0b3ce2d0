package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/repository"
)

// memStore is an in-memory repository.Store with snapshot-based
// transaction rollback, used to exercise service flows without a
// database. Injectable failures simulate mid-transaction errors.
type memStore struct {
	mu         sync.Mutex
	users      map[string]domain.User
	homeowners map[string]domain.HomeOwner
	providers  map[string]domain.ServiceProvider
	admins     map[string]domain.Admin
	requests   map[string]domain.ProviderRegistrationRequest
	services   map[string]domain.Service
	bookings   map[string]domain.Booking

	failUserCreate     error
	failProviderCreate error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]domain.User{},
		homeowners: map[string]domain.HomeOwner{},
		providers:  map[string]domain.ServiceProvider{},
		admins:     map[string]domain.Admin{},
		requests:   map[string]domain.ProviderRegistrationRequest{},
		services:   map[string]domain.Service{},
		bookings:   map[string]domain.Booking{},
	}
}

func (m *memStore) Users() repository.UserRepository                 { return &memUsers{m} }
func (m *memStore) Profiles() repository.ProfileRepository           { return &memProfiles{m} }
func (m *memStore) Registrations() repository.RegistrationRepository { return &memRegistrations{m} }
func (m *memStore) Services() repository.ServiceRepository           { return &memServices{m} }
func (m *memStore) Bookings() repository.BookingRepository           { return &memBookings{m} }

func (m *memStore) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	m.mu.Lock()
	snap := m.snapshot()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.restore(snap)
		m.mu.Unlock()
		return err
	}
	return nil
}

type memSnapshot struct {
	users      map[string]domain.User
	homeowners map[string]domain.HomeOwner
	providers  map[string]domain.ServiceProvider
	admins     map[string]domain.Admin
	requests   map[string]domain.ProviderRegistrationRequest
	services   map[string]domain.Service
	bookings   map[string]domain.Booking
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		users:      copyMap(m.users),
		homeowners: copyMap(m.homeowners),
		providers:  copyMap(m.providers),
		admins:     copyMap(m.admins),
		requests:   copyMap(m.requests),
		services:   copyMap(m.services),
		bookings:   copyMap(m.bookings),
	}
}

func (m *memStore) restore(snap memSnapshot) {
	m.users = snap.users
	m.homeowners = snap.homeowners
	m.providers = snap.providers
	m.admins = snap.admins
	m.requests = snap.requests
	m.services = snap.services
	m.bookings = snap.bookings
}

func copyMap[T any](src map[string]T) map[string]T {
	dst := make(map[string]T, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type memUsers struct{ m *memStore }

func (r *memUsers) Create(_ context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failUserCreate != nil {
		return r.m.failUserCreate
	}
	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	for _, request := range r.m.requests {
		if request.Email == user.Email && request.Status == domain.RegistrationPending {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.m.users[user.ID] = *user
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if user, ok := r.m.users[id]; ok {
		return &user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUsers) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = hash
	r.m.users[id] = user
	return nil
}

func (r *memUsers) TouchLastLogin(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	user.LastLoginAt = &now
	r.m.users[id] = user
	return nil
}

func (r *memUsers) HasRole(_ context.Context, role domain.Role) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Role == role {
			return true, nil
		}
	}
	return false, nil
}

type memProfiles struct{ m *memStore }

func (r *memProfiles) CreateHomeOwner(_ context.Context, owner *domain.HomeOwner) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	owner.ID = uuid.NewString()
	r.m.homeowners[owner.ID] = *owner
	return nil
}

func (r *memProfiles) CreateServiceProvider(_ context.Context, provider *domain.ServiceProvider) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failProviderCreate != nil {
		return r.m.failProviderCreate
	}
	provider.ID = uuid.NewString()
	r.m.providers[provider.ID] = *provider
	return nil
}

func (r *memProfiles) CreateAdmin(_ context.Context, admin *domain.Admin) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	admin.ID = uuid.NewString()
	r.m.admins[admin.ID] = *admin
	return nil
}

func (r *memProfiles) GetHomeOwnerByUserID(_ context.Context, userID string) (*domain.HomeOwner, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, owner := range r.m.homeowners {
		if owner.UserID == userID {
			owner := owner
			return &owner, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memProfiles) GetProviderByUserID(_ context.Context, userID string) (*domain.ServiceProvider, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, provider := range r.m.providers {
		if provider.UserID == userID {
			provider := provider
			return &provider, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memProfiles) GetAdminByUserID(_ context.Context, userID string) (*domain.Admin, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, admin := range r.m.admins {
		if admin.UserID == userID {
			admin := admin
			return &admin, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memProfiles) UpdateProviderDocuments(_ context.Context, providerID, idRef, certRef string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	provider, ok := r.m.providers[providerID]
	if !ok {
		return pgx.ErrNoRows
	}
	provider.IDVerificationRef = &idRef
	provider.CertificationRef = &certRef
	provider.Verified = false
	provider.VerifiedAt = nil
	provider.VerifiedBy = nil
	r.m.providers[providerID] = provider
	return nil
}

func (r *memProfiles) ListAdmins(_ context.Context) ([]repository.AdminAccount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var accounts []repository.AdminAccount
	for _, admin := range r.m.admins {
		user := r.m.users[admin.UserID]
		accounts = append(accounts, repository.AdminAccount{
			Admin:     admin,
			Email:     user.Email,
			FullName:  user.FullName,
			CreatedAt: user.CreatedAt,
		})
	}
	return accounts, nil
}

func (r *memProfiles) ListProviders(_ context.Context, verified bool, limit int) ([]repository.ProviderAccount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var accounts []repository.ProviderAccount
	for _, provider := range r.m.providers {
		if provider.Verified != verified || len(accounts) >= limit {
			continue
		}
		user := r.m.users[provider.UserID]
		accounts = append(accounts, repository.ProviderAccount{
			Provider:  provider,
			Email:     user.Email,
			FullName:  user.FullName,
			Phone:     user.PhoneNumber,
			CreatedAt: user.CreatedAt,
		})
	}
	return accounts, nil
}

type memRegistrations struct{ m *memStore }

func (r *memRegistrations) Create(_ context.Context, request *domain.ProviderRegistrationRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == request.Email {
			return repository.ErrDuplicateEmail
		}
	}
	for _, existing := range r.m.requests {
		if existing.Email == request.Email && existing.Status == domain.RegistrationPending {
			return repository.ErrDuplicateEmail
		}
	}
	request.ID = uuid.NewString()
	request.RequestedAt = time.Now()
	r.m.requests[request.ID] = *request
	return nil
}

func (r *memRegistrations) GetByID(_ context.Context, id string) (*domain.ProviderRegistrationRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if request, ok := r.m.requests[id]; ok {
		return &request, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memRegistrations) GetByEmail(_ context.Context, email string) (*domain.ProviderRegistrationRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var latest *domain.ProviderRegistrationRequest
	for _, request := range r.m.requests {
		request := request
		if request.Email != email {
			continue
		}
		if latest == nil || request.RequestedAt.After(latest.RequestedAt) {
			latest = &request
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	return latest, nil
}

func (r *memRegistrations) List(_ context.Context, status *domain.RegistrationStatus) ([]domain.ProviderRegistrationRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var requests []domain.ProviderRegistrationRequest
	for _, request := range r.m.requests {
		if status != nil && request.Status != *status {
			continue
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *memRegistrations) UpdateDocuments(_ context.Context, id string, idRef, certRef *string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	request, ok := r.m.requests[id]
	if !ok || request.Status != domain.RegistrationPending {
		return pgx.ErrNoRows
	}
	if idRef != nil {
		request.IDVerificationRef = idRef
	}
	if certRef != nil {
		request.CertificationRef = certRef
	}
	r.m.requests[id] = request
	return nil
}

func (r *memRegistrations) MarkApproved(_ context.Context, id, adminUserID string) error {
	return r.markProcessed(id, domain.RegistrationApproved, adminUserID, nil)
}

func (r *memRegistrations) MarkRejected(_ context.Context, id, adminUserID, reason string) error {
	return r.markProcessed(id, domain.RegistrationRejected, adminUserID, &reason)
}

func (r *memRegistrations) markProcessed(id string, status domain.RegistrationStatus, adminUserID string, reason *string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	request, ok := r.m.requests[id]
	if !ok || request.Status != domain.RegistrationPending {
		return pgx.ErrNoRows
	}
	now := time.Now()
	request.Status = status
	request.ProcessedAt = &now
	request.ProcessedBy = &adminUserID
	request.RejectionReason = reason
	r.m.requests[id] = request
	return nil
}

type memServices struct{ m *memStore }

func (r *memServices) Create(_ context.Context, service *domain.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	service.ID = uuid.NewString()
	service.CreatedAt = time.Now()
	r.m.services[service.ID] = *service
	return nil
}

func (r *memServices) Update(_ context.Context, service *domain.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.services[service.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.m.services[service.ID] = *service
	return nil
}

func (r *memServices) GetByID(_ context.Context, id string) (*domain.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if service, ok := r.m.services[id]; ok {
		return &service, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memServices) List(_ context.Context, limit, offset int) ([]domain.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var services []domain.Service
	for _, service := range r.m.services {
		if service.Active && len(services) < limit {
			services = append(services, service)
		}
	}
	return services, nil
}

func (r *memServices) ListByProvider(_ context.Context, providerID string) ([]domain.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var services []domain.Service
	for _, service := range r.m.services {
		if service.ProviderID == providerID {
			services = append(services, service)
		}
	}
	return services, nil
}

type memBookings struct{ m *memStore }

func (r *memBookings) Create(_ context.Context, booking *domain.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	booking.ID = uuid.NewString()
	booking.BookedAt = time.Now()
	r.m.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if booking, ok := r.m.bookings[id]; ok {
		return &booking, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memBookings) UpdateStatus(_ context.Context, booking *domain.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.bookings[booking.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.m.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookings) ListByHomeOwner(_ context.Context, homeOwnerID string, status *domain.BookingStatus) ([]repository.BookingDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var details []repository.BookingDetail
	for _, booking := range r.m.bookings {
		if booking.HomeOwnerID != homeOwnerID || (status != nil && booking.Status != *status) {
			continue
		}
		details = append(details, r.detail(booking))
	}
	return details, nil
}

func (r *memBookings) ListByProvider(_ context.Context, providerID string, status *domain.BookingStatus) ([]repository.BookingDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var details []repository.BookingDetail
	for _, booking := range r.m.bookings {
		service := r.m.services[booking.ServiceID]
		if service.ProviderID != providerID || (status != nil && booking.Status != *status) {
			continue
		}
		details = append(details, r.detail(booking))
	}
	return details, nil
}

func (r *memBookings) detail(booking domain.Booking) repository.BookingDetail {
	service := r.m.services[booking.ServiceID]
	return repository.BookingDetail{
		Booking:      booking,
		ServiceTitle: service.Title,
		ProviderName: service.ProviderName,
	}
}

// memFileStore records saved uploads in memory.
type memFileStore struct {
	mu    sync.Mutex
	saved int
}

func (f *memFileStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.saved++
	return fmt.Sprintf("upload-%d-%s", f.saved, filename), nil
}

func doc(name string) *bytes.Reader {
	return bytes.NewReader([]byte("content of " + name))
}
