package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/events"
	"github.com/spec-kit/homehelp-service/internal/repository"
	"github.com/spec-kit/homehelp-service/internal/storage"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

// Document is an uploaded verification file.
type Document struct {
	Filename string
	Content  io.Reader
}

// SubmitProviderInput is a new provider application. Documents are
// optional at submission and may be uploaded later while the request
// is pending.
type SubmitProviderInput struct {
	FullName        string
	Email           string
	Password        string
	PhoneNumber     *string
	Address         *string
	YearsExperience *int
	IDVerification  *Document
	Certification   *Document
}

// RegisterHomeownerInput is a new homeowner registration. There is no
// approval gate for homeowners.
type RegisterHomeownerInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber *string
	Address     *string
}

// RegistrationService manages the provider application state machine
// and direct homeowner registration.
type RegistrationService struct {
	store      repository.Store
	files      storage.FileStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// NewRegistrationService builds the service.
func NewRegistrationService(store repository.Store, files storage.FileStore, dispatcher events.Dispatcher, logger *zap.Logger, bcryptCost int) *RegistrationService {
	return &RegistrationService{
		store:      store,
		files:      files,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// SubmitProviderRequest files a pending application. Email uniqueness
// across users and requests is enforced by the repository insert, so
// two concurrent submissions cannot both succeed.
func (s *RegistrationService) SubmitProviderRequest(ctx context.Context, in SubmitProviderInput) (*domain.ProviderRegistrationRequest, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	request := &domain.ProviderRegistrationRequest{
		Email:           in.Email,
		FullName:        in.FullName,
		PhoneNumber:     in.PhoneNumber,
		Address:         in.Address,
		YearsExperience: in.YearsExperience,
		PasswordHash:    hash,
		Status:          domain.RegistrationPending,
	}

	if request.IDVerificationRef, err = s.saveDocument(ctx, in.IDVerification); err != nil {
		return nil, err
	}
	if request.CertificationRef, err = s.saveDocument(ctx, in.Certification); err != nil {
		return nil, err
	}

	if err := s.store.Registrations().Create(ctx, request); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, apperrors.NewDuplicateEmail(in.Email)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRegistrationSubmitted, request.ID, events.Actor{Role: domain.RoleServiceProvider},
		events.RegistrationSubmittedPayload{Email: request.Email, NeedsDocuments: request.NeedsDocuments()})
	return request, nil
}

// RegisterHomeowner creates the User and HomeOwner rows in one
// transaction; homeowners are active immediately.
func (s *RegistrationService) RegisterHomeowner(ctx context.Context, in RegisterHomeownerInput) (*domain.User, *domain.HomeOwner, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		PhoneNumber:  in.PhoneNumber,
		Role:         domain.RoleHomeowner,
		Active:       true,
	}
	owner := &domain.HomeOwner{Address: in.Address}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		owner.UserID = user.ID
		return tx.Profiles().CreateHomeOwner(ctx, owner)
	})
	if err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, nil, apperrors.NewDuplicateEmail(in.Email)
		}
		return nil, nil, apperrors.MapError(err)
	}
	return user, owner, nil
}

// UploadRequestDocuments fills or replaces document refs on a pending
// application. Processed requests are terminal and refuse the update.
func (s *RegistrationService) UploadRequestDocuments(ctx context.Context, requestID string, idDoc, certDoc *Document) error {
	idRef, err := s.saveDocument(ctx, idDoc)
	if err != nil {
		return err
	}
	certRef, err := s.saveDocument(ctx, certDoc)
	if err != nil {
		return err
	}
	if idRef == nil && certRef == nil {
		return apperrors.NewValidationError("no documents provided", nil)
	}

	if err := s.store.Registrations().UpdateDocuments(ctx, requestID, idRef, certRef); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewAlreadyProcessed("registration request is no longer pending")
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventDocumentsUploaded, requestID, events.Actor{Role: domain.RoleServiceProvider}, nil)
	return nil
}

// UploadProviderDocuments replaces an approved provider's documents and
// puts the account back into the unverified state pending re-approval.
// Both documents are required on this path.
func (s *RegistrationService) UploadProviderDocuments(ctx context.Context, provider *domain.ServiceProvider, idDoc, certDoc Document) error {
	idRef, err := s.saveDocument(ctx, &idDoc)
	if err != nil {
		return err
	}
	certRef, err := s.saveDocument(ctx, &certDoc)
	if err != nil {
		return err
	}

	if err := s.store.Profiles().UpdateProviderDocuments(ctx, provider.ID, *idRef, *certRef); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("provider", nil)
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventDocumentsUploaded, provider.ID,
		events.Actor{Role: domain.RoleServiceProvider, UserID: &provider.UserID}, nil)
	return nil
}

// ListRequests returns applications, optionally filtered by status.
func (s *RegistrationService) ListRequests(ctx context.Context, status *domain.RegistrationStatus) ([]domain.ProviderRegistrationRequest, error) {
	requests, err := s.store.Registrations().List(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

// Approve promotes a pending application to a full User plus verified
// ServiceProvider. The request update and both inserts run in a single
// transaction: a failure at any step rolls everything back, leaving
// the request pending and no orphan rows.
func (s *RegistrationService) Approve(ctx context.Context, requestID, adminUserID string) (*domain.User, *domain.ServiceProvider, error) {
	var (
		user     *domain.User
		provider *domain.ServiceProvider
		email    string
	)

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		request, err := tx.Registrations().GetByID(ctx, requestID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("registration request", nil)
			}
			return err
		}
		if request.Status != domain.RegistrationPending {
			return apperrors.NewAlreadyProcessed("registration request already processed")
		}
		if request.NeedsDocuments() {
			return apperrors.NewMissingDocuments("cannot approve without ID verification and certification documents")
		}
		email = request.Email

		// Mark the request first so the guarded user insert no longer
		// sees an open application for this email.
		if err := tx.Registrations().MarkApproved(ctx, requestID, adminUserID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewAlreadyProcessed("registration request already processed")
			}
			return err
		}

		user = &domain.User{
			Email:        request.Email,
			PasswordHash: request.PasswordHash,
			FullName:     request.FullName,
			PhoneNumber:  request.PhoneNumber,
			Role:         domain.RoleServiceProvider,
			Active:       true,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		now := time.Now()
		provider = &domain.ServiceProvider{
			UserID:            user.ID,
			BusinessName:      &request.FullName,
			Address:           request.Address,
			YearsExperience:   request.YearsExperience,
			IDVerificationRef: request.IDVerificationRef,
			CertificationRef:  request.CertificationRef,
			Verified:          true,
			VerifiedAt:        &now,
			VerifiedBy:        &adminUserID,
		}
		return tx.Profiles().CreateServiceProvider(ctx, provider)
	})
	if err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, nil, apperrors.NewDuplicateEmail(email)
		}
		return nil, nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRegistrationApproved, requestID,
		events.Actor{Role: domain.RoleAdmin, UserID: &adminUserID},
		events.RegistrationApprovedPayload{Email: email, UserID: user.ID, ProviderID: provider.ID})
	return user, provider, nil
}

// Reject marks a pending application rejected with a reason. Terminal;
// repeated calls surface AlreadyProcessed without further changes.
func (s *RegistrationService) Reject(ctx context.Context, requestID, adminUserID, reason string) error {
	request, err := s.store.Registrations().GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("registration request", nil)
		}
		return apperrors.MapError(err)
	}
	if request.Status != domain.RegistrationPending {
		return apperrors.NewAlreadyProcessed("registration request already processed")
	}

	if err := s.store.Registrations().MarkRejected(ctx, requestID, adminUserID, reason); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewAlreadyProcessed("registration request already processed")
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRegistrationRejected, requestID,
		events.Actor{Role: domain.RoleAdmin, UserID: &adminUserID},
		events.RegistrationRejectedPayload{Email: request.Email, Reason: reason})
	return nil
}

func (s *RegistrationService) saveDocument(ctx context.Context, doc *Document) (*string, error) {
	if doc == nil {
		return nil, nil
	}
	ref, err := s.files.Save(ctx, doc.Filename, doc.Content)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &ref, nil
}

func (s *RegistrationService) publish(ctx context.Context, eventType events.EventType, subjectID string, actor events.Actor, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
