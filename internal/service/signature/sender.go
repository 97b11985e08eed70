package signature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"leasedoc/internal/config"
	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/repositories"
	"leasedoc/internal/domain/services"
	"leasedoc/internal/metrics"
)

// signatureService implements the SignatureService interface
type signatureService struct {
	docRepo  repositories.DocumentRepository
	provider services.SignatureProvider
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSignatureService creates a new signature service
func NewSignatureService(
	docRepo repositories.DocumentRepository,
	provider services.SignatureProvider,
	m *metrics.Metrics,
	logger *slog.Logger,
) services.SignatureService {
	return &signatureService{
		docRepo:  docRepo,
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// SendForSignature uploads the document content to the provider and records the request id
func (s *signatureService) SendForSignature(ctx context.Context, ownerID, documentID string, req *services.SendForSignatureRequest) (*models.Document, error) {
	if err := validateSendRequest(req); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	if doc.SignatureRequestID != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("document %s was already sent for signature", doc.ID),
			ResourceType: "signature_request",
			ResourceID:   *doc.SignatureRequestID,
		}
	}

	subject := req.Subject
	if subject == "" {
		subject = doc.Title
	}

	requestID, err := s.provider.CreateSignatureRequest(ctx, &services.ProviderSignatureRequest{
		Title:    doc.Title,
		Subject:  subject,
		Message:  req.Message,
		Filename: filename(doc.Title),
		Content:  []byte(doc.Content),
		Signers:  req.Signers,
		Metadata: map[string]string{"document_id": doc.ID},
	})
	if err != nil {
		s.metrics.SignatureRequests.WithLabelValues("provider_error").Inc()
		return nil, err
	}

	if err := s.docRepo.SetSignatureRequest(ctx, doc.ID, ownerID, requestID); err != nil {
		// the provider request exists now; keep its id in the log for reconciliation
		s.logger.Error("signature request created but not recorded",
			"document_id", doc.ID,
			"signature_request_id", requestID,
			"error", err,
		)
		s.metrics.SignatureRequests.WithLabelValues("storage_error").Inc()
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	pending := models.SignatureStatusPending
	doc.SignatureRequestID = &requestID
	doc.SignatureStatus = &pending

	s.metrics.SignatureRequests.WithLabelValues("sent").Inc()
	s.logger.Info("document sent for signature",
		"document_id", doc.ID,
		"owner_id", ownerID,
		"signature_request_id", requestID,
		"signers", len(req.Signers),
	)

	return doc, nil
}

func validateSendRequest(req *services.SendForSignatureRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request body is required", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Signers, validation.Required, validation.Length(1, config.MaxSigners),
			validation.Each(validation.By(validateSigner))),
		validation.Field(&req.Subject, validation.Length(0, 255)),
		validation.Field(&req.Message, validation.Length(0, 5000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateSigner(value interface{}) error {
	signer, _ := value.(services.Signer)
	return validation.ValidateStruct(&signer,
		validation.Field(&signer.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&signer.Email, validation.Required, is.EmailFormat),
	)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// filename derives an upload name from a document title
func filename(title string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(title, "-"), "-")
	if name == "" {
		name = "document"
	}
	return strings.ToLower(name) + ".txt"
}
