package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"leasedoc/internal/config"
	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/repositories"
	"leasedoc/internal/domain/services"
	llmSvc "leasedoc/internal/domain/services/llm"
	"leasedoc/internal/metrics"
	"leasedoc/internal/service/llm"
	"leasedoc/internal/service/prompt"
)

// UsagePeriod returns the billing period of t, "YYYY-MM" in UTC
func UsagePeriod(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// documentService implements the DocumentService interface
type documentService struct {
	docRepo      repositories.DocumentRepository
	usageRepo    repositories.UsageRepository
	txManager    repositories.TransactionManager
	client       llmSvc.GenerationClient
	monthlyLimit int // 0 disables the quota check
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	usageRepo repositories.UsageRepository,
	txManager repositories.TransactionManager,
	client llmSvc.GenerationClient,
	monthlyLimit int,
	m *metrics.Metrics,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:      docRepo,
		usageRepo:    usageRepo,
		txManager:    txManager,
		client:       client,
		monthlyLimit: monthlyLimit,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// Generate creates a new document from typed form data
func (s *documentService) Generate(ctx context.Context, req *services.GenerateDocumentRequest) (*models.Document, error) {
	docType, err := models.ParseDocumentType(req.DocumentType)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	if err := validateReference("property_id", req.PropertyID); err != nil {
		return nil, err
	}
	if err := validateReference("tenant_id", req.TenantID); err != nil {
		return nil, err
	}

	form, err := models.DecodeFormData(docType, req.FormData)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	period := UsagePeriod(s.now())
	if err := s.checkQuota(ctx, req.OwnerID, period); err != nil {
		s.recordFailure(err)
		return nil, err
	}

	userPrompt, err := prompt.Build(form)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	content, err := s.complete(ctx, userPrompt)
	if err != nil {
		return nil, err
	}

	formJSON, err := models.MarshalFormData(form)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		OwnerID:      req.OwnerID,
		DocumentType: docType,
		Title:        truncateTitle(form.Title()),
		Content:      content,
		FormData:     formJSON,
		PropertyID:   req.PropertyID,
		TenantID:     req.TenantID,
	}

	// The generation call is not part of the transaction; a failure here loses it
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		used, err := s.usageRepo.Increment(txCtx, req.OwnerID, period)
		if err != nil {
			return fmt.Errorf("increment usage: %w", err)
		}
		// the early check ran before the generation call; concurrent requests
		// by the same owner may have used the allowance since
		if s.monthlyLimit > 0 && used > s.monthlyLimit {
			return fmt.Errorf("%w: %d of %d documents used in %s", domain.ErrQuotaExceeded, used-1, s.monthlyLimit, period)
		}
		return nil
	})
	if errors.Is(err, domain.ErrQuotaExceeded) {
		s.logger.Warn("generated document discarded: monthly limit reached during generation",
			"owner_id", req.OwnerID,
			"document_type", docType,
			"period", period,
		)
		s.recordFailure(err)
		return nil, err
	}
	if err != nil {
		s.logger.Error("generated document not stored",
			"owner_id", req.OwnerID,
			"document_type", docType,
			"error", err,
		)
		s.metrics.GenerationFailures.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	s.metrics.DocumentsGenerated.WithLabelValues(docType.String()).Inc()
	s.logger.Info("document generated",
		"id", doc.ID,
		"owner_id", doc.OwnerID,
		"document_type", docType,
		"content_length", len(content),
	)

	return doc, nil
}

// Regenerate rebuilds the content of an existing document from its stored form data
func (s *documentService) Regenerate(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	if !doc.HasFormData() {
		s.recordFailure(domain.ErrMissingFormData)
		return nil, fmt.Errorf("regenerate %s: %w", doc.ID, domain.ErrMissingFormData)
	}

	form, err := doc.DecodedFormData()
	if err != nil {
		s.logger.Error("stored form data no longer decodes",
			"id", doc.ID,
			"document_type", doc.DocumentType,
			"error", err,
		)
		s.recordFailure(err)
		return nil, err
	}

	userPrompt, err := prompt.Build(form)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	content, err := s.complete(ctx, userPrompt)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.UpdateContent(ctx, doc.ID, ownerID, content); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// deleted while the generation call was in flight
			return nil, err
		}
		s.logger.Error("regenerated content not stored", "id", doc.ID, "error", err)
		s.metrics.GenerationFailures.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	doc.Content = content
	doc.UpdatedAt = s.now()

	s.metrics.DocumentsRegenerated.WithLabelValues(doc.DocumentType.String()).Inc()
	s.logger.Info("document regenerated",
		"id", doc.ID,
		"owner_id", ownerID,
		"document_type", doc.DocumentType,
	)

	return doc, nil
}

// GetDocument retrieves one of the owner's documents
func (s *documentService) GetDocument(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, documentID, ownerID)
}

// ListDocuments lists the owner's documents
func (s *documentService) ListDocuments(ctx context.Context, ownerID string) ([]models.Document, error) {
	return s.docRepo.ListByOwner(ctx, ownerID)
}

// complete makes the single generation call with the fixed system prompt
func (s *documentService) complete(ctx context.Context, userPrompt string) (string, error) {
	start := time.Now()
	content, err := s.client.Complete(ctx, llm.SystemPrompt, userPrompt)
	s.metrics.GenerationDuration.WithLabelValues(s.client.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		s.recordFailure(err)
		return "", err
	}
	return content, nil
}

// checkQuota rejects the request once the owner reached the monthly limit
func (s *documentService) checkQuota(ctx context.Context, ownerID, period string) error {
	if s.monthlyLimit <= 0 {
		return nil
	}

	used, err := s.usageRepo.Get(ctx, ownerID, period)
	if err != nil {
		return fmt.Errorf("check usage: %w", err)
	}
	if used >= s.monthlyLimit {
		return fmt.Errorf("%w: %d of %d documents used in %s", domain.ErrQuotaExceeded, used, s.monthlyLimit, period)
	}
	return nil
}

func (s *documentService) recordFailure(err error) {
	s.metrics.GenerationFailures.WithLabelValues(failureReason(err)).Inc()
}

// failureReason maps an error to a bounded metric label
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDocumentType):
		return "invalid_document_type"
	case errors.Is(err, domain.ErrMissingFormData):
		return "missing_form_data"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, domain.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "upstream"
	default:
		return "internal"
	}
}

func validateReference(field string, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := uuid.Parse(*id); err != nil {
		return fmt.Errorf("%w: %s must be a UUID", domain.ErrValidation, field)
	}
	return nil
}

// truncateTitle keeps titles within the column limit without splitting a rune
func truncateTitle(title string) string {
	if len(title) <= config.MaxTitleLength {
		return title
	}
	cut := config.MaxTitleLength
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}
