package models

import (
	"encoding/json"
	"fmt"
	"time"

	"leasedoc/internal/domain"
)

// DocumentType tags the kind of landlord document. The set is closed.
type DocumentType string

const (
	DocumentTypeLateRent       DocumentType = "late_rent"
	DocumentTypeLeaseRenewal   DocumentType = "lease_renewal"
	DocumentTypeDepositReturn  DocumentType = "deposit_return"
	DocumentTypeMaintenance    DocumentType = "maintenance"
	DocumentTypeMoveInOut      DocumentType = "move_in_out"
	DocumentTypeLeaseAgreement DocumentType = "lease_agreement"
)

// DocumentTypes lists every supported document type in display order
var DocumentTypes = []DocumentType{
	DocumentTypeLateRent,
	DocumentTypeLeaseRenewal,
	DocumentTypeDepositReturn,
	DocumentTypeMaintenance,
	DocumentTypeMoveInOut,
	DocumentTypeLeaseAgreement,
}

// ParseDocumentType converts a raw tag into a DocumentType.
// Unknown tags return domain.ErrInvalidDocumentType.
func ParseDocumentType(raw string) (DocumentType, error) {
	t := DocumentType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDocumentType, raw)
	}
	return t, nil
}

// IsValid reports whether t is one of the supported document types
func (t DocumentType) IsValid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t DocumentType) String() string {
	return string(t)
}

// Document is a generated landlord document owned by exactly one user.
//
// Content may be overwritten by regeneration; FormData never changes after creation.
// The signature fields are only written by the send action and the webhook processor.
type Document struct {
	ID                 string           `json:"id" db:"id"`
	OwnerID            string           `json:"owner_id" db:"owner_id"`
	DocumentType       DocumentType     `json:"document_type" db:"document_type"`
	Title              string           `json:"title" db:"title"`
	Content            string           `json:"content" db:"content"`
	FormData           json.RawMessage  `json:"form_data" db:"form_data"` // NULL for documents created without captured input
	PropertyID         *string          `json:"property_id" db:"property_id"`
	TenantID           *string          `json:"tenant_id" db:"tenant_id"`
	SignatureRequestID *string          `json:"signature_request_id" db:"signature_request_id"`
	SignatureStatus    *SignatureStatus `json:"signature_status" db:"signature_status"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// HasFormData reports whether the document captured the input it was generated from
func (d *Document) HasFormData() bool {
	return len(d.FormData) > 0 && string(d.FormData) != "null"
}

// DecodedFormData decodes the stored form data into its typed variant
func (d *Document) DecodedFormData() (FormData, error) {
	if !d.HasFormData() {
		return nil, fmt.Errorf("document %s: %w", d.ID, domain.ErrMissingFormData)
	}
	return DecodeFormData(d.DocumentType, d.FormData)
}

// GeneratedContent is the result of a generation or regeneration
type GeneratedContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
