package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"leasedoc/internal/domain"
)

// DateLayout is the only accepted date format in form data
const DateLayout = "2006-01-02"

// MaxAmount bounds every dollar amount in form data
const MaxAmount = 1_000_000_000.0

// MaxDeductions bounds the itemized deductions on a deposit return
const MaxDeductions = 50

// FormData is the structured input captured when a document is generated.
// It is a closed set of variants, one per DocumentType.
type FormData interface {
	// DocumentType returns the tag this variant belongs to
	DocumentType() DocumentType

	// Title applies the canonical naming rule of the document type
	Title() string

	// Validate checks that every field required by the document type is present
	Validate() error

	// Accept dispatches to the visitor method for this variant
	Accept(v FormDataVisitor) (string, error)
}

// FormDataVisitor has one method per FormData variant. Adding a variant adds a
// method here, so every implementation (the prompt builders) must handle it.
type FormDataVisitor interface {
	VisitLateRent(f *LateRentForm) (string, error)
	VisitLeaseRenewal(f *LeaseRenewalForm) (string, error)
	VisitDepositReturn(f *DepositReturnForm) (string, error)
	VisitMaintenance(f *MaintenanceForm) (string, error)
	VisitMoveInOut(f *MoveInOutForm) (string, error)
	VisitLeaseAgreement(f *LeaseAgreementForm) (string, error)
}

// newFormData returns an empty variant for t. This is the single place where a
// document type tag is mapped to its form shape.
func newFormData(t DocumentType) (FormData, error) {
	switch t {
	case DocumentTypeLateRent:
		return &LateRentForm{}, nil
	case DocumentTypeLeaseRenewal:
		return &LeaseRenewalForm{}, nil
	case DocumentTypeDepositReturn:
		return &DepositReturnForm{}, nil
	case DocumentTypeMaintenance:
		return &MaintenanceForm{}, nil
	case DocumentTypeMoveInOut:
		return &MoveInOutForm{}, nil
	case DocumentTypeLeaseAgreement:
		return &LeaseAgreementForm{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDocumentType, string(t))
	}
}

// DecodeFormData decodes raw JSON into the variant for t and validates it.
// Fields that do not belong to the variant are rejected so that form data
// stored against one type can never be read as another.
func DecodeFormData(t DocumentType, raw json.RawMessage) (FormData, error) {
	form, err := newFormData(t)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: form_data is required", domain.ErrValidation)
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(form); err != nil {
		return nil, fmt.Errorf("%w: form_data does not match %s: %v", domain.ErrValidation, t, err)
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}
	return form, nil
}

// MarshalFormData returns the canonical JSON stored alongside a document
func MarshalFormData(form FormData) (json.RawMessage, error) {
	data, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("marshal form data: %w", err)
	}
	return data, nil
}

// validationError wraps ozzo validation errors into domain.ErrValidation
func validationError(t DocumentType, err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return fmt.Errorf("validate %s form: %w", t, err)
	}
	return fmt.Errorf("%w: %s form: %v", domain.ErrValidation, t, err)
}

// ============================================================================
// late_rent
// ============================================================================

// LateRentForm is the input of a late rent notice
type LateRentForm struct {
	TenantName          string   `json:"tenantName"`
	AmountDue           float64  `json:"amountDue"`
	DaysLate            int      `json:"daysLate"`
	PropertyAddress     string   `json:"propertyAddress,omitempty"`
	DueDate             string   `json:"dueDate,omitempty"`
	LateFee             *float64 `json:"lateFee,omitempty"`
	PaymentDeadlineDays *int     `json:"paymentDeadlineDays,omitempty"`
	LandlordName        string   `json:"landlordName,omitempty"`
}

func (f *LateRentForm) DocumentType() DocumentType { return DocumentTypeLateRent }
func (f *LateRentForm) Title() string              { return "Late Rent Notice - " + f.TenantName }

func (f *LateRentForm) Accept(v FormDataVisitor) (string, error) {
	return v.VisitLateRent(f)
}

func (f *LateRentForm) Validate() error {
	return validationError(f.DocumentType(), validation.ValidateStruct(f,
		validation.Field(&f.TenantName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.AmountDue, validation.Required, validation.Min(0.01), validation.Max(MaxAmount)),
		validation.Field(&f.DaysLate, validation.Required, validation.Min(1)),
		validation.Field(&f.DueDate, validation.Date(DateLayout)),
		validation.Field(&f.LateFee, validation.Min(0.0), validation.Max(MaxAmount)),
		validation.Field(&f.PaymentDeadlineDays, validation.Min(1), validation.Max(60)),
	))
}

// TotalDue is the rent owed plus the late fee, if any
func (f *LateRentForm) TotalDue() float64 {
	if f.LateFee == nil {
		return f.AmountDue
	}
	return f.AmountDue + *f.LateFee
}

// ============================================================================
// lease_renewal
// ============================================================================

// LeaseRenewalForm is the input of a lease renewal offer
type LeaseRenewalForm struct {
	TenantName       string  `json:"tenantName"`
	PropertyAddress  string  `json:"propertyAddress"`
	CurrentRent      float64 `json:"currentRent"`
	NewRent          float64 `json:"newRent"`
	CurrentLeaseEnd  string  `json:"currentLeaseEnd"`
	NewTermMonths    int     `json:"newTermMonths"`
	ResponseDeadline string  `json:"responseDeadline,omitempty"`
	LandlordName     string  `json:"landlordName,omitempty"`
}

func (f *LeaseRenewalForm) DocumentType() DocumentType { return DocumentTypeLeaseRenewal }
func (f *LeaseRenewalForm) Title() string              { return "Lease Renewal Offer - " + f.TenantName }

func (f *LeaseRenewalForm) Accept(v FormDataVisitor) (string, error) {
	return v.VisitLeaseRenewal(f)
}

func (f *LeaseRenewalForm) Validate() error {
	return validationError(f.DocumentType(), validation.ValidateStruct(f,
		validation.Field(&f.TenantName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.PropertyAddress, validation.Required),
		validation.Field(&f.CurrentRent, validation.Required, validation.Min(0.01), validation.Max(MaxAmount)),
		validation.Field(&f.NewRent, validation.Required, validation.Min(0.01), validation.Max(MaxAmount)),
		validation.Field(&f.CurrentLeaseEnd, validation.Required, validation.Date(DateLayout)),
		validation.Field(&f.NewTermMonths, validation.Required, validation.Min(1), validation.Max(60)),
		validation.Field(&f.ResponseDeadline, validation.Date(DateLayout)),
	))
}

// ============================================================================
// deposit_return
// ============================================================================

// Deduction is one itemized charge against a security deposit
type Deduction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (d Deduction) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Description, validation.Required),
		validation.Field(&d.Amount, validation.Required, validation.Min(0.01), validation.Max(MaxAmount)),
	)
}

// DepositReturnForm is the input of a security deposit return letter
type DepositReturnForm struct {
	TenantName        string      `json:"tenantName"`
	PropertyAddress   string      `json:"propertyAddress"`
	DepositAmount     float64     `json:"depositAmount"`
	MoveOutDate       string      `json:"moveOutDate"`
	Deductions        []Deduction `json:"deductions,omitempty"`
	ForwardingAddress string      `json:"forwardingAddress,omitempty"`
	LandlordName      string      `json:"landlordName,omitempty"`
}

func (f *DepositReturnForm) DocumentType() DocumentType { return DocumentTypeDepositReturn }
func (f *DepositReturnForm) Title() string              { return "Security Deposit Return - " + f.TenantName }

func (f *DepositReturnForm) Accept(v FormDataVisitor) (string, error) {
	return v.VisitDepositReturn(f)
}

func (f *DepositReturnForm) Validate() error {
	return validationError(f.DocumentType(), validation.ValidateStruct(f,
		validation.Field(&f.TenantName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.PropertyAddress, validation.Required),
		validation.Field(&f.DepositAmount, validation.Required, validation.Min(0.01), validation.Max(MaxAmount)),
		validation.Field(&f.MoveOutDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&f.Deductions, validation.Length(0, MaxDeductions)),
	))
}

// TotalDeductions sums the itemized deductions
func (f *DepositReturnForm) TotalDeductions() float64 {
	var total float64
	for _, d := range f.Deductions {
		total += d.Amount
	}
	return total
}

// Refund is the deposit minus deductions. Negative means the tenant owes a balance.
func (f *DepositReturnForm) Refund() float64 {
	return f.DepositAmount - f.TotalDeductions()
}

// ============================================================================
// maintenance
// ============================================================================

// MaintenanceForm is the input of a maintenance / entry notice
type MaintenanceForm struct {
	TenantName      string `json:"tenantName"`
	PropertyAddress string `json:"propertyAddress"`
	MaintenanceType string `json:"maintenanceType"`
	Description     string `json:"description"`
	ScheduledDate   string `json:"scheduledDate"`
	TimeWindow      string `json:"timeWindow,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
	Urgent          bool   `json:"urgent,omitempty"`
	LandlordName    string `json:"landlordName,omitempty"`
}

func (f *MaintenanceForm) DocumentType() DocumentType { return DocumentTypeMaintenance }
func (f *MaintenanceForm) Title() string              { return "Maintenance Notice - " + f.TenantName }

func (f *MaintenanceForm) Accept(v FormDataVisitor) (string, error) {
	return v.VisitMaintenance(f)
}

func (f *MaintenanceForm) Validate() error {
	return validationError(f.DocumentType(), validation.ValidateStruct(f,
		validation.Field(&f.TenantName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.PropertyAddress, validation.Required),
		validation.Field(&f.MaintenanceType, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Description, validation.Required),
		validation.Field(&f.ScheduledDate, validation.Required, validation.Date(DateLayout)),
	))
}

// ============================================================================
// move_in_out
// ============================================================================

// Inspection kinds of a move-in/move-out checklist
const (
	InspectionMoveIn  = "move_in"
	InspectionMoveOut = "move_out"
)

// RoomCondition records the state of one room at inspection time
type RoomCondition struct {
	Room      string `json:"room"`
	Condition string `json:"condition"`
	Notes     string `json:"notes,omitempty"`
}

func (r RoomCondition) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Room, validation.Required),
		validation.Field(&r.Condition, validation.Required,
			validation.In("excellent", "good", "fair", "poor", "damaged")),
	)
}

// MoveInOutForm is the input of a move-in or move-out inspection report
type MoveInOutForm struct {
	TenantName      string          `json:"tenantName"`
	PropertyAddress string          `json:"propertyAddress"`
	InspectionType  string          `json:"inspectionType"`
	InspectionDate  string          `json:"inspectionDate"`
	Rooms           []RoomCondition `json:"rooms"`
	GeneralNotes    string          `json:"generalNotes,omitempty"`
	LandlordName    string          `json:"landlordName,omitempty"`
}

func (f *MoveInOutForm) DocumentType() DocumentType { return DocumentTypeMoveInOut }

func (f *MoveInOutForm) Title() string {
	if f.InspectionType == InspectionMoveOut {
		return "Move-Out Inspection - " + f.TenantName
	}
	return "Move-In Inspection - " + f.TenantName
}

func (f *MoveInOutForm) Accept(v FormDataVisitor) (string, error) {
	return v.VisitMoveInOut(f)
}

func (f *MoveInOutForm) Validate() error {
	return validationError(f.DocumentType(), validation.ValidateStruct(f,
		validation.Field(&f.TenantName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.PropertyAddress, validation.Required),
		validation.Field(&f.InspectionType, validation.Required, validation.In(InspectionMoveIn, InspectionMoveOut)),
		validation.Field(&f.InspectionDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&f.Rooms, validation.Required),
	))
}

// ============================================================================
// lease_agreement
// ============================================================================

// LeaseAgreementForm is the input of a residential lease agreement
type LeaseAgreementForm struct {
	TenantName        string   `json:"tenantName"`
	LandlordName      string   `json:"landlordName"`
	PropertyAddress   string   `json:"propertyAddress"`
	MonthlyRent       float64  `json:"monthlyRent"`
	SecurityDeposit   float64  `json:"securityDeposit"`
	LeaseStart        string   `json:"leaseStart"`
	LeaseEnd          string   `json:"leaseEnd"`
	RentDueDay        int      `json:"rentDueDay,omitempty"`
	Occupants         []string `json:"occupants,omitempty"`
	PetsAllowed       bool     `json:"petsAllowed,omitempty"`
	UtilitiesIncluded []string `json:"utilitiesIncluded,omitempty"`
	AdditionalTerms   string   `json:"additionalTerms,omitempty"`
}

func (f *LeaseAgreementForm) DocumentType() DocumentType { return DocumentTypeLeaseAgreement }
func (f *LeaseAgreementForm) Title() string              { return "Residential Lease Agreement - " + f.TenantName }

func (f *LeaseAgreementForm) Accept(v FormDataVisitor) (string, error) {
	return v.VisitLeaseAgreement(f)
}

func (f *LeaseAgreementForm) Validate() error {
	return validationError(f.DocumentType(), validation.ValidateStruct(f,
		validation.Field(&f.TenantName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.LandlordName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.PropertyAddress, validation.Required),
		validation.Field(&f.MonthlyRent, validation.Required, validation.Min(0.01), validation.Max(MaxAmount)),
		validation.Field(&f.SecurityDeposit, validation.Min(0.0), validation.Max(MaxAmount)),
		validation.Field(&f.LeaseStart, validation.Required, validation.Date(DateLayout)),
		validation.Field(&f.LeaseEnd, validation.Required, validation.Date(DateLayout),
			validation.By(func(value interface{}) error {
				// ISO dates compare lexically
				if end, _ := value.(string); f.LeaseStart != "" && end <= f.LeaseStart {
					return errors.New("must be after leaseStart")
				}
				return nil
			})),
		validation.Field(&f.RentDueDay, validation.Min(1), validation.Max(28)),
		validation.Field(&f.Occupants, validation.Each(validation.Required)),
		validation.Field(&f.UtilitiesIncluded, validation.Each(validation.Required)),
	))
}

// DueDay returns the day of month rent is due, defaulting to the 1st
func (f *LeaseAgreementForm) DueDay() int {
	if f.RentDueDay == 0 {
		return 1
	}
	return f.RentDueDay
}
