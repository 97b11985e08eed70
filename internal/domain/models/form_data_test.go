package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasedoc/internal/domain"
)

func TestParseDocumentType(t *testing.T) {
	for _, dt := range DocumentTypes {
		got, err := ParseDocumentType(string(dt))
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}

	_, err := ParseDocumentType("eviction")
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)

	_, err = ParseDocumentType("")
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)
}

func TestDecodeFormData_EveryTypeHasAVariant(t *testing.T) {
	for _, dt := range DocumentTypes {
		form, err := newFormData(dt)
		require.NoError(t, err, dt)
		assert.Equal(t, dt, form.DocumentType())
	}
}

func TestDecodeFormData_LateRent(t *testing.T) {
	raw := json.RawMessage(`{"tenantName":"J. Smith","amountDue":450,"daysLate":5}`)

	form, err := DecodeFormData(DocumentTypeLateRent, raw)
	require.NoError(t, err)

	lateRent, ok := form.(*LateRentForm)
	require.True(t, ok)
	assert.Equal(t, "J. Smith", lateRent.TenantName)
	assert.Equal(t, 450.0, lateRent.AmountDue)
	assert.Equal(t, 5, lateRent.DaysLate)
	assert.Equal(t, "Late Rent Notice - J. Smith", form.Title())

	canonical, err := MarshalFormData(form)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(canonical))
}

func TestDecodeFormData_Errors(t *testing.T) {
	tests := []struct {
		name    string
		docType DocumentType
		raw     string
		wantErr error
	}{
		{"unknown type", DocumentType("eviction"), `{"tenantName":"A"}`, domain.ErrInvalidDocumentType},
		{"null form", DocumentTypeLateRent, `null`, domain.ErrValidation},
		{"empty form", DocumentTypeLateRent, ``, domain.ErrValidation},
		{"missing tenant", DocumentTypeLateRent, `{"amountDue":450,"daysLate":5}`, domain.ErrValidation},
		{"zero amount", DocumentTypeLateRent, `{"tenantName":"A","amountDue":0,"daysLate":5}`, domain.ErrValidation},
		{"shape of another type", DocumentTypeLateRent, `{"tenantName":"A","amountDue":1,"daysLate":1,"newRent":1200}`, domain.ErrValidation},
		{"wrong field type", DocumentTypeLateRent, `{"tenantName":"A","amountDue":"lots","daysLate":1}`, domain.ErrValidation},
		{"bad date", DocumentTypeMaintenance, `{"tenantName":"A","propertyAddress":"1 Main","maintenanceType":"hvac","description":"filter","scheduledDate":"03/04/2025"}`, domain.ErrValidation},
		{"bad inspection type", DocumentTypeMoveInOut, `{"tenantName":"A","propertyAddress":"1 Main","inspectionType":"mid_lease","inspectionDate":"2025-01-01","rooms":[{"room":"Kitchen","condition":"good"}]}`, domain.ErrValidation},
		{"invalid room", DocumentTypeMoveInOut, `{"tenantName":"A","propertyAddress":"1 Main","inspectionType":"move_in","inspectionDate":"2025-01-01","rooms":[{"room":"Kitchen","condition":"sparkly"}]}`, domain.ErrValidation},
		{"invalid deduction", DocumentTypeDepositReturn, `{"tenantName":"A","propertyAddress":"1 Main","depositAmount":1000,"moveOutDate":"2025-01-31","deductions":[{"description":"","amount":50}]}`, domain.ErrValidation},
		{"lease ends before start", DocumentTypeLeaseAgreement, `{"tenantName":"A","landlordName":"B","propertyAddress":"1 Main","monthlyRent":1500,"leaseStart":"2025-06-01","leaseEnd":"2025-05-31"}`, domain.ErrValidation},
		{"amount above cap", DocumentTypeLateRent, `{"tenantName":"A","amountDue":1e19,"daysLate":5}`, domain.ErrValidation},
		{"late fee above cap", DocumentTypeLateRent, `{"tenantName":"A","amountDue":450,"daysLate":5,"lateFee":1000000000.01}`, domain.ErrValidation},
		{"rent above cap", DocumentTypeLeaseRenewal, `{"tenantName":"A","propertyAddress":"1 Main","currentRent":1200,"newRent":2e9,"currentLeaseEnd":"2025-06-30","newTermMonths":12}`, domain.ErrValidation},
		{"deduction above cap", DocumentTypeDepositReturn, `{"tenantName":"A","propertyAddress":"1 Main","depositAmount":1000,"moveOutDate":"2025-01-31","deductions":[{"description":"Roof","amount":5e9}]}`, domain.ErrValidation},
		{"deposit above cap", DocumentTypeLeaseAgreement, `{"tenantName":"A","landlordName":"B","propertyAddress":"1 Main","monthlyRent":1500,"securityDeposit":1e12,"leaseStart":"2025-06-01","leaseEnd":"2026-05-31"}`, domain.ErrValidation},
		{"too many deductions", DocumentTypeDepositReturn, `{"tenantName":"A","propertyAddress":"1 Main","depositAmount":1000,"moveOutDate":"2025-01-31","deductions":[` +
			strings.TrimSuffix(strings.Repeat(`{"description":"Nail hole","amount":1},`, MaxDeductions+1), ",") + `]}`, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFormData(tt.docType, json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_AmountAtCap(t *testing.T) {
	fee := MaxAmount
	form := &LateRentForm{TenantName: "A", AmountDue: MaxAmount, DaysLate: 5, LateFee: &fee}
	assert.NoError(t, form.Validate())

	form.AmountDue = MaxAmount + 1
	assert.ErrorIs(t, form.Validate(), domain.ErrValidation)
}

func TestFormTitles(t *testing.T) {
	tests := []struct {
		form FormData
		want string
	}{
		{&LateRentForm{TenantName: "Ana"}, "Late Rent Notice - Ana"},
		{&LeaseRenewalForm{TenantName: "Ana"}, "Lease Renewal Offer - Ana"},
		{&DepositReturnForm{TenantName: "Ana"}, "Security Deposit Return - Ana"},
		{&MaintenanceForm{TenantName: "Ana"}, "Maintenance Notice - Ana"},
		{&MoveInOutForm{TenantName: "Ana", InspectionType: InspectionMoveIn}, "Move-In Inspection - Ana"},
		{&MoveInOutForm{TenantName: "Ana", InspectionType: InspectionMoveOut}, "Move-Out Inspection - Ana"},
		{&LeaseAgreementForm{TenantName: "Ana"}, "Residential Lease Agreement - Ana"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.form.Title())
	}
}

func TestDepositReturnForm_Refund(t *testing.T) {
	form := &DepositReturnForm{
		DepositAmount: 1000,
		Deductions: []Deduction{
			{Description: "Carpet cleaning", Amount: 150},
			{Description: "Broken blinds", Amount: 75.5},
		},
	}
	assert.InDelta(t, 225.5, form.TotalDeductions(), 0.001)
	assert.InDelta(t, 774.5, form.Refund(), 0.001)
}

func TestLateRentForm_TotalDue(t *testing.T) {
	fee := 75.0
	assert.Equal(t, 450.0, (&LateRentForm{AmountDue: 450}).TotalDue())
	assert.Equal(t, 525.0, (&LateRentForm{AmountDue: 450, LateFee: &fee}).TotalDue())
}

func TestDocument_HasFormData(t *testing.T) {
	assert.False(t, (&Document{}).HasFormData())
	assert.False(t, (&Document{FormData: json.RawMessage("null")}).HasFormData())
	assert.True(t, (&Document{FormData: json.RawMessage(`{"tenantName":"A"}`)}).HasFormData())

	_, err := (&Document{ID: "d1", DocumentType: DocumentTypeLateRent}).DecodedFormData()
	assert.ErrorIs(t, err, domain.ErrMissingFormData)
}
