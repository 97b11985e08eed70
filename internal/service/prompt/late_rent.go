package prompt

import (
	"fmt"

	"leasedoc/internal/domain/models"
)

// defaultCureDays is the payment window given when the form does not specify one
const defaultCureDays = 3

// VisitLateRent renders a late rent notice request
func (Builder) VisitLateRent(f *models.LateRentForm) (string, error) {
	r := newRequest("Draft a formal late rent notice from a landlord to a residential tenant in Texas.")

	r.section("Tenant and property")
	r.field("Tenant name", f.TenantName)
	r.field("Property address", orDefault(f.PropertyAddress, "[PROPERTY ADDRESS]"))
	r.field("Landlord", orDefault(f.LandlordName, "[LANDLORD NAME]"))

	r.section("Amounts")
	r.field("Rent past due", r.money(f.AmountDue))
	r.field("Days late", fmt.Sprintf("%d", f.DaysLate))
	r.field("Original due date", f.DueDate)
	if f.LateFee != nil {
		r.field("Late fee", r.money(*f.LateFee))
	}
	r.field("Total now due", r.money(f.TotalDue()))

	cureDays := defaultCureDays
	if f.PaymentDeadlineDays != nil {
		cureDays = *f.PaymentDeadlineDays
	}
	r.field("Days given to pay", fmt.Sprintf("%d", cureDays))

	r.headers(
		"NOTICE OF LATE RENT",
		"AMOUNT DUE",
		"PAYMENT INSTRUCTIONS",
		"CONSEQUENCES OF NON-PAYMENT",
		"LANDLORD SIGNATURE",
	)

	r.section("Legal requirements")
	r.line("Any late fee must be reasonable and charged only because rent remained unpaid two full days after the due date (Texas Property Code §92.019).")
	r.line("State that this notice is not a notice to vacate and that a separate notice under Texas Property Code §24.005 would precede any eviction filing.")
	r.line("Keep a firm but professional tone; no threats or harassment.")

	return r.result()
}
