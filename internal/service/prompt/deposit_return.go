package prompt

import (
	"leasedoc/internal/domain/models"
)

// VisitDepositReturn renders a security deposit return letter request
func (Builder) VisitDepositReturn(f *models.DepositReturnForm) (string, error) {
	r := newRequest("Draft a security deposit return letter with an itemized list of deductions from a landlord to a former residential tenant in Texas.")

	r.section("Tenant and property")
	r.field("Tenant name", f.TenantName)
	r.field("Property address", f.PropertyAddress)
	r.field("Forwarding address", orDefault(f.ForwardingAddress, "[FORWARDING ADDRESS]"))
	r.field("Landlord", orDefault(f.LandlordName, "[LANDLORD NAME]"))
	r.field("Move-out date", f.MoveOutDate)

	r.section("Deposit accounting")
	r.field("Security deposit held", r.money(f.DepositAmount))
	if len(f.Deductions) == 0 {
		r.line("No deductions")
	}
	for _, d := range f.Deductions {
		r.line("Deduction: %s, %s", d.Description, r.money(d.Amount))
	}
	r.field("Total deductions", r.money(f.TotalDeductions()))
	if refund := f.Refund(); refund >= 0 {
		r.field("Amount refunded to tenant", r.money(refund))
	} else {
		r.field("Balance owed by tenant", r.money(-refund))
	}

	r.headers(
		"SECURITY DEPOSIT DISPOSITION",
		"ITEMIZED DEDUCTIONS",
		"REFUND OR BALANCE DUE",
		"LANDLORD SIGNATURE",
	)

	r.section("Legal requirements")
	r.line("The refund and itemized list must be delivered within 30 days after the tenant surrenders the premises (Texas Property Code §92.103).")
	r.line("Each deduction must be described with the amount charged; normal wear and tear may not be deducted (Texas Property Code §92.104).")
	r.line("Present the deductions as a table-like list followed by the total.")

	return r.result()
}
