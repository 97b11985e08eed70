package prompt

import (
	"fmt"
	"strings"

	"leasedoc/internal/domain/models"
)

// VisitLeaseAgreement renders a residential lease agreement request
func (Builder) VisitLeaseAgreement(f *models.LeaseAgreementForm) (string, error) {
	r := newRequest("Draft a residential lease agreement for a property in Texas.")

	r.section("Parties and property")
	r.field("Landlord", f.LandlordName)
	r.field("Tenant", f.TenantName)
	if len(f.Occupants) > 0 {
		r.field("Other occupants", strings.Join(f.Occupants, ", "))
	}
	r.field("Property address", f.PropertyAddress)

	r.section("Terms")
	r.field("Lease start", f.LeaseStart)
	r.field("Lease end", f.LeaseEnd)
	r.field("Monthly rent", r.money(f.MonthlyRent))
	r.field("Rent due", fmt.Sprintf("day %d of each month", f.DueDay()))
	r.field("Security deposit", r.money(f.SecurityDeposit))
	r.field("Pets allowed", yesNo(f.PetsAllowed))
	if len(f.UtilitiesIncluded) > 0 {
		r.field("Utilities paid by landlord", strings.Join(f.UtilitiesIncluded, ", "))
	} else {
		r.field("Utilities paid by landlord", "none")
	}
	r.field("Additional terms", f.AdditionalTerms)

	r.headers(
		"PARTIES",
		"PROPERTY",
		"TERM",
		"RENT AND LATE FEES",
		"SECURITY DEPOSIT",
		"UTILITIES",
		"USE AND OCCUPANCY",
		"PETS",
		"REPAIRS AND MAINTENANCE",
		"ENTRY BY LANDLORD",
		"REQUIRED DISCLOSURES",
		"SIGNATURES",
	)

	r.section("Legal requirements")
	r.line("Late fees may only be charged if rent remains unpaid two full days after the due date and must be reasonable (Texas Property Code §92.019).")
	r.line("Disclose the name and address of the owner or management company (Texas Property Code §92.201).")
	r.line("Include the tenant's right to request repairs and the remedies statement in underlined or bold print (Texas Property Code §92.056).")
	r.line("Disclose the landlord's duty to rekey security devices and the security device requirements (Texas Property Code §92.151 et seq.).")
	r.line("State that the landlord may not interrupt utilities or exclude the tenant except as permitted by law (Texas Property Code §92.008 and §92.0081).")
	r.line("Include the lead-based paint disclosure if the property was built before 1978.")

	return r.result()
}
