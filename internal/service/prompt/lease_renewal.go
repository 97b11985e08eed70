package prompt

import (
	"fmt"

	"leasedoc/internal/domain/models"
)

// VisitLeaseRenewal renders a lease renewal offer request
func (Builder) VisitLeaseRenewal(f *models.LeaseRenewalForm) (string, error) {
	r := newRequest("Draft a lease renewal offer letter from a landlord to a residential tenant in Texas.")

	r.section("Tenant and property")
	r.field("Tenant name", f.TenantName)
	r.field("Property address", f.PropertyAddress)
	r.field("Landlord", orDefault(f.LandlordName, "[LANDLORD NAME]"))

	r.section("Renewal terms")
	r.field("Current monthly rent", r.money(f.CurrentRent))
	r.field("Proposed monthly rent", r.money(f.NewRent))
	switch {
	case f.NewRent > f.CurrentRent:
		r.field("Change", "increase of "+r.money(f.NewRent-f.CurrentRent)+" per month")
	case f.NewRent < f.CurrentRent:
		r.field("Change", "decrease of "+r.money(f.CurrentRent-f.NewRent)+" per month")
	default:
		r.field("Change", "no change")
	}
	r.field("Current lease ends", f.CurrentLeaseEnd)
	r.field("New term", fmt.Sprintf("%d months", f.NewTermMonths))
	r.field("Respond by", orDefault(f.ResponseDeadline, "[RESPONSE DEADLINE]"))

	r.headers(
		"LEASE RENEWAL OFFER",
		"PROPOSED TERMS",
		"HOW TO ACCEPT",
		"IF YOU DO NOT RENEW",
		"LANDLORD SIGNATURE",
		"TENANT ACCEPTANCE",
	)

	r.section("Legal requirements")
	r.line("All other terms of the current lease remain unchanged unless stated above.")
	r.line("If the tenant does not renew, remind them of the move-out notice required by the current lease and that the security deposit is handled under Texas Property Code §92.103.")
	r.line("Include a tenant acceptance block with signature and date blanks.")

	return r.result()
}
