package prompt

import (
	"leasedoc/internal/domain/models"
)

// VisitMaintenance renders a maintenance and entry notice request
func (Builder) VisitMaintenance(f *models.MaintenanceForm) (string, error) {
	intro := "Draft a notice of scheduled maintenance and entry from a landlord to a residential tenant in Texas."
	if f.Urgent {
		intro = "Draft an urgent notice of emergency maintenance and entry from a landlord to a residential tenant in Texas."
	}
	r := newRequest(intro)

	r.section("Tenant and property")
	r.field("Tenant name", f.TenantName)
	r.field("Property address", f.PropertyAddress)
	r.field("Landlord", orDefault(f.LandlordName, "[LANDLORD NAME]"))

	r.section("Work to be done")
	r.field("Type of maintenance", f.MaintenanceType)
	r.field("Description", f.Description)
	r.field("Scheduled date", f.ScheduledDate)
	r.field("Time window", orDefault(f.TimeWindow, "[TIME WINDOW]"))
	r.field("Contact phone", orDefault(f.ContactPhone, "[CONTACT PHONE]"))
	r.field("Urgent", yesNo(f.Urgent))

	r.headers(
		"NOTICE OF MAINTENANCE AND ENTRY",
		"DESCRIPTION OF WORK",
		"DATE AND TIME OF ENTRY",
		"WHAT THE TENANT NEEDS TO DO",
		"CONTACT INFORMATION",
	)

	r.section("Legal requirements")
	r.line("Reference the landlord's duty to make diligent efforts to repair conditions that materially affect health or safety (Texas Property Code §92.052).")
	r.line("Entry is made under the access provisions of the lease; ask the tenant to secure pets and clear access to the work area.")
	r.line("Offer a way to reschedule if the time window is not workable, unless the work is an emergency.")

	return r.result()
}
