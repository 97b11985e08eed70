package prompt

import (
	"leasedoc/internal/domain/models"
)

// VisitMoveInOut renders a move-in or move-out inspection report request
func (Builder) VisitMoveInOut(f *models.MoveInOutForm) (string, error) {
	kind, title := "move-in", "MOVE-IN INSPECTION REPORT"
	if f.InspectionType == models.InspectionMoveOut {
		kind, title = "move-out", "MOVE-OUT INSPECTION REPORT"
	}
	r := newRequest("Draft a " + kind + " property condition inspection report for a residential rental in Texas.")

	r.section("Tenant and property")
	r.field("Tenant name", f.TenantName)
	r.field("Property address", f.PropertyAddress)
	r.field("Landlord", orDefault(f.LandlordName, "[LANDLORD NAME]"))
	r.field("Inspection date", f.InspectionDate)

	r.section("Room conditions")
	for _, room := range f.Rooms {
		if room.Notes != "" {
			r.line("%s: %s (%s)", room.Room, room.Condition, room.Notes)
			continue
		}
		r.line("%s: %s", room.Room, room.Condition)
	}
	r.field("General notes", f.GeneralNotes)

	r.headers(
		title,
		"ROOM-BY-ROOM CONDITION",
		"NOTED DAMAGE AND EXCEPTIONS",
		"ACKNOWLEDGEMENT",
	)

	r.section("Legal requirements")
	if f.InspectionType == models.InspectionMoveOut {
		r.line("Distinguish damage from normal wear and tear, since only damage may be deducted from the security deposit (Texas Property Code §92.104).")
	} else {
		r.line("State that this report records the condition at move-in and will be compared at move-out for security deposit purposes (Texas Property Code §92.104).")
	}
	r.line("Include signature and date blanks for both landlord and tenant.")

	return r.result()
}
