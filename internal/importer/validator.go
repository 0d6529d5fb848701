package importer

import (
	"fmt"

	"github.com/oceanstay/booking-service/internal/mapping"
)

// Validate checks a mapped row against the business rules, in order:
// required fields, amount bounds, nights bounds, date ordering. The
// returned messages are part of the caller-facing contract.
func Validate(row *Row, rules mapping.ValidationRules) (bool, string) {
	for _, field := range rules.RequiredFields {
		if !fieldPresent(row, field) {
			return false, fmt.Sprintf("Missing required field: %s", field)
		}
	}

	if row.TotalPayoutVND != nil {
		amount := *row.TotalPayoutVND
		if amount < rules.ADRRange[0] || amount > rules.ADRRange[1] {
			return false, fmt.Sprintf("Amount %d is outside reasonable range (10k-10M VND)", amount)
		}
	}

	if row.NumNights != nil {
		nights := *row.NumNights
		if nights < rules.NightsRange[0] || nights > rules.NightsRange[1] {
			return false, fmt.Sprintf("Number of nights %d must be between 1-365", nights)
		}
	}

	if row.StartDate != nil && row.EndDate != nil && !row.EndDate.After(*row.StartDate) {
		return false, "End date must be after start date"
	}

	return true, ""
}

func fieldPresent(row *Row, field string) bool {
	switch field {
	case "guest_name":
		return row.GuestName != nil && *row.GuestName != ""
	case "guest_contact":
		return row.GuestContact != nil && *row.GuestContact != ""
	case "start_date":
		return row.StartDate != nil
	case "end_date":
		return row.EndDate != nil
	case "booking_date":
		return row.BookingDate != nil
	case "num_nights":
		return row.NumNights != nil
	case "total_payout_vnd":
		return row.TotalPayoutVND != nil
	case "confirmation_code":
		return row.ConfirmationCode != nil && *row.ConfirmationCode != ""
	case "external_ref":
		return row.ExternalRef != nil && *row.ExternalRef != ""
	case "listing_raw":
		return row.ListingRaw != nil && *row.ListingRaw != ""
	case "status":
		return row.Status != ""
	case "channel":
		return row.Channel != ""
	default:
		return false
	}
}
