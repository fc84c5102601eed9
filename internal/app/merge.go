package app

import (
	"time"

	"bookparse/internal/domain"
	"bookparse/internal/parse"
)

// MergeExtracted copies parsed fields onto the reservation without ever
// overwriting data already present. Returns the names of the fields it set.
func MergeExtracted(res *domain.Reservation, d *parse.Extracted) []string {
	if d == nil {
		return nil
	}
	var changed []string

	setStr := func(dst **string, src *string, name string) {
		if *dst == nil && src != nil {
			v := *src
			*dst = &v
			changed = append(changed, name)
		}
	}
	setInt := func(dst **int, src *int, name string) {
		if *dst == nil && src != nil {
			v := *src
			*dst = &v
			changed = append(changed, name)
		}
	}
	setTime := func(dst **time.Time, src *time.Time, name string) {
		if *dst == nil && src != nil {
			v := *src
			*dst = &v
			changed = append(changed, name)
		}
	}

	setStr(&res.GuestName, d.GuestName, "guest_name")
	setStr(&res.GuestPhone, d.Phone, "guest_phone")
	setStr(&res.HotelName, d.HotelName, "hotel_name")
	setStr(&res.BookingNumber, d.BookingNumber, "booking_number")
	setTime(&res.CheckIn, d.CheckIn, "check_in")
	setTime(&res.CheckOut, d.CheckOut, "check_out")
	setInt(&res.Rooms, d.Rooms, "rooms")
	setInt(&res.Occupants, d.Occupants, "occupants")
	setStr(&res.RoomType, d.RoomType, "room_type")
	setStr(&res.MealPlan, d.MealPlan, "meal_plan")
	if res.TotalAmount == nil && d.TotalAmount != nil {
		v := *d.TotalAmount
		res.TotalAmount = &v
		changed = append(changed, "total_amount")
		setStr(&res.Currency, d.Currency, "currency")
	}

	// derive nights from the stay window when nothing recorded one
	if res.Nights == nil && res.CheckIn != nil && res.CheckOut != nil {
		n := int(res.CheckOut.Sub(*res.CheckIn).Hours() / 24)
		if n > 0 {
			res.Nights = &n
			changed = append(changed, "nights")
		}
	}
	return changed
}
