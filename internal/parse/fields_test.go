package parse_test

import (
	"testing"
	"time"

	"bookparse/internal/parse"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMapFields_StayDates(t *testing.T) {
	text := "Check-in: 2026-01-27\nCheck-out: 2026-01-30\n"
	d := parse.MapFields(text)
	if d.CheckIn == nil || !d.CheckIn.Equal(date("2026-01-27")) {
		t.Fatalf("check-in: %v", d.CheckIn)
	}
	if d.CheckOut == nil || !d.CheckOut.Equal(date("2026-01-30")) {
		t.Fatalf("check-out: %v", d.CheckOut)
	}
	fs := parse.ValidateFields(d, nil, date("2026-09-01"))
	for _, f := range fs {
		if f.Blocking {
			t.Fatalf("unexpected blocking finding: %+v", f)
		}
	}
}

func TestMapFields_DateShapes(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Arrival date: 27/01/2026", "2026-01-27"}, // day-first, never month-first
		{"Check-in 5/3/2026", "2026-03-05"},
		{"Check-in: 12/25/2025", "2025-12-25"}, // M/D only when D/M is impossible
		{"Arrival: 27 Jan 2026", "2026-01-27"},
		{"Check-in: January 27, 2026", "2026-01-27"},
		{"Fecha de entrada: 27-01-2026", "2026-01-27"},
	}
	for _, c := range cases {
		d := parse.MapFields(c.text)
		if d.CheckIn == nil {
			t.Errorf("%q: no check-in", c.text)
			continue
		}
		if got := d.CheckIn.Format("2006-01-02"); got != c.want {
			t.Errorf("%q: got %s, want %s", c.text, got, c.want)
		}
	}
}

func TestMapFields_DateIgnoresNextLine(t *testing.T) {
	// the label's window must stop at the line break
	d := parse.MapFields("Check-in\nsomething else 2026-01-27")
	if d.CheckIn != nil {
		t.Fatalf("expected no check-in, got %v", d.CheckIn)
	}
}

func TestMapFields_GuestNameBoundary(t *testing.T) {
	d := parse.MapFields("Guest: John Smith Total guests: 2")
	if d.GuestName == nil || *d.GuestName != "John Smith" {
		t.Fatalf("guest name: %v", strOrNil(d.GuestName))
	}
	if d.Occupants == nil || *d.Occupants != 2 {
		t.Fatalf("occupants: %v", d.Occupants)
	}
}

func TestMapFields_GuestNameRecursivePrefix(t *testing.T) {
	// generic label hits a fragment carrying a second, more specific label
	d := parse.MapFields("Guest  Name: Sara Connor\n")
	if d.GuestName == nil || *d.GuestName != "Sara Connor" {
		t.Fatalf("guest name: %v", strOrNil(d.GuestName))
	}
}

func TestMapFields_GuestNameRejectsNumeric(t *testing.T) {
	d := parse.MapFields("Guest name: 12345\n")
	if d.GuestName != nil {
		t.Fatalf("expected no guest name, got %q", *d.GuestName)
	}
}

func TestMapFields_BookingNumber(t *testing.T) {
	d := parse.MapFields("Booking number: bk-20331\n")
	if d.BookingNumber == nil || *d.BookingNumber != "BK-20331" {
		t.Fatalf("booking number: %v", strOrNil(d.BookingNumber))
	}
}

func TestMapFields_BookingNumberFusedOCR(t *testing.T) {
	d := parse.MapFields("Confirmation code: XY12GUEST\n")
	if d.BookingNumber == nil || *d.BookingNumber != "XY12" {
		t.Fatalf("booking number: %v", strOrNil(d.BookingNumber))
	}
}

func TestMapFields_BookingNumberStaysOnLine(t *testing.T) {
	// a document title must not claim a token from the following line
	d := parse.MapFields("Your Booking Confirmation\nJohn Smith\n")
	if d.BookingNumber != nil {
		t.Fatalf("expected no booking number, got %q", *d.BookingNumber)
	}
}

func TestMapFields_Phone(t *testing.T) {
	d := parse.MapFields("Phone: +20 (100) 123-4567\n")
	if d.Phone == nil || *d.Phone != "+201001234567" {
		t.Fatalf("phone: %v", strOrNil(d.Phone))
	}
}

func TestMapFields_PhoneTooShort(t *testing.T) {
	d := parse.MapFields("Phone: 12345\n")
	if d.Phone != nil {
		t.Fatalf("expected no phone, got %q", *d.Phone)
	}
}

func TestMapFields_RoomsNightDisambiguation(t *testing.T) {
	d := parse.MapFields("2 nights, 1 room\n")
	if d.Rooms == nil || *d.Rooms != 1 {
		t.Fatalf("rooms: %v", d.Rooms)
	}
}

func TestMapFields_RoomsKeywordFirst(t *testing.T) {
	d := parse.MapFields("Rooms: 3\n")
	if d.Rooms == nil || *d.Rooms != 3 {
		t.Fatalf("rooms: %v", d.Rooms)
	}
}

func TestMapFields_NightsAloneAreNotRooms(t *testing.T) {
	d := parse.MapFields("Stay: 2 nights\n")
	if d.Rooms != nil {
		t.Fatalf("expected no room count, got %d", *d.Rooms)
	}
}

func TestMapFields_RoomTypeAndMealPlan(t *testing.T) {
	d := parse.MapFields("Room type: Deluxe Double\nMeal plan: Bed & Breakfast\n")
	if d.RoomType == nil || *d.RoomType != "Deluxe Double" {
		t.Fatalf("room type: %v", strOrNil(d.RoomType))
	}
	if d.MealPlan == nil || *d.MealPlan != "Bed & Breakfast" {
		t.Fatalf("meal plan: %v", strOrNil(d.MealPlan))
	}
}

func TestMapFields_HotelNameIsNotGuest(t *testing.T) {
	// the only name-like anchor belongs to the property, not a guest
	d := parse.MapFields("Hotel name: Nile Palace Resort\n")
	if d.GuestName != nil {
		t.Fatalf("expected no guest name, got %q", *d.GuestName)
	}

	// a later, genuine name line still wins
	d = parse.MapFields("Hotel name: Nile Palace Resort\nName: John Smith\n")
	if d.GuestName == nil || *d.GuestName != "John Smith" {
		t.Fatalf("guest name: %v", strOrNil(d.GuestName))
	}
	if d.HotelName == nil || *d.HotelName != "Nile Palace Resort" {
		t.Fatalf("hotel name: %v", strOrNil(d.HotelName))
	}
}

func TestMapFields_HotelName(t *testing.T) {
	d := parse.MapFields("Hotel name: Nile Palace Resort\n")
	if d.HotelName == nil || *d.HotelName != "Nile Palace Resort" {
		t.Fatalf("hotel name: %v", strOrNil(d.HotelName))
	}
}

func strOrNil(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
