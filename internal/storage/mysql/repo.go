package mysql

import (
	"context"
	"database/sql"
	"time"

	"bookparse/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format("2006-01-02")
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateReservation(ctx context.Context, rv domain.Reservation) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertReservationSQL,
		string(rv.Status),
		valStr(rv.GuestName),
		valStr(rv.GuestPhone),
		valStr(rv.HotelName),
		valStr(rv.BookingNumber),
		valTime(rv.CheckIn),
		valTime(rv.CheckOut),
		valInt(rv.Nights),
		valInt(rv.Rooms),
		valInt(rv.Occupants),
		valStr(rv.RoomType),
		valStr(rv.MealPlan),
		valF64(rv.TotalAmount),
		valStr(rv.Currency),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateReservation(ctx context.Context, rv domain.Reservation) error {
	res, err := r.db.ExecContext(ctx, updateReservationSQL,
		valStr(rv.GuestName),
		valStr(rv.GuestPhone),
		valStr(rv.HotelName),
		valStr(rv.BookingNumber),
		valTime(rv.CheckIn),
		valTime(rv.CheckOut),
		valInt(rv.Nights),
		valInt(rv.Rooms),
		valInt(rv.Occupants),
		valStr(rv.RoomType),
		valStr(rv.MealPlan),
		valF64(rv.TotalAmount),
		valStr(rv.Currency),
		rv.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// rows_affected is 0 both for a missing row and a no-op update,
		// so confirm existence before reporting not found
		if _, gerr := r.GetReservation(ctx, rv.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *Repo) SetStatus(ctx context.Context, id int64, st domain.Status) error {
	_, err := r.db.ExecContext(ctx, setStatusSQL, string(st), id)
	return err
}

func (r *Repo) AddDocument(ctx context.Context, d domain.Document) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertDocumentSQL,
		d.ReservationID, d.FileName, d.StoragePath, d.SHA1, d.SizeBytes, string(d.ParseState),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) SetParseState(ctx context.Context, docID int64, st domain.ParseState) error {
	_, err := r.db.ExecContext(ctx, setParseStateSQL, string(st), docID)
	return err
}

func (r *Repo) AppendAudit(ctx context.Context, reservationID int64, note string) error {
	_, err := r.db.ExecContext(ctx, insertAuditSQL, reservationID, note)
	return err
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, getReservationSQL, id)

	var rv domain.Reservation
	var status string
	var guestName, guestPhone, hotelName, bookingNumber sql.NullString
	var checkIn, checkOut sql.NullTime
	var nights, rooms, occupants sql.NullInt64
	var roomType, mealPlan sql.NullString
	var amount sql.NullFloat64
	var currency sql.NullString

	if err := row.Scan(
		&rv.ID, &status,
		&guestName, &guestPhone, &hotelName, &bookingNumber,
		&checkIn, &checkOut,
		&nights, &rooms, &occupants,
		&roomType, &mealPlan,
		&amount, &currency,
		&rv.CreatedAt, &rv.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}

	rv.Status = domain.Status(status)
	rv.GuestName = nullStr(guestName)
	rv.GuestPhone = nullStr(guestPhone)
	rv.HotelName = nullStr(hotelName)
	rv.BookingNumber = nullStr(bookingNumber)
	rv.CheckIn = nullTime(checkIn)
	rv.CheckOut = nullTime(checkOut)
	rv.Nights = nullInt(nights)
	rv.Rooms = nullInt(rooms)
	rv.Occupants = nullInt(occupants)
	rv.RoomType = nullStr(roomType)
	rv.MealPlan = nullStr(mealPlan)
	if amount.Valid {
		f := amount.Float64
		rv.TotalAmount = &f
	}
	rv.Currency = nullStr(currency)
	return rv, nil
}

func (r *Repo) GetDocument(ctx context.Context, id int64) (domain.Document, error) {
	row := r.db.QueryRowContext(ctx, getDocumentSQL, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return domain.Document{}, domain.ErrNotFound
	}
	return d, err
}

func (r *Repo) ListPendingDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, listPendingSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) ListAudit(ctx context.Context, reservationID int64, limit int) ([]domain.AuditNote, error) {
	rows, err := r.db.QueryContext(ctx, listAuditSQL, reservationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditNote
	for rows.Next() {
		var n domain.AuditNote
		if err := rows.Scan(&n.ID, &n.ReservationID, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dst ...any) error
}

func scanDocument(s scanner) (domain.Document, error) {
	var d domain.Document
	var state string
	if err := s.Scan(
		&d.ID, &d.ReservationID, &d.FileName, &d.StoragePath, &d.SHA1, &d.SizeBytes,
		&state, &d.UploadedAt,
	); err != nil {
		return domain.Document{}, err
	}
	d.ParseState = domain.ParseState(state)
	return d, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
