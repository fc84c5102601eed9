package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"bookparse/internal/app"
	"bookparse/internal/domain"
	"bookparse/internal/parse"
)

type Handlers struct {
	Q *app.QueryService
	R *app.ReservationService
	P *app.ParseService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

const maxUploadBytes = 20 << 20 // 20 MiB

func (s *Server) MountHandlers(h *Handlers, apiKey string) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(APIKey(apiKey))
		r.Post("/reservations", h.createReservation)
		r.Get("/reservations/{id}", h.getReservation)
		r.Post("/reservations/{id}/transition", h.transitionReservation)
		r.Get("/reservations/{id}/audit", h.listAudit)
		r.Post("/reservations/{id}/documents", h.uploadDocument)
		r.Post("/documents/{id}/parse", h.parseDocument)
		r.Post("/parse/batch", h.parseBatch)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ---- wire types ----

type reservationDTO struct {
	ID            int64    `json:"id"`
	Status        string   `json:"status"`
	GuestName     *string  `json:"guest_name,omitempty"`
	GuestPhone    *string  `json:"guest_phone,omitempty"`
	HotelName     *string  `json:"hotel_name,omitempty"`
	BookingNumber *string  `json:"booking_number,omitempty"`
	CheckIn       *string  `json:"check_in,omitempty"`
	CheckOut      *string  `json:"check_out,omitempty"`
	Nights        *int     `json:"nights,omitempty"`
	Rooms         *int     `json:"rooms,omitempty"`
	Occupants     *int     `json:"occupants,omitempty"`
	RoomType      *string  `json:"room_type,omitempty"`
	MealPlan      *string  `json:"meal_plan,omitempty"`
	TotalAmount   *float64 `json:"total_amount,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

func toDTO(r domain.Reservation) reservationDTO {
	d := reservationDTO{
		ID:            r.ID,
		Status:        string(r.Status),
		GuestName:     r.GuestName,
		GuestPhone:    r.GuestPhone,
		HotelName:     r.HotelName,
		BookingNumber: r.BookingNumber,
		Nights:        r.Nights,
		Rooms:         r.Rooms,
		Occupants:     r.Occupants,
		RoomType:      r.RoomType,
		MealPlan:      r.MealPlan,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
	}
	d.CheckIn = fmtDate(r.CheckIn)
	d.CheckOut = fmtDate(r.CheckOut)
	if !r.CreatedAt.IsZero() {
		d.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		d.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return d
}

func fmtDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

type createReservationReq struct {
	GuestName     *string  `json:"guest_name"`
	GuestPhone    *string  `json:"guest_phone"`
	HotelName     *string  `json:"hotel_name"`
	BookingNumber *string  `json:"booking_number"`
	CheckIn       *string  `json:"check_in"`
	CheckOut      *string  `json:"check_out"`
	Nights        *int     `json:"nights"`
	Rooms         *int     `json:"rooms"`
	Occupants     *int     `json:"occupants"`
	RoomType      *string  `json:"room_type"`
	MealPlan      *string  `json:"meal_plan"`
	TotalAmount   *float64 `json:"total_amount"`
	Currency      *string  `json:"currency"`
}

type outcomeDTO struct {
	Status   string          `json:"status"`
	Fields   *reservationDTO `json:"fields,omitempty"`
	Warnings []warningDTO    `json:"warnings,omitempty"`
	Failure  *failureDTO     `json:"failure,omitempty"`
	Trace    []string        `json:"trace"`
}

type warningDTO struct {
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
}

type failureDTO struct {
	Code    string `json:"code"`
	Step    string `json:"step"`
	Message string `json:"message"`
}

func toOutcomeDTO(out parse.Outcome) outcomeDTO {
	d := outcomeDTO{Status: string(out.Status)}
	if out.Data != nil {
		f := reservationDTO{
			GuestName:     out.Data.GuestName,
			GuestPhone:    out.Data.Phone,
			HotelName:     out.Data.HotelName,
			BookingNumber: out.Data.BookingNumber,
			CheckIn:       fmtDate(out.Data.CheckIn),
			CheckOut:      fmtDate(out.Data.CheckOut),
			Rooms:         out.Data.Rooms,
			Occupants:     out.Data.Occupants,
			RoomType:      out.Data.RoomType,
			MealPlan:      out.Data.MealPlan,
			TotalAmount:   out.Data.TotalAmount,
			Currency:      out.Data.Currency,
		}
		d.Fields = &f
	}
	for _, w := range out.Warnings {
		d.Warnings = append(d.Warnings, warningDTO{Rule: string(w.Rule), Message: w.Message, Blocking: w.Blocking})
	}
	if out.Failure != nil {
		d.Failure = &failureDTO{Code: string(out.Failure.Code), Step: string(out.Failure.Step), Message: out.Failure.Msg}
	}
	for _, s := range out.Trace {
		d.Trace = append(d.Trace, string(s))
	}
	return d
}

// ---- handlers ----

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON reservation")
		return
	}
	res := domain.Reservation{
		Status:        domain.StatusDraft,
		GuestName:     req.GuestName,
		GuestPhone:    req.GuestPhone,
		HotelName:     req.HotelName,
		BookingNumber: req.BookingNumber,
		Nights:        req.Nights,
		Rooms:         req.Rooms,
		Occupants:     req.Occupants,
		RoomType:      req.RoomType,
		MealPlan:      req.MealPlan,
		TotalAmount:   req.TotalAmount,
		Currency:      req.Currency,
	}
	for _, p := range []struct {
		in  *string
		out **time.Time
	}{{req.CheckIn, &res.CheckIn}, {req.CheckOut, &res.CheckOut}} {
		if p.in == nil {
			continue
		}
		t, err := time.Parse("2006-01-02", *p.in)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Date", "dates must be YYYY-MM-DD")
			return
		}
		*p.out = &t
	}

	id, err := h.R.Create(r.Context(), res)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Create Failed", err.Error())
		return
	}
	res.ID = id
	writeJSON(w, http.StatusCreated, toDTO(res))
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	res, err := h.Q.GetReservation(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "reservation not found")
		return
	}

	etag, body := calcETagAndBody(toDTO(res))
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write reservation body")
	}
}

func (h *Handlers) transitionReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", `body must be {"status": "..."}`)
		return
	}
	res, err := h.R.Transition(r.Context(), id, domain.Status(req.Status))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "reservation not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeProblem(w, http.StatusConflict, "Invalid Transition",
			"reservation cannot move to "+req.Status)
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "Transition Failed", err.Error())
	default:
		writeJSON(w, http.StatusOK, toDTO(res))
	}
}

func (h *Handlers) listAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	notes, err := h.Q.ListAudit(r.Context(), id, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Audit Failed", err.Error())
		return
	}
	type noteDTO struct {
		Note      string `json:"note"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]noteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteDTO{Note: n.Note, CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) uploadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "expected multipart form with a file field")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "missing file field")
		return
	}
	defer f.Close()

	doc, err := h.R.Upload(r.Context(), id, hdr.Filename, f)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "reservation not found")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Upload Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": doc.ID, "reservation_id": doc.ReservationID, "file_name": doc.FileName,
		"sha1": doc.SHA1, "size_bytes": doc.SizeBytes, "parse_state": string(doc.ParseState),
	})
}

func (h *Handlers) parseDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	out, err := h.P.ParseDocument(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "document not found")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Parse Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toOutcomeDTO(out))
}

func (h *Handlers) parseBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentIDs []int64 `json:"document_ids"`
		Workers     int     `json:"workers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.DocumentIDs) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "document_ids must be a non-empty array")
		return
	}
	if len(req.DocumentIDs) > 100 {
		writeProblem(w, http.StatusBadRequest, "Too Many Documents", "at most 100 documents per batch")
		return
	}
	items := h.P.ParseBatch(r.Context(), req.DocumentIDs, req.Workers)
	type itemDTO struct {
		DocumentID int64  `json:"document_id"`
		Status     string `json:"status,omitempty"`
		Error      string `json:"error,omitempty"`
	}
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, itemDTO{DocumentID: it.DocumentID, Status: string(it.Status), Error: it.Err})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}
