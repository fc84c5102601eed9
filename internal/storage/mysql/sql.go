package mysql

const insertReservationSQL = `
INSERT INTO reservations
  (status, guest_name, guest_phone, hotel_name, booking_number,
   check_in, check_out, nights, rooms, occupants, room_type, meal_plan,
   total_amount, currency)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Field enrichment only ever fills blanks, so COALESCE keeps whatever the row
// already has when the new value is NULL.
const updateReservationSQL = `
UPDATE reservations SET
  guest_name     = COALESCE(?, guest_name),
  guest_phone    = COALESCE(?, guest_phone),
  hotel_name     = COALESCE(?, hotel_name),
  booking_number = COALESCE(?, booking_number),
  check_in       = COALESCE(?, check_in),
  check_out      = COALESCE(?, check_out),
  nights         = COALESCE(?, nights),
  rooms          = COALESCE(?, rooms),
  occupants      = COALESCE(?, occupants),
  room_type      = COALESCE(?, room_type),
  meal_plan      = COALESCE(?, meal_plan),
  total_amount   = COALESCE(?, total_amount),
  currency       = COALESCE(?, currency),
  updated_at     = CURRENT_TIMESTAMP
WHERE id = ?
`

const setStatusSQL = `
UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

const insertDocumentSQL = `
INSERT INTO reservation_documents
  (reservation_id, file_name, storage_path, sha1, size_bytes, parse_state)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const setParseStateSQL = `
UPDATE reservation_documents SET parse_state = ? WHERE id = ?
`

const insertAuditSQL = `
INSERT INTO parse_audit (reservation_id, note) VALUES (?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getReservationSQL = `
SELECT
  id, status, guest_name, guest_phone, hotel_name, booking_number,
  check_in, check_out, nights, rooms, occupants, room_type, meal_plan,
  total_amount, currency, created_at, updated_at
FROM reservations
WHERE id = ?
`

const getDocumentSQL = `
SELECT
  id, reservation_id, file_name, storage_path, sha1, size_bytes,
  parse_state, uploaded_at
FROM reservation_documents
WHERE id = ?
`

const listPendingSQL = `
SELECT
  id, reservation_id, file_name, storage_path, sha1, size_bytes,
  parse_state, uploaded_at
FROM reservation_documents
WHERE parse_state = 'pending'
ORDER BY uploaded_at, id
LIMIT ?
`

const listAuditSQL = `
SELECT id, reservation_id, note, created_at
FROM parse_audit
WHERE reservation_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`
