// Package core holds the bookings and clients domain: spreadsheet decoding,
// column binding, cell normalization, record assembly and the Service that
// ties them to a Store.
//
// # Ingestion
//
// Both upload paths share one shape:
//
//	DecodeTable -> Binder -> NormalizeRow / ClientFromRow -> Assemble* -> Store.WithTx
//
// Bookings are bound by position ([PositionalBinder]) against [BookingSchema];
// header text is ignored. Clients are bound by normalized header name
// ([HeaderNameBinder]). The two strategies are intentionally separate:
// they disagree on malformed headers and callers depend on each.
//
// Cell normalization never fails. A date, integer or decimal cell that
// cannot be parsed becomes null, a blank text cell becomes "". Only
// batch-level problems abort an upload: an unsupported file type, a file
// that cannot be decoded, or a storage failure during the write, which
// rolls back the whole batch and is reported as [*IngestError].
//
// # Clients
//
// The customer code is the natural key. Uploads skip rows without one,
// repeats within the sheet and codes already stored, so re-uploading a
// sheet is idempotent and never overwrites stored clients.
//
// # Confirmation
//
// [Service.ConfirmBooking] moves a booking to CONFIRMED and, after the
// update is stored, hands a notice for the owning client to a [Dispatcher].
// Delivery happens on a background goroutine and never affects the result.
//
// # Error Handling
//
// Error kinds are sentinels tested with errors.Is: [ErrNotFound],
// [ErrConflict], [ErrValidation], [ErrUnsupportedFile], [ErrEmptyFile],
// [ErrDecode] and [ErrTooManyUploads]. [MapError] turns any error into a
// [UserMessage] with a support code.
package core
