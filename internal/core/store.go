package core

import "context"

// Store is the persistence boundary of the service.
//
// Lookups of absent rows return an error wrapping ErrNotFound. Writes that
// collide with an existing customer code return an error wrapping
// ErrConflict.
type Store interface {
	// WithTx runs fn in one transaction, committing only when fn returns
	// nil. Any error, panic or cancellation rolls back everything fn wrote.
	WithTx(ctx context.Context, fn func(tx TxStore) error) error

	ListBookings(ctx context.Context) ([]Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	// ConfirmBooking sets the status to CONFIRMED and returns the row.
	ConfirmBooking(ctx context.Context, id int64) (Booking, error)

	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id int64) (Client, error)
	GetClientByCode(ctx context.Context, code string) (Client, error)
	CreateClient(ctx context.Context, c Client) (Client, error)
	UpdateClient(ctx context.Context, c Client) (Client, error)
	DeleteClient(ctx context.Context, id int64) error

	ListUploads(ctx context.Context, limit int) ([]UploadRecord, error)

	Ping(ctx context.Context) error
}

// TxStore is the write side available inside Store.WithTx.
type TxStore interface {
	// InsertBookings writes every booking and returns the count written.
	InsertBookings(ctx context.Context, bookings []Booking) (int64, error)

	// ExistingCustomerCodes returns the subset of codes already stored.
	ExistingCustomerCodes(ctx context.Context, codes []string) (map[string]bool, error)

	// InsertClients writes clients, silently skipping any whose code is
	// already stored, and returns the count written.
	InsertClients(ctx context.Context, clients []Client) (int64, error)

	InsertUpload(ctx context.Context, rec UploadRecord) error
}
