// Package coretest provides an in-memory core.Store for tests.
package coretest

import (
	"context"
	"slices"
	"sync"

	"github.com/JonMunkholm/freightdesk/internal/core"
)

// MemStore is a transactional in-memory core.Store. WithTx works on a copy
// of the data and publishes it only when the callback succeeds, so tests
// can observe rollback exactly as with PostgreSQL.
type MemStore struct {
	// FailBooking, when set, is consulted for every booking inserted in a
	// transaction; a non-nil error aborts the insert.
	FailBooking func(index int, b core.Booking) error

	// PingErr is returned by Ping.
	PingErr error

	mu    sync.Mutex
	state memState
}

type memState struct {
	bookings      []core.Booking
	clients       []core.Client
	uploads       []core.UploadRecord
	nextBookingID int64
	nextClientID  int64
}

func (s memState) clone() memState {
	s.bookings = slices.Clone(s.bookings)
	s.clients = slices.Clone(s.clients)
	s.uploads = slices.Clone(s.uploads)
	return s
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{state: memState{nextBookingID: 1, nextClientID: 1}}
}

var _ core.Store = (*MemStore)(nil)

func (s *MemStore) WithTx(ctx context.Context, fn func(tx core.TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(&memTx{store: s, state: &draft}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = draft
	return nil
}

func (s *MemStore) ListBookings(ctx context.Context) ([]core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.bookings), nil
}

func (s *MemStore) GetBooking(ctx context.Context, id int64) (core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.bookingIndex(id); i >= 0 {
		return s.state.bookings[i], nil
	}
	return core.Booking{}, core.ErrBookingNotFound
}

func (s *MemStore) ConfirmBooking(ctx context.Context, id int64) (core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.bookingIndex(id)
	if i < 0 {
		return core.Booking{}, core.ErrBookingNotFound
	}
	s.state.bookings[i].Status = core.BookingConfirmed
	return s.state.bookings[i], nil
}

func (s *MemStore) ListClients(ctx context.Context) ([]core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.clients), nil
}

func (s *MemStore) GetClient(ctx context.Context, id int64) (core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.clientIndex(id); i >= 0 {
		return s.state.clients[i], nil
	}
	return core.Client{}, core.ErrClientNotFound
}

func (s *MemStore) GetClientByCode(ctx context.Context, code string) (core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.state.clients {
		if c.CustomerCode == code {
			return c, nil
		}
	}
	return core.Client{}, core.ErrClientNotFound
}

func (s *MemStore) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.hasCode(c.CustomerCode, 0) {
		return core.Client{}, core.ErrDuplicateClient
	}
	return s.state.addClient(c), nil
}

func (s *MemStore) UpdateClient(ctx context.Context, c core.Client) (core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.clientIndex(c.ClientID)
	if i < 0 {
		return core.Client{}, core.ErrClientNotFound
	}
	if s.state.hasCode(c.CustomerCode, c.ClientID) {
		return core.Client{}, core.ErrDuplicateClient
	}
	s.state.clients[i] = c
	return c, nil
}

func (s *MemStore) DeleteClient(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.clientIndex(id)
	if i < 0 {
		return core.ErrClientNotFound
	}
	s.state.clients = slices.Delete(s.state.clients, i, i+1)
	return nil
}

// ListUploads returns uploads newest first.
func (s *MemStore) ListUploads(ctx context.Context, limit int) ([]core.UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.state.uploads)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) Ping(ctx context.Context) error {
	return s.PingErr
}

func (s *MemStore) bookingIndex(id int64) int {
	return slices.IndexFunc(s.state.bookings, func(b core.Booking) bool { return b.BookingID == id })
}

func (s *MemStore) clientIndex(id int64) int {
	return slices.IndexFunc(s.state.clients, func(c core.Client) bool { return c.ClientID == id })
}

// hasCode reports whether a client other than exceptID uses code.
func (st *memState) hasCode(code string, exceptID int64) bool {
	for _, c := range st.clients {
		if c.CustomerCode == code && c.ClientID != exceptID {
			return true
		}
	}
	return false
}

func (st *memState) addClient(c core.Client) core.Client {
	c.ClientID = st.nextClientID
	st.nextClientID++
	st.clients = append(st.clients, c)
	return c
}

// memTx writes to a draft state owned by WithTx.
type memTx struct {
	store *MemStore
	state *memState
}

func (tx *memTx) InsertBookings(ctx context.Context, bookings []core.Booking) (int64, error) {
	for i, b := range bookings {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if tx.store.FailBooking != nil {
			if err := tx.store.FailBooking(i, b); err != nil {
				return 0, err
			}
		}
		b.BookingID = tx.state.nextBookingID
		tx.state.nextBookingID++
		if b.Status == "" {
			b.Status = core.BookingPending
		}
		tx.state.bookings = append(tx.state.bookings, b)
	}
	return int64(len(bookings)), nil
}

func (tx *memTx) ExistingCustomerCodes(ctx context.Context, codes []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, code := range codes {
		if tx.state.hasCode(code, 0) {
			existing[code] = true
		}
	}
	return existing, nil
}

// InsertClients skips codes already present, like ON CONFLICT DO NOTHING.
func (tx *memTx) InsertClients(ctx context.Context, clients []core.Client) (int64, error) {
	var n int64
	for _, c := range clients {
		if tx.state.hasCode(c.CustomerCode, 0) {
			continue
		}
		tx.state.addClient(c)
		n++
	}
	return n, nil
}

func (tx *memTx) InsertUpload(ctx context.Context, rec core.UploadRecord) error {
	tx.state.uploads = append(tx.state.uploads, rec)
	return nil
}
