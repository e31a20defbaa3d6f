package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/freightdesk/internal/logging"
	"github.com/JonMunkholm/freightdesk/internal/metrics"
	"github.com/google/uuid"
)

// DefaultUploadTimeout bounds one upload from decode to commit.
const DefaultUploadTimeout = 2 * time.Minute

// DefaultUploadHistoryLimit is the number of uploads ListUploads returns
// when no limit is given.
const DefaultUploadHistoryLimit = 100

// ServiceOptions tunes a Service. Zero values select the defaults.
type ServiceOptions struct {
	MaxConcurrentUploads int
	MaxUploadWait        time.Duration
	UploadTimeout        time.Duration
	Workers              int
	NotifyTimeout        time.Duration
}

// Service implements the bookings and clients operations on top of a Store.
type Service struct {
	store         Store
	limiter       *UploadLimiter
	dispatcher    *Dispatcher
	uploadTimeout time.Duration
	workers       int
	now           func() time.Time
}

// NewService creates a Service. A nil notifier disables confirmation notices.
func NewService(store Store, notifier Notifier, opts ServiceOptions) *Service {
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Service{
		store:         store,
		limiter:       NewUploadLimiter(opts.MaxConcurrentUploads, opts.MaxUploadWait),
		dispatcher:    NewDispatcher(notifier, opts.NotifyTimeout),
		uploadTimeout: opts.UploadTimeout,
		workers:       opts.Workers,
		now:           time.Now,
	}
}

// UploadStatus reports upload slot occupancy.
func (s *Service) UploadStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Shutdown waits for in-flight uploads and pending notifications.
func (s *Service) Shutdown(ctx context.Context) error {
	return errors.Join(s.limiter.WaitForDrain(ctx), s.dispatcher.Wait(ctx))
}

// ---------------------------------------------------------------------------
// Uploads
// ---------------------------------------------------------------------------

// UploadBookings ingests a bookings sheet. Every data row becomes a booking;
// cells that fail to parse become null. The batch is written in one
// transaction, so any storage failure leaves nothing behind and is
// returned as *IngestError.
func (s *Service) UploadBookings(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	return s.runUpload(ctx, EntityBookings, fileName, func(ctx context.Context, rec *UploadRecord) error {
		table, err := DecodeTable(fileName, data)
		if err != nil {
			return err
		}

		bookings, err := AssembleBookings(ctx, table, s.workers)
		if err != nil {
			return err
		}
		for i := range bookings {
			bookings[i].UploadID = rec.UploadID
		}

		return s.commit(ctx, rec, func(tx TxStore) error {
			n, err := tx.InsertBookings(ctx, bookings)
			if err != nil {
				return fmt.Errorf("insert bookings: %w", err)
			}
			rec.RowsInserted = int(n)
			return nil
		})
	})
}

// UploadClients ingests a clients sheet (.csv or .xlsx). Rows without a
// customer code, repeats of a code earlier in the sheet and codes already
// stored are skipped; stored clients are never overwritten.
func (s *Service) UploadClients(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".xlsx":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, fileName)
	}

	return s.runUpload(ctx, EntityClients, fileName, func(ctx context.Context, rec *UploadRecord) error {
		table, err := DecodeTable(fileName, data)
		if err != nil {
			return err
		}
		batch := AssembleClients(table)

		return s.commit(ctx, rec, func(tx TxStore) error {
			existing, err := tx.ExistingCustomerCodes(ctx, batch.Codes())
			if err != nil {
				return fmt.Errorf("check existing codes: %w", err)
			}
			fresh, dropped := batch.Without(existing)

			n, err := tx.InsertClients(ctx, fresh)
			if err != nil {
				return fmt.Errorf("insert clients: %w", err)
			}
			rec.RowsInserted = int(n)
			rec.RowsSkipped = batch.Skipped() + dropped + len(fresh) - int(n)
			return nil
		})
	})
}

// commit runs write and records rec in the same transaction. Failures are
// wrapped in IngestError.
func (s *Service) commit(ctx context.Context, rec *UploadRecord, write func(tx TxStore) error) error {
	start := rec.UploadedAt
	err := s.store.WithTx(ctx, func(tx TxStore) error {
		if err := write(tx); err != nil {
			return err
		}
		rec.DurationMs = s.now().Sub(start).Milliseconds()
		return tx.InsertUpload(ctx, *rec)
	})
	if err != nil {
		return &IngestError{Entity: rec.Entity, FileName: rec.FileName, Err: err}
	}
	return nil
}

// runUpload wraps one upload with a limiter slot, a timeout, logging and
// metrics.
func (s *Service) runUpload(ctx context.Context, entity Entity, fileName string, fn func(context.Context, *UploadRecord) error) (*UploadResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	start := s.now()
	rec := &UploadRecord{
		UploadID:   uuid.New(),
		Entity:     entity,
		FileName:   fileName,
		SourceIP:   ClientIPFromContext(ctx),
		UploadedAt: start,
	}

	log := logging.WithFields(ctx, "upload_id", rec.UploadID, "entity", entity, "file", fileName)
	log.Info("upload started")

	err := fn(ctx, rec)
	elapsed := s.now().Sub(start)
	metrics.UploadDuration.WithLabelValues(string(entity)).Observe(elapsed.Seconds())

	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(entity), metrics.OutcomeFailure).Inc()
		log.Error("upload failed", "error", err, "duration", elapsed)
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues(string(entity), metrics.OutcomeSuccess).Inc()
	metrics.UploadRows.WithLabelValues(string(entity), "inserted").Add(float64(rec.RowsInserted))
	metrics.UploadRows.WithLabelValues(string(entity), "skipped").Add(float64(rec.RowsSkipped))
	log.Info("upload complete",
		"inserted", rec.RowsInserted,
		"skipped", rec.RowsSkipped,
		"duration", elapsed,
	)

	return &UploadResult{
		UploadID: rec.UploadID,
		Entity:   entity,
		FileName: fileName,
		Inserted: rec.RowsInserted,
		Skipped:  rec.RowsSkipped,
		Duration: elapsed,
	}, nil
}

// ListUploads returns the most recent committed uploads, newest first.
func (s *Service) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = DefaultUploadHistoryLimit
	}
	return s.store.ListUploads(ctx, limit)
}

// ---------------------------------------------------------------------------
// Bookings
// ---------------------------------------------------------------------------

func (s *Service) ListBookings(ctx context.Context) ([]Booking, error) {
	return s.store.ListBookings(ctx)
}

func (s *Service) GetBooking(ctx context.Context, id int64) (Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// ConfirmBooking marks a booking CONFIRMED. Confirming twice is harmless.
//
// Once the status change is stored, the client owning the booking's
// customer code is notified by email if it has one. The notice is sent in
// the background and its outcome never affects the result.
func (s *Service) ConfirmBooking(ctx context.Context, id int64) (Booking, error) {
	b, err := s.store.ConfirmBooking(ctx, id)
	if err != nil {
		return Booking{}, fmt.Errorf("confirm booking %d: %w", id, err)
	}

	logging.FromContext(ctx).Info("booking confirmed", "booking_id", id, "booking_no", b.BookingNo)
	s.notifyConfirmed(ctx, b)
	return b, nil
}

func (s *Service) notifyConfirmed(ctx context.Context, b Booking) {
	if b.CustomerCode == "" {
		return
	}
	c, err := s.store.GetClientByCode(ctx, b.CustomerCode)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.FromContext(ctx).Warn("client lookup for confirmation notice failed",
				"customer_code", b.CustomerCode, "error", err)
		}
		return
	}
	if !c.Email.Valid || strings.TrimSpace(c.Email.String) == "" {
		return
	}
	s.dispatcher.Dispatch(ctx, ConfirmationNotice(b, c))
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.store.ListClients(ctx)
}

func (s *Service) GetClient(ctx context.Context, id int64) (Client, error) {
	return s.store.GetClient(ctx, id)
}

// CreateClient stores a client built from a loosely typed payload.
func (s *Service) CreateClient(ctx context.Context, fields map[string]any) (Client, error) {
	c, err := NewClient(fields)
	if err != nil {
		return Client{}, err
	}
	created, err := s.store.CreateClient(ctx, c)
	if err != nil {
		return Client{}, fmt.Errorf("create client %q: %w", c.CustomerCode, err)
	}
	return created, nil
}

// UpdateClient overwrites the fields present in patch.
func (s *Service) UpdateClient(ctx context.Context, id int64, patch map[string]any) (Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if err := c.ApplyPatch(patch); err != nil {
		return Client{}, err
	}
	c.ClientID = id

	updated, err := s.store.UpdateClient(ctx, c)
	if err != nil {
		return Client{}, fmt.Errorf("update client %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	return s.store.DeleteClient(ctx, id)
}
