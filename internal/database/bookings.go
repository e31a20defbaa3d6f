package database

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/freightdesk/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// bookingColumns are the COPY target columns, in bookingValues order.
var bookingColumns = slices.Concat([]string{"upload_id", "status"}, core.BookingFields)

// bookingSelect is the column list read back by every booking query,
// in bookingTargets order.
var bookingSelect = "booking_id, " + quoteColumns(bookingColumns)

func quoteColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

func (s *Store) ListBookings(ctx context.Context) ([]core.Booking, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+bookingSelect+" FROM bookings ORDER BY booking_id")
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []core.Booking
	for rows.Next() {
		var b core.Booking
		if err := rows.Scan(bookingTargets(&b)...); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (core.Booking, error) {
	var b core.Booking
	err := s.pool.QueryRow(ctx,
		"SELECT "+bookingSelect+" FROM bookings WHERE booking_id = $1", id,
	).Scan(bookingTargets(&b)...)
	if err != nil {
		return core.Booking{}, notFound(err, core.ErrBookingNotFound)
	}
	return b, nil
}

// ConfirmBooking marks the booking confirmed and returns the updated row.
// Confirming an already confirmed booking succeeds without change.
func (s *Store) ConfirmBooking(ctx context.Context, id int64) (core.Booking, error) {
	var b core.Booking
	err := s.pool.QueryRow(ctx,
		"UPDATE bookings SET status = $2 WHERE booking_id = $1 RETURNING "+bookingSelect,
		id, string(core.BookingConfirmed),
	).Scan(bookingTargets(&b)...)
	if err != nil {
		return core.Booking{}, notFound(err, core.ErrBookingNotFound)
	}
	return b, nil
}

// InsertBookings streams the batch with COPY. A single bad row fails the
// whole statement and, with it, the enclosing transaction.
func (t *txStore) InsertBookings(ctx context.Context, bookings []core.Booking) (int64, error) {
	if len(bookings) == 0 {
		return 0, nil
	}
	n, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"bookings"},
		bookingColumns,
		pgx.CopyFromSlice(len(bookings), func(i int) ([]any, error) {
			return bookingValues(bookings[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy bookings: %w", err)
	}
	return n, nil
}

func bookingValues(b core.Booking) []any {
	status := b.Status
	if status == "" {
		status = core.BookingPending
	}
	return []any{
		pgUUID(b.UploadID), string(status),
		b.No, b.PlMod, b.Modd, b.Shipper, b.CustomerCode, b.BookingNo, b.BookingStatus,
		b.BLNo, b.BLStatus, b.DocLink, b.CntNo, numeric(b.UnitM3), b.NOC, b.Line,
		b.OpenDate, b.CutDate, b.ETD, b.ETA, b.Vessel, b.Voyage, b.POL, b.POD,
		numeric(b.PBaseBOF), numeric(b.PBOF), numeric(b.PCRS), numeric(b.PCDD),
		numeric(b.PTHC), numeric(b.PSeal), numeric(b.PDocStar), numeric(b.PDoc),
		numeric(b.POthers), numeric(b.PTaxableTotal), numeric(b.PVAT),
		numeric(b.PExVATTotal), numeric(b.PPayTotal),
		b.SInvDate, b.SInvNo, b.SLink, b.Days, b.PayDate,
		numeric(b.USDEx), numeric(b.EUREx),
		numeric(b.RBaseBOF), numeric(b.RBOF), numeric(b.RCRS), numeric(b.RCDD),
		numeric(b.RTHC), numeric(b.RSeal), numeric(b.RDoc), numeric(b.ROthers),
		numeric(b.RTaxableTotal), numeric(b.RVAT), numeric(b.RExVATTotal),
		numeric(b.RAdjustments), numeric(b.RecTotal),
		b.CInvDate, b.CInvNo, b.CLink, b.RecDate, numeric(b.Profit),
	}
}

func bookingTargets(b *core.Booking) []any {
	return []any{
		&b.BookingID, uuidScanner{&b.UploadID}, (*string)(&b.Status),
		&b.No, &b.PlMod, &b.Modd, &b.Shipper, &b.CustomerCode, &b.BookingNo, &b.BookingStatus,
		&b.BLNo, &b.BLStatus, &b.DocLink, &b.CntNo, decimalScanner{&b.UnitM3}, &b.NOC, &b.Line,
		&b.OpenDate, &b.CutDate, &b.ETD, &b.ETA, &b.Vessel, &b.Voyage, &b.POL, &b.POD,
		decimalScanner{&b.PBaseBOF}, decimalScanner{&b.PBOF}, decimalScanner{&b.PCRS}, decimalScanner{&b.PCDD},
		decimalScanner{&b.PTHC}, decimalScanner{&b.PSeal}, decimalScanner{&b.PDocStar}, decimalScanner{&b.PDoc},
		decimalScanner{&b.POthers}, decimalScanner{&b.PTaxableTotal}, decimalScanner{&b.PVAT},
		decimalScanner{&b.PExVATTotal}, decimalScanner{&b.PPayTotal},
		&b.SInvDate, &b.SInvNo, &b.SLink, &b.Days, &b.PayDate,
		decimalScanner{&b.USDEx}, decimalScanner{&b.EUREx},
		decimalScanner{&b.RBaseBOF}, decimalScanner{&b.RBOF}, decimalScanner{&b.RCRS}, decimalScanner{&b.RCDD},
		decimalScanner{&b.RTHC}, decimalScanner{&b.RSeal}, decimalScanner{&b.RDoc}, decimalScanner{&b.ROthers},
		decimalScanner{&b.RTaxableTotal}, decimalScanner{&b.RVAT}, decimalScanner{&b.RExVATTotal},
		decimalScanner{&b.RAdjustments}, decimalScanner{&b.RecTotal},
		&b.CInvDate, &b.CInvNo, &b.CLink, &b.RecDate, decimalScanner{&b.Profit},
	}
}

// numeric converts a nullable decimal to the pgx NUMERIC representation.
func numeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
}

// decimalScanner reads a NUMERIC column into a decimal.NullDecimal.
// NaN and infinities have no decimal form and scan as null.
type decimalScanner struct {
	dst *decimal.NullDecimal
}

func (s decimalScanner) ScanNumeric(n pgtype.Numeric) error {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		*s.dst = decimal.NullDecimal{}
		return nil
	}
	if n.Int == nil {
		*s.dst = decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
		return nil
	}
	*s.dst = decimal.NullDecimal{Decimal: decimal.NewFromBigInt(n.Int, n.Exp), Valid: true}
	return nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

// uuidScanner reads a nullable UUID column; null scans as uuid.Nil.
type uuidScanner struct {
	dst *uuid.UUID
}

func (s uuidScanner) ScanUUID(v pgtype.UUID) error {
	if !v.Valid {
		*s.dst = uuid.Nil
		return nil
	}
	*s.dst = uuid.UUID(v.Bytes)
	return nil
}
