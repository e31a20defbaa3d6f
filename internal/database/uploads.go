package database

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/freightdesk/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

func (t *txStore) InsertUpload(ctx context.Context, rec core.UploadRecord) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO uploads (upload_id, entity, file_name, rows_inserted, rows_skipped, duration_ms, source_ip, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pgUUID(rec.UploadID), string(rec.Entity), rec.FileName,
		rec.RowsInserted, rec.RowsSkipped, rec.DurationMs,
		pgtype.Text{String: rec.SourceIP, Valid: rec.SourceIP != ""},
		rec.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

// ListUploads returns the most recent uploads first.
func (s *Store) ListUploads(ctx context.Context, limit int) ([]core.UploadRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT upload_id, entity, file_name, rows_inserted, rows_skipped, duration_ms, source_ip, uploaded_at
		FROM uploads
		ORDER BY uploaded_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []core.UploadRecord
	for rows.Next() {
		var (
			rec      core.UploadRecord
			entity   string
			sourceIP pgtype.Text
		)
		err := rows.Scan(
			uuidScanner{&rec.UploadID}, &entity, &rec.FileName,
			&rec.RowsInserted, &rec.RowsSkipped, &rec.DurationMs,
			&sourceIP, &rec.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		rec.Entity = core.Entity(entity)
		rec.SourceIP = sourceIP.String
		uploads = append(uploads, rec)
	}
	return uploads, rows.Err()
}
