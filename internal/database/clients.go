package database

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/freightdesk/internal/core"
	"github.com/jackc/pgx/v5"
)

const clientSelect = "client_id, no, name, customer_code, address, tel, fax, email"

func clientTargets(c *core.Client) []any {
	return []any{&c.ClientID, &c.No, &c.Name, &c.CustomerCode, &c.Address, &c.Tel, &c.Fax, &c.Email}
}

func scanClients(rows pgx.Rows) ([]core.Client, error) {
	defer rows.Close()
	var clients []core.Client
	for rows.Next() {
		var c core.Client
		if err := rows.Scan(clientTargets(&c)...); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+clientSelect+" FROM clients ORDER BY client_id")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return scanClients(rows)
}

func (s *Store) GetClient(ctx context.Context, id int64) (core.Client, error) {
	return getClient(ctx, s.pool, "client_id = $1", id)
}

func (s *Store) GetClientByCode(ctx context.Context, code string) (core.Client, error) {
	return getClient(ctx, s.pool, "customer_code = $1", code)
}

func getClient(ctx context.Context, q DBTX, where string, arg any) (core.Client, error) {
	var c core.Client
	err := q.QueryRow(ctx, "SELECT "+clientSelect+" FROM clients WHERE "+where, arg).Scan(clientTargets(&c)...)
	if err != nil {
		return core.Client{}, notFound(err, core.ErrClientNotFound)
	}
	return c, nil
}

func (s *Store) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	var out core.Client
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (no, name, customer_code, address, tel, fax, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+clientSelect,
		c.No, c.Name, c.CustomerCode, c.Address, c.Tel, c.Fax, c.Email,
	).Scan(clientTargets(&out)...)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Client{}, core.ErrDuplicateClient
		}
		return core.Client{}, err
	}
	return out, nil
}

func (s *Store) UpdateClient(ctx context.Context, c core.Client) (core.Client, error) {
	var out core.Client
	err := s.pool.QueryRow(ctx, `
		UPDATE clients
		SET no = $2, name = $3, customer_code = $4, address = $5, tel = $6, fax = $7, email = $8
		WHERE client_id = $1
		RETURNING `+clientSelect,
		c.ClientID, c.No, c.Name, c.CustomerCode, c.Address, c.Tel, c.Fax, c.Email,
	).Scan(clientTargets(&out)...)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Client{}, core.ErrDuplicateClient
		}
		return core.Client{}, notFound(err, core.ErrClientNotFound)
	}
	return out, nil
}

func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE client_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrClientNotFound
	}
	return nil
}

func (t *txStore) ExistingCustomerCodes(ctx context.Context, codes []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(codes) == 0 {
		return existing, nil
	}
	rows, err := t.tx.Query(ctx, "SELECT customer_code FROM clients WHERE customer_code = ANY($1)", codes)
	if err != nil {
		return nil, fmt.Errorf("existing customer codes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan customer code: %w", err)
		}
		existing[code] = true
	}
	return existing, rows.Err()
}

// InsertClients writes the batch in one round trip. Codes that already
// exist are skipped by the unique constraint rather than failing the batch.
func (t *txStore) InsertClients(ctx context.Context, clients []core.Client) (int64, error) {
	if len(clients) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, c := range clients {
		batch.Queue(`
			INSERT INTO clients (no, name, customer_code, address, tel, fax, email)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (customer_code) DO NOTHING`,
			c.No, c.Name, c.CustomerCode, c.Address, c.Tel, c.Fax, c.Email,
		)
	}

	results := t.tx.SendBatch(ctx, batch)
	var inserted int64
	for i := range clients {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("insert client %q: %w", clients[i].CustomerCode, err)
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("insert clients: %w", err)
	}
	return inserted, nil
}
