package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Client is a customer record keyed by its unique customer code.
// Optional text fields are null when the source never supplied them.
type Client struct {
	ClientID     int64       `json:"client_id"`
	No           pgtype.Int8 `json:"no"`
	Name         pgtype.Text `json:"name"`
	CustomerCode string      `json:"customer_code"`
	Address      pgtype.Text `json:"address"`
	Tel          pgtype.Text `json:"tel"`
	Fax          pgtype.Text `json:"fax"`
	Email        pgtype.Text `json:"email"`
}

// clientFields are the keys a client payload may set, in the order they
// are applied.
var clientFields = []string{"no", "name", "customer_code", "address", "tel", "fax", "email"}

// ClientFromRow builds a Client from a header-bound sheet row.
// It reports false when the row has no customer code.
func ClientFromRow(row BoundRow) (Client, bool) {
	code := strings.TrimSpace(row["customer_code"])
	if code == "" {
		return Client{}, false
	}

	c := Client{
		CustomerCode: code,
		Name:         rowText(row, "name"),
		Address:      rowText(row, "address"),
		Tel:          rowText(row, "tel"),
		Fax:          rowText(row, "fax"),
		Email:        rowText(row, "email"),
	}
	if v := strings.TrimSpace(row["no"]); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.No = pgtype.Int8{Int64: n, Valid: true}
		}
	}
	return c, true
}

func rowText(row BoundRow, key string) pgtype.Text {
	v, ok := row[key]
	if !ok {
		return pgtype.Text{}
	}
	return pgtype.Text{String: v, Valid: true}
}

// NewClient builds a Client from a loosely typed payload such as a decoded
// JSON object. A missing or blank customer_code is a validation error.
func NewClient(fields map[string]any) (Client, error) {
	var c Client
	if err := c.ApplyPatch(fields); err != nil {
		return Client{}, err
	}
	return c, nil
}

// ApplyPatch overwrites every known field present in patch. Unknown keys,
// including client_id, are ignored. A null value clears an optional field.
func (c *Client) ApplyPatch(patch map[string]any) error {
	next := *c
	for _, key := range clientFields {
		v, ok := patch[key]
		if !ok {
			continue
		}

		var err error
		switch key {
		case "no":
			next.No, err = patchInt(key, v)
		case "customer_code":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: %s must be a string", ErrValidation, key)
			}
			next.CustomerCode = strings.TrimSpace(s)
		case "name":
			next.Name, err = patchText(key, v)
		case "address":
			next.Address, err = patchText(key, v)
		case "tel":
			next.Tel, err = patchText(key, v)
		case "fax":
			next.Fax, err = patchText(key, v)
		case "email":
			next.Email, err = patchText(key, v)
		}
		if err != nil {
			return err
		}
	}

	if next.CustomerCode == "" {
		return fmt.Errorf("%w: customer code is required", ErrValidation)
	}
	*c = next
	return nil
}

func patchText(key string, v any) (pgtype.Text, error) {
	switch t := v.(type) {
	case nil:
		return pgtype.Text{}, nil
	case string:
		return pgtype.Text{String: t, Valid: true}, nil
	default:
		return pgtype.Text{}, fmt.Errorf("%w: %s must be a string", ErrValidation, key)
	}
}

func patchInt(key string, v any) (pgtype.Int8, error) {
	bad := fmt.Errorf("%w: %s must be an integer", ErrValidation, key)

	switch t := v.(type) {
	case nil:
		return pgtype.Int8{}, nil
	case int:
		return pgtype.Int8{Int64: int64(t), Valid: true}, nil
	case int64:
		return pgtype.Int8{Int64: t, Valid: true}, nil
	case float64:
		if t != math.Trunc(t) || t < math.MinInt64 || t >= math.MaxInt64 {
			return pgtype.Int8{}, bad
		}
		return pgtype.Int8{Int64: int64(t), Valid: true}, nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return pgtype.Int8{}, bad
		}
		return pgtype.Int8{Int64: n, Valid: true}, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return pgtype.Int8{}, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return pgtype.Int8{}, bad
		}
		return pgtype.Int8{Int64: n, Valid: true}, nil
	default:
		return pgtype.Int8{}, bad
	}
}
