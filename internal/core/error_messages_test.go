package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{"nil", nil, "", ""},
		{
			"booking not found through wrapping",
			fmt.Errorf("confirm booking 5: %w", ErrBookingNotFound),
			"ENT001", "Booking not found",
		},
		{"client not found", ErrClientNotFound, "ENT001", "Client not found"},
		{
			"duplicate client",
			fmt.Errorf("create client %q: %w", "C1", ErrDuplicateClient),
			"ENT002", "A client with this customer code already exists",
		},
		{
			"missing customer code",
			fmt.Errorf("%w: customer code is required", ErrValidation),
			"ENT003", "Customer code is required",
		},
		{
			"bad field type",
			fmt.Errorf("%w: no must be an integer", ErrValidation),
			"ENT004", "The request contains invalid values",
		},
		{
			"unsupported file",
			fmt.Errorf("%w: %q", ErrUnsupportedFile, "clients.txt"),
			"FILE006", "Invalid file type",
		},
		{"empty file", ErrEmptyFile, "FILE005", "The uploaded file is empty"},
		{
			"decode failure",
			fmt.Errorf("%w: zip: not a valid zip file", ErrDecode),
			"FILE002", "The file could not be read",
		},
		{
			"ingest error wins over database text",
			&IngestError{Entity: EntityBookings, FileName: "b.csv", Err: errors.New("ERROR: duplicate key value violates unique constraint")},
			"UPL006", "The upload could not be saved and no rows were stored",
		},
		{"busy", ErrTooManyUploads, "UPL002", "System is busy processing other uploads"},
		{"body too large", errors.New("http: request body too large"), "FILE001", "File exceeds the maximum upload size"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB004", "Unable to connect to database"},
		{"deadline", context.DeadlineExceeded, "UPL005", "Request timed out"},
		{"case insensitive", errors.New("DUPLICATE KEY value"), "DB001", "A record with this key already exists"},
		{"unknown", errors.New("something odd"), "ERR000", "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q", got)
	}
	got := FormatUserError(ErrEmptyFile)
	if !strings.Contains(got, "(Code: FILE005)") {
		t.Errorf("FormatUserError = %q, want code", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrClientNotFound) {
		t.Error("not found should be user facing")
	}
	if IsUserFacing(errors.New("segfault in the flux capacitor")) {
		t.Error("unknown error should not be user facing")
	}
}

func TestIngestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("upload: %w", &IngestError{Entity: EntityClients, FileName: "c.csv", Err: cause})

	var ie *IngestError
	if !errors.As(err, &ie) {
		t.Fatal("errors.As did not find IngestError")
	}
	if ie.Entity != EntityClients {
		t.Errorf("Entity = %q", ie.Entity)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
}
