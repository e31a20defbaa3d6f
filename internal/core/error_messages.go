package core

// error_messages.go maps technical errors to user-facing messages with a
// support code. Codes are grouped by category:
//
//	ENT001-ENT099   records (not found, conflicts, invalid payloads)
//	FILE001-FILE099 uploaded files (type, size, encoding, content)
//	DB001-DB099     database constraint and connectivity failures
//	UPL001-UPL099   upload lifecycle (busy, cancelled, timed out)
//	ERR000          fallback; check the server log for the original error
//
// Patterns are matched case-insensitively with strings.Contains against the
// full error chain text. The first match wins, so specific patterns come
// before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Upload failures come first: an IngestError may wrap a database error
	// whose text would otherwise match a DB pattern.
	{
		pattern: "rolled back",
		msg: UserMessage{
			Message: "The upload could not be saved and no rows were stored",
			Action:  "Check the file for values the database rejects and upload it again",
			Code:    "UPL006",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},

	// Files
	{
		pattern: "invalid file type",
		msg: UserMessage{
			Message: "Invalid file type",
			Action:  "Upload a .csv or .xlsx file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "error reading file",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check that the file is a valid CSV or Excel workbook",
			Code:    "FILE002",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row",
			Code:    "FILE005",
		},
	},

	// Records
	{
		pattern: "booking not found",
		msg: UserMessage{
			Message: "Booking not found",
			Action:  "Verify the booking id",
			Code:    "ENT001",
		},
	},
	{
		pattern: "client not found",
		msg: UserMessage{
			Message: "Client not found",
			Action:  "Verify the client id",
			Code:    "ENT001",
		},
	},
	{
		pattern: "customer code is required",
		msg: UserMessage{
			Message: "Customer code is required",
			Action:  "Provide a non-empty customer_code",
			Code:    "ENT003",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "The request contains invalid values",
			Action:  "Check field types and try again",
			Code:    "ENT004",
		},
	},
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "A client with this customer code already exists",
			Action:  "Use a different customer code or update the existing client",
			Code:    "ENT002",
		},
	},
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "Verify the id",
			Code:    "ENT001",
		},
	},

	// Database
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Check for duplicate entries",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates",
		msg: UserMessage{
			Message: "A value was rejected by a database constraint",
			Action:  "Review the submitted values",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Request lifecycle
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. The
// fallback for unmatched errors carries code ERR000.
//
//	msg := MapError(fmt.Errorf("client %w", ErrNotFound))
//	// msg.Code == "ENT001", msg.Message == "Client not found"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
