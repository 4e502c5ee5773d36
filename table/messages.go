package table

// messages.go maps conversion errors to user-facing messages with codes
// for support reference.
//
// Typed errors from this package are classified first; anything else
// falls through to case-insensitive pattern matching, first match wins.
//
//	ENC001 - Row could not be encoded
//	DEC001 - Row has the wrong number of cells
//	DEC002 - Cell value does not fit its field type
//	DEC003 - Header names an unknown column, or a field has no column
//	DEC004 - Any other decode failure
//	UTF001 - Table text is not valid UTF-8
//	SCH001 - Unknown schema
//	REQ001 - Request body too large
//	REQ002 - Multipart upload without a file field
//	REQ003 - Request body could not be read
//	REQ004 - Server busy with other conversions
//	UPL004 - Request cancelled
//	UPL005 - Request timed out
//	ERR000 - Fallback; check the logs for the technical error

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/jszwec/csvutil"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgRowEncoding = UserMessage{
		Message: "A row could not be encoded",
		Action:  "Check the row for unsupported content",
		Code:    "ENC001",
	}
	msgFieldCount = UserMessage{
		Message: "A row has the wrong number of cells",
		Action:  "Make every row match the header; quote cells that contain spaces",
		Code:    "DEC001",
	}
	msgFieldType = UserMessage{
		Message: "A cell value does not match its field type",
		Action:  "Fix the value shown in the error, e.g. use digits for numbers",
		Code:    "DEC002",
	}
	msgColumns = UserMessage{
		Message: "The header does not match the record fields",
		Action:  "Use the column names listed by the schema template",
		Code:    "DEC003",
	}
	msgDecode = UserMessage{
		Message: "The table could not be decoded",
		Action:  "Check the table layout and values",
		Code:    "DEC004",
	}
	msgUtf8 = UserMessage{
		Message: "The table contains invalid characters",
		Action:  "Save the table as UTF-8",
		Code:    "UTF001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched with strings.Contains against the lowercased
// error text after typed classification fails. Order matters.
var errorPatterns = []errorPattern{
	{
		pattern: "unknown schema",
		msg: UserMessage{
			Message: "Unknown schema",
			Action:  "List the available schemas and pick one of them",
			Code:    "SCH001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The table exceeds the maximum size",
			Action:  "Split the table into smaller pieces",
			Code:    "REQ001",
		},
	},
	{
		pattern: "missing file field",
		msg: UserMessage{
			Message: "No file was uploaded",
			Action:  "Attach the table as the \"file\" form field",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request body could not be read",
			Action:  "Send a text table, a JSON grid or a file upload",
			Code:    "REQ003",
		},
	},
	{
		pattern: "too many concurrent conversions",
		msg: UserMessage{
			Message: "The server is busy converting other tables",
			Action:  "Please wait a moment and try again",
			Code:    "REQ004",
		},
	},
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
			Action:  "Try a smaller table or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "encoding error",
		msg:     msgUtf8,
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		encErr     *RowEncodingError
		utfErr     *Utf8Error
		decErr     *DecodeError
		typeErr    *csvutil.UnmarshalTypeError
		missingErr *csvutil.MissingColumnsError
		unknownErr *UnknownColumnsError
	)

	switch {
	case errors.As(err, &encErr):
		return msgRowEncoding
	case errors.As(err, &utfErr):
		return msgUtf8
	case errors.As(err, &decErr):
		switch {
		case errors.Is(err, csv.ErrFieldCount), errors.Is(err, csvutil.ErrFieldCount):
			return msgFieldCount
		case errors.As(err, &missingErr), errors.As(err, &unknownErr):
			return msgColumns
		case errors.As(err, &typeErr), isConvertError(decErr.Err):
			return msgFieldType
		}
		return msgDecode
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// isConvertError reports whether err came from one of the lenient
// converters in convert.go.
func isConvertError(err error) bool {
	s := err.Error()
	return strings.Contains(s, "invalid date") ||
		strings.Contains(s, "invalid number") ||
		strings.Contains(s, "invalid bool") ||
		strings.Contains(s, "invalid uuid")
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
