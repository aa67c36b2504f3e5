package protocol

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vnda/vnda-cli/internal/domain"
)

var (
	ErrFraming          = errors.New("protocol: frame is not terminated by EOT")
	ErrUnknownCommand   = errors.New("protocol: unknown command")
	ErrMalformedPayload = errors.New("protocol: malformed payload")
	ErrInvalidRequest   = errors.New("protocol: request rejected before send")
	ErrUnexpectedReply  = errors.New("protocol: unexpected reply")
)

// ErrorID names a server error class.
type ErrorID string

const (
	ErrorParse     ErrorID = "parse"
	ErrorMissing   ErrorID = "missing"
	ErrorBadArg    ErrorID = "badarg"
	ErrorNeedLogin ErrorID = "needlogin"
	ErrorThrottled ErrorID = "throttled"
	ErrorAuth      ErrorID = "auth"
	ErrorLoggedIn  ErrorID = "loggedin"
	ErrorSessLimit ErrorID = "sesslimit"
	ErrorGetType   ErrorID = "gettype"
	ErrorGetInfo   ErrorID = "getinfo"
	ErrorFilter    ErrorID = "filter"
)

func KnownErrorIDs() []ErrorID {
	return []ErrorID{
		ErrorParse, ErrorMissing, ErrorBadArg, ErrorNeedLogin, ErrorThrottled, ErrorAuth,
		ErrorLoggedIn, ErrorSessLimit, ErrorGetType, ErrorGetInfo, ErrorFilter,
	}
}

func (id ErrorID) Known() bool {
	for _, known := range KnownErrorIDs() {
		if id == known {
			return true
		}
	}
	return false
}

// ProtocolError is a server "error" reply.
type ProtocolError struct {
	ID       ErrorID
	Msg      string
	Field    string
	Op       string
	Value    any
	Flag     string
	Type     string
	MinWait  float64
	FullWait float64
	// Fields holds the complete decoded reply, id included.
	Fields map[string]any
}

func (e *ProtocolError) Error() string {
	id := string(e.ID)
	if id == "" {
		id = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "vndb %s error", id)
	if e.Msg != "" {
		fmt.Fprintf(&b, ": %s", e.Msg)
	}
	switch e.ID {
	case ErrorMissing, ErrorBadArg:
		if e.Field != "" {
			fmt.Fprintf(&b, " (field %s)", e.Field)
		}
	case ErrorFilter:
		if e.Field != "" {
			fmt.Fprintf(&b, " (%s %s %v)", e.Field, e.Op, e.Value)
		}
	case ErrorGetInfo:
		if e.Flag != "" {
			fmt.Fprintf(&b, " (flag %s)", e.Flag)
		}
	case ErrorThrottled:
		fmt.Fprintf(&b, " (%s, wait %g-%gs)", e.Type, e.MinWait, e.FullWait)
	}

	return b.String()
}

// Unwrap exposes the category sentinel so callers can use errors.Is.
func (e *ProtocolError) Unwrap() error {
	switch e.ID {
	case ErrorNeedLogin:
		return domain.ErrNeedLogin
	case ErrorThrottled:
		return domain.ErrThrottled
	default:
		return domain.ErrServer
	}
}

// Wait is the full server-mandated backoff for a throttled reply.
func (e *ProtocolError) Wait() time.Duration {
	if e.FullWait <= 0 {
		return 0
	}
	return time.Duration(e.FullWait * float64(time.Second))
}

func newProtocolError(fields map[string]any) *ProtocolError {
	e := &ProtocolError{Fields: fields}
	e.ID = ErrorID(stringField(fields, "id"))
	e.Msg = stringField(fields, "msg")
	e.Field = stringField(fields, "field")
	e.Op = stringField(fields, "op")
	e.Value = fields["value"]
	e.Flag = stringField(fields, "flag")
	e.Type = stringField(fields, "type")
	e.MinWait = numberField(fields, "minwait")
	e.FullWait = numberField(fields, "fullwait")
	return e
}

func stringField(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}

func numberField(fields map[string]any, key string) float64 {
	value, _ := fields[key].(float64)
	return value
}
