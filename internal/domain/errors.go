package domain

import "errors"

var (
	ErrUnknownEntityType   = errors.New("unknown entity type")
	ErrInvalidQuery        = errors.New("invalid query")
	ErrInvalidRecord       = errors.New("invalid record")
	ErrRecordNotFound      = errors.New("record not found")
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// Remote error categories. Adapters wrap these so callers can branch on
// errors.Is without knowing the wire format.
var (
	ErrNeedLogin = errors.New("login required")
	ErrThrottled = errors.New("throttled by server")
	ErrServer    = errors.New("server error")
)
