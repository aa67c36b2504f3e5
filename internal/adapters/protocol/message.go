package protocol

import (
	"encoding/json"

	"github.com/vnda/vnda-cli/internal/domain"
)

// EOT terminates every frame.
const EOT byte = 0x04

type Kind int

const (
	KindOK Kind = iota + 1
	KindError
	KindLogin
	KindGet
	KindResults
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindError:
		return "error"
	case KindLogin:
		return "login"
	case KindGet:
		return "get"
	case KindResults:
		return "results"
	default:
		return "unknown"
	}
}

// Message is a parsed frame. The concrete type is one of OK, Error,
// LoginEcho, Get or Results.
type Message interface {
	Kind() Kind
}

type OK struct{}

type Error struct {
	Err *ProtocolError
}

// LoginEcho is a login request read back through the codec; Payload holds
// the raw top-level keys.
type LoginEcho struct {
	Payload map[string]json.RawMessage
}

type Get struct {
	Type    domain.EntityType
	Flags   domain.Flags
	Filter  string
	Options string
}

type Results struct {
	Num   int              `json:"num"`
	More  bool             `json:"more"`
	Items []map[string]any `json:"items"`
}

func (OK) Kind() Kind        { return KindOK }
func (Error) Kind() Kind     { return KindError }
func (LoginEcho) Kind() Kind { return KindLogin }
func (Get) Kind() Kind       { return KindGet }
func (Results) Kind() Kind   { return KindResults }

// Login is the login command payload.
type Login struct {
	Protocol  int    `json:"protocol"`
	Client    string `json:"client"`
	ClientVer string `json:"clientver"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

var loginKeys = []string{"protocol", "client", "clientver", "username", "password"}
