package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vnda/vnda-cli/internal/domain"
)

const (
	CommandOK      = "ok"
	CommandError   = "error"
	CommandLogin   = "login"
	CommandGet     = "get"
	CommandResults = "results"
)

// Build assembles one frame: command, a single space, args, EOT.
func Build(command string, args string) []byte {
	frame := make([]byte, 0, len(command)+len(args)+2)
	frame = append(frame, command...)
	frame = append(frame, ' ')
	frame = append(frame, args...)
	return append(frame, EOT)
}

func BuildLogin(login Login) ([]byte, error) {
	payload, err := json.Marshal(login)
	if err != nil {
		return nil, fmt.Errorf("encode login payload: %w", err)
	}

	return Build(CommandLogin, string(payload)), nil
}

func BuildGet(req domain.GetRequest) []byte {
	return Build(CommandGet, GetArgs(req))
}

// GetArgs renders "<type> <flags> (<filter>)".
func GetArgs(req domain.GetRequest) string {
	return fmt.Sprintf("%s %s (%s)", req.Type, req.Flags, FilterExpr(req.Filter))
}

func FilterExpr(filter domain.Filter) string {
	if filter.Direct() {
		return "id = " + strconv.FormatInt(filter.ID, 10)
	}

	// json.Marshal of a string cannot fail; it yields a quoted, escaped literal.
	quoted, _ := json.Marshal(filter.Text)
	return "search ~ " + string(quoted)
}

// Parse classifies one frame. The leading token must equal a command
// keyword exactly; no prefix matching is done.
func Parse(data []byte) (Message, error) {
	if len(data) == 0 || data[len(data)-1] != EOT {
		return nil, ErrFraming
	}

	command, payload := splitCommand(data[:len(data)-1])
	switch command {
	case CommandOK:
		return OK{}, nil
	case CommandError:
		return parseError(payload)
	case CommandLogin:
		return parseLogin(payload)
	case CommandGet:
		return parseGet(payload)
	case CommandResults:
		return parseResults(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, truncate(command, 32))
	}
}

func splitCommand(body []byte) (string, []byte) {
	idx := bytes.IndexAny(body, " \t\r\n")
	if idx < 0 {
		return string(body), nil
	}

	return string(body[:idx]), bytes.TrimSpace(body[idx+1:])
}

func parseError(payload []byte) (Message, error) {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: error reply: %v", ErrMalformedPayload, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: error reply is not an object", ErrMalformedPayload)
	}

	return Error{Err: newProtocolError(fields)}, nil
}

func parseLogin(payload []byte) (Message, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(payload, &keys); err != nil {
		return nil, fmt.Errorf("%w: login request: %v", ErrMalformedPayload, err)
	}
	if keys == nil {
		return nil, fmt.Errorf("%w: login request is not an object", ErrMalformedPayload)
	}

	return LoginEcho{Payload: keys}, nil
}

func parseGet(payload []byte) (Message, error) {
	text := string(payload)
	parts := strings.SplitN(text, " ", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: get wants <type> <flags> (<filter>)", ErrMalformedPayload)
	}

	t, err := domain.ParseEntityType(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	rest := strings.TrimSpace(parts[2])
	closeIdx := strings.LastIndex(rest, ")")
	if !strings.HasPrefix(rest, "(") || closeIdx < 0 {
		return nil, fmt.Errorf("%w: get filter must be parenthesised", ErrMalformedPayload)
	}

	return Get{
		Type:    t,
		Flags:   domain.ParseFlags(parts[1]),
		Filter:  strings.TrimSpace(rest[1:closeIdx]),
		Options: strings.TrimSpace(rest[closeIdx+1:]),
	}, nil
}

func parseResults(payload []byte) (Message, error) {
	var results Results
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("%w: results reply: %v", ErrMalformedPayload, err)
	}
	if results.Items == nil {
		results.Items = []map[string]any{}
	}

	return results, nil
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
