package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/ports"
)

// vnFlags are the only flags the server accepts for vn lookups.
var vnFlags = domain.NewFlags("basic", "details", "anime", "relations")

// Outcome is what a dispatched message means for the caller.
type Outcome struct {
	Kind Kind
	// Ready is set for outgoing login/get frames that passed validation.
	Ready   bool
	Results domain.Results
}

// Dispatcher interprets parsed messages and routes server errors by id.
type Dispatcher struct {
	clock  ports.Clock
	logger zerolog.Logger
}

func NewDispatcher(clock ports.Clock, logger zerolog.Logger) *Dispatcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Dispatcher{
		clock:  clock,
		logger: logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch returns a nil error for ok, results, and validated requests.
// Error replies come back as *ProtocolError; a throttled reply returns only
// after the full server wait has elapsed.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (Outcome, error) {
	switch m := msg.(type) {
	case OK:
		return Outcome{Kind: KindOK}, nil
	case LoginEcho:
		return Outcome{Kind: KindLogin, Ready: LoginReady(m)}, nil
	case Get:
		return Outcome{Kind: KindGet, Ready: GetReady(m)}, nil
	case Results:
		return Outcome{Kind: KindResults, Results: d.results(m)}, nil
	case Error:
		return Outcome{Kind: KindError}, d.handleError(ctx, m.Err)
	default:
		return Outcome{}, fmt.Errorf("%w: %T", ErrUnexpectedReply, msg)
	}
}

// LoginReady reports whether a login payload carries exactly the expected
// credential keys.
func LoginReady(m LoginEcho) bool {
	if len(m.Payload) != len(loginKeys) {
		return false
	}
	for _, key := range loginKeys {
		if _, ok := m.Payload[key]; !ok {
			return false
		}
	}
	return true
}

func GetReady(m Get) bool {
	if !m.Type.Valid() || len(m.Flags) == 0 || m.Filter == "" {
		return false
	}
	if m.Type == domain.EntityVN && !vnFlags.Covers(m.Flags) {
		return false
	}
	return true
}

func (d *Dispatcher) results(m Results) domain.Results {
	if m.Num == 0 {
		d.logger.Info().Msg("no items returned")
	}

	return domain.Results{Num: m.Num, More: m.More, Items: m.Items}
}

func (d *Dispatcher) handleError(ctx context.Context, perr *ProtocolError) error {
	if perr == nil {
		return fmt.Errorf("%w: empty error reply", ErrMalformedPayload)
	}

	switch perr.ID {
	case ErrorParse, ErrorAuth, ErrorLoggedIn, ErrorGetInfo:
		d.logger.Warn().Str("error_id", string(perr.ID)).Msg(perr.Msg)
		return perr
	case ErrorMissing, ErrorBadArg, ErrorFilter, ErrorSessLimit, ErrorGetType:
		d.logger.Debug().Str("error_id", string(perr.ID)).Str("field", perr.Field).Msg(perr.Msg)
		return perr
	case ErrorNeedLogin:
		d.logger.Debug().Msg("server requires login")
		return perr
	case ErrorThrottled:
		return d.throttle(ctx, perr)
	default:
		d.logger.Warn().Str("error_id", string(perr.ID)).Msg("unrecognised server error")
		return perr
	}
}

func (d *Dispatcher) throttle(ctx context.Context, perr *ProtocolError) error {
	wait := perr.Wait()
	d.logger.Warn().
		Str("type", perr.Type).
		Float64("minwait", perr.MinWait).
		Float64("fullwait", perr.FullWait).
		Msgf("throttled: %s", perr.Msg)

	if err := d.clock.Sleep(ctx, wait); err != nil {
		return fmt.Errorf("throttle wait interrupted: %w", errors.Join(perr, err))
	}

	return perr
}
