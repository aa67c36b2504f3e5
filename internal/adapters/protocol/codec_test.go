package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnda/vnda-cli/internal/domain"
)

func TestBuildAppendsSpaceAndEOT(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte("get vn basic (id = 17)\x04"), Build("get", "vn basic (id = 17)"))
	assert.Equal(t, []byte("ok \x04"), Build("ok", ""))
}

func TestParseBuildClassifiesEveryCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		args    string
		want    Kind
	}{
		{command: CommandOK, args: "", want: KindOK},
		{command: CommandError, args: `{"id":"parse","msg":"Invalid command or argument"}`, want: KindError},
		{command: CommandLogin, args: `{"protocol":1,"client":"vnda","clientver":"0.1","username":"u","password":"p"}`, want: KindLogin},
		{command: CommandGet, args: `vn basic (id = 17)`, want: KindGet},
		{command: CommandResults, args: `{"num":1,"more":false,"items":[{"id":17}]}`, want: KindResults},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.command, func(t *testing.T) {
			t.Parallel()
			msg, err := Parse(Build(tc.command, tc.args))
			require.NoError(t, err)
			assert.Equal(t, tc.want, msg.Kind())
		})
	}
}

func TestParseRequiresEOT(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"ok",
		"ok ",
		`results {"num":0,"more":false,"items":[]}`,
		"error {}\x04 ",
		"\x04ok",
	} {
		_, err := Parse([]byte(raw))
		assert.ErrorIs(t, err, ErrFraming, "input %q", raw)
	}
}

func TestParseMatchesWholeTokenOnly(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"okay\x04", "errors {}\x04", "getvn basic (id = 1)\x04", "resultsx {}\x04", "\x04"} {
		_, err := Parse([]byte(raw))
		assert.ErrorIs(t, err, ErrUnknownCommand, "input %q", raw)
	}
}

func TestParseServerOKWithoutSpace(t *testing.T) {
	t.Parallel()

	msg, err := Parse([]byte("ok\x04"))
	require.NoError(t, err)
	assert.Equal(t, OK{}, msg)
}

func TestParseErrorReplyAcceptsNewlineSeparator(t *testing.T) {
	t.Parallel()

	msg, err := Parse([]byte("error {\n\t\"id\": \"parse\",\n\t\"msg\": \"Invalid command or argument\"\n\t}\x04"))
	require.NoError(t, err)

	reply, ok := msg.(Error)
	require.True(t, ok)
	assert.Equal(t, ErrorParse, reply.Err.ID)
	assert.Equal(t, "Invalid command or argument", reply.Err.Msg)
	assert.Equal(t, "vndb parse error: Invalid command or argument", reply.Err.Error())
}

func TestParseThrottledFields(t *testing.T) {
	t.Parallel()

	msg, err := Parse(Build(CommandError, `{"id":"throttled","msg":"slow down","type":"get","minwait":1,"fullwait":2.5}`))
	require.NoError(t, err)

	perr := msg.(Error).Err
	assert.Equal(t, ErrorThrottled, perr.ID)
	assert.Equal(t, "get", perr.Type)
	assert.Equal(t, 1.0, perr.MinWait)
	assert.Equal(t, 2.5, perr.FullWait)
	assert.Equal(t, "2.5s", perr.Wait().String())
	assert.ErrorIs(t, perr, domain.ErrThrottled)
}

func TestParseResults(t *testing.T) {
	t.Parallel()

	msg, err := Parse(Build(CommandResults, `{"num":0,"more":false}`))
	require.NoError(t, err)
	assert.Equal(t, Results{Num: 0, More: false, Items: []map[string]any{}}, msg)

	msg, err = Parse(Build(CommandResults, `{"num":1,"more":true,"items":[{"id":17,"title":"Ever17"}]}`))
	require.NoError(t, err)
	results := msg.(Results)
	assert.True(t, results.More)
	assert.Equal(t, "Ever17", results.Items[0]["title"])
}

func TestParseMalformedPayloads(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"error not-json\x04",
		"error []\x04",
		"results {\x04",
		"login null\x04",
		"get vn\x04",
		"get character basic (id = 1)\x04",
		"get vn basic id = 1\x04",
	} {
		_, err := Parse([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedPayload, "input %q", raw)
	}
}

func TestParseGetSplitsFilterAndOptions(t *testing.T) {
	t.Parallel()

	msg, err := Parse(Build(CommandGet, `release basic,details (search ~ "a (b)") {"page":2}`))
	require.NoError(t, err)

	assert.Equal(t, Get{
		Type:    domain.EntityRelease,
		Flags:   domain.Flags{"basic", "details"},
		Filter:  `search ~ "a (b)"`,
		Options: `{"page":2}`,
	}, msg)
}

func TestBuildGetFilters(t *testing.T) {
	t.Parallel()

	direct := BuildGet(domain.GetRequest{Type: domain.EntityVN, Flags: domain.NewFlags("basic", "details"), Filter: domain.Filter{ID: 17}})
	assert.Equal(t, "get vn basic,details (id = 17)\x04", string(direct))

	search := BuildGet(domain.GetRequest{Type: domain.EntityProducer, Flags: domain.NewFlags("basic"), Filter: domain.Filter{Text: `say "hi"`}})
	assert.Equal(t, "get producer basic (search ~ \"say \\\"hi\\\"\")\x04", string(search))
}

func TestBuildLoginRoundTripsThroughLoginGate(t *testing.T) {
	t.Parallel()

	frame, err := BuildLogin(Login{Protocol: 1, Client: "vnda", ClientVer: "0.1", Username: "user", Password: "pass"})
	require.NoError(t, err)

	msg, err := Parse(frame)
	require.NoError(t, err)
	echo, ok := msg.(LoginEcho)
	require.True(t, ok)
	assert.True(t, LoginReady(echo))
}
