package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		flags    Flags
		fallback EntityType
		want     Query
		wantErr  error
	}{
		{
			name:     "vn id adds details",
			raw:      "v17",
			flags:    NewFlags("basic"),
			fallback: EntityVN,
			want:     Query{Type: EntityVN, Flags: Flags{"basic", "details"}, Filter: Filter{ID: 17}},
		},
		{
			name:     "release prefix overrides fallback",
			raw:      "r3",
			flags:    NewFlags("basic"),
			fallback: EntityVN,
			want:     Query{Type: EntityRelease, Flags: Flags{"basic", "details"}, Filter: Filter{ID: 3}},
		},
		{
			name:     "producer prefix",
			raw:      " p9 ",
			flags:    NewFlags("basic", "details"),
			fallback: EntityVN,
			want:     Query{Type: EntityProducer, Flags: Flags{"basic", "details"}, Filter: Filter{ID: 9}},
		},
		{
			name:     "free text uses fallback type",
			raw:      "ever 17",
			flags:    NewFlags("basic"),
			fallback: EntityRelease,
			want:     Query{Type: EntityRelease, Flags: Flags{"basic"}, Filter: Filter{Text: "ever 17"}},
		},
		{
			name:     "prefix without digits is free text",
			raw:      "vx1",
			fallback: EntityVN,
			want:     Query{Type: EntityVN, Flags: Flags{"basic"}, Filter: Filter{Text: "vx1"}},
		},
		{
			name:     "zero id is free text",
			raw:      "v0",
			fallback: EntityVN,
			want:     Query{Type: EntityVN, Flags: Flags{"basic"}, Filter: Filter{Text: "v0"}},
		},
		{name: "empty", raw: "   ", fallback: EntityVN, wantErr: ErrInvalidQuery},
		{name: "bad fallback", raw: "clannad", fallback: EntityType("character"), wantErr: ErrUnknownEntityType},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseQuery(tc.raw, tc.flags, tc.fallback)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.Filter.ID > 0, got.Direct())
		})
	}
}

func TestParseEntityType(t *testing.T) {
	t.Parallel()

	got, err := ParseEntityType(" Release ")
	require.NoError(t, err)
	assert.Equal(t, EntityRelease, got)

	_, err = ParseEntityType("staff")
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}
