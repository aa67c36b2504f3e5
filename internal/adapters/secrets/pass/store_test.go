package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutInsertsSingleLine(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "--echo", "--force", "vnda/kana"}, args)
			assert.Equal(t, "p@ss word\n", input)
			return "", "", nil
		},
	}

	require.NoError(t, store.Put(context.Background(), "vnda/kana", "p@ss word"))
	assert.True(t, called)
	assert.Equal(t, "pass", store.Scheme())
}

func TestStorePutRejectsMultilineValues(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			t.Fatal("pass must not run")
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), "vnda/kana", "line1\nline2")
	require.Error(t, err)
	assert.ErrorContains(t, err, "single line")
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "vnda/kana"}, args)
			assert.Empty(t, input)
			return "top-secret\r\nurl: https://vndb.org\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "vnda/kana")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreDeleteUsesForceRemove(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "--force", "vnda/kana"}, args)
			return "", "", nil
		},
	}

	require.NoError(t, store.Delete(context.Background(), "vnda/kana"))
}

func TestStoreErrorsCarryStderr(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "Error: vnda/kana is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "vnda/kana")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "vnda/kana")
	assert.ErrorContains(t, err, "not in the password store")
}

func TestStoreUnavailable(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "", ErrUnavailable
		},
	}

	err := store.Put(context.Background(), "vnda/kana", "secret")
	require.ErrorIs(t, err, ErrUnavailable)
}
