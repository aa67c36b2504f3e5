package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnda/vnda-cli/internal/adapters/secrets/chain"
	filestore "github.com/vnda/vnda-cli/internal/adapters/secrets/file"
	"github.com/vnda/vnda-cli/internal/domain"
)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("credentials.path", path)

	repo, err := NewRepository(config, nil)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "credentials.toml"))
	want := domain.Credentials{Username: "kana", Password: "p@ss word"}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	replaced := domain.Credentials{Username: "other", Password: "x"}
	require.NoError(t, repo.Save(context.Background(), replaced))
	got, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, replaced, got)
}

func TestRepositoryDefaultPathUnderDataDir(t *testing.T) {
	t.Parallel()

	dataDir := filepath.Join(t.TempDir(), "data")
	config := viper.New()
	config.Set("data_dir", dataDir)

	repo, err := NewRepository(config, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "credentials.toml"), repo.Path())
}

func TestRepositorySaveCreatesDirectoryAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.Credentials{Username: "u", Password: "p"}))

	path := filepath.Join(homeDir, ".vnda", "credentials.toml")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestRepositoryLoadTightensLoosePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user]\nusername = \"u\"\npassword = \"p\"\n"), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	_, err := newTestRepository(t, path).Load(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingOrIncompleteCredentials(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := newTestRepository(t, filepath.Join(dir, "missing", "credentials.toml")).Load(context.Background())
	require.ErrorIs(t, err, domain.ErrCredentialsNotFound)

	partial := filepath.Join(dir, "partial.toml")
	require.NoError(t, os.WriteFile(partial, []byte("[user]\nusername = \"u\"\n"), 0o600))
	_, err = newTestRepository(t, partial).Load(context.Background())
	require.ErrorIs(t, err, domain.ErrCredentialsNotFound)
}

func TestRepositoryRejectsIncompleteSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	err := newTestRepository(t, path).Save(context.Background(), domain.Credentials{Username: "u"})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRepositoryMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user"), 0o600))

	_, err := newTestRepository(t, path).Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode credentials file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "credentials.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.Credentials{Username: "u", Password: "p"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesLeaveReadableFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	repoA := newTestRepository(t, path)
	repoB := newTestRepository(t, path)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	for _, repo := range []*Repository{repoA, repoB} {
		go func(repo *Repository) {
			defer wg.Done()
			<-start
			for i := 0; i < perRepoWrites; i++ {
				errCh <- repo.Save(context.Background(), domain.Credentials{Username: "user-" + strconv.Itoa(i), Password: "p"})
			}
		}(repo)
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	got, err := repoA.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Username, "user-"))
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, newTestRepository(t, path).Save(context.Background(), domain.Credentials{Username: "u", Password: "p"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "[user]")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 999",
		"",
		"[user]",
		`username = "u"`,
		`password = "p"`,
		"",
	}, "\n")), 0o600))

	_, err := newTestRepository(t, path).Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported credentials schema version")
}

func newVaultRepository(t *testing.T, path string, secretsRoot string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("credentials.path", path)
	config.Set("credentials.store", StoreVault)

	repo, err := NewRepository(config, chain.NewStore(filestore.NewStore(secretsRoot)))
	require.NoError(t, err)
	return repo
}

func TestRepositoryVaultKeepsPasswordOutOfFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.toml")
	repo := newVaultRepository(t, path, filepath.Join(dir, "secrets"))
	want := domain.Credentials{Username: "kana", Password: "p@ss word"}

	require.NoError(t, repo.Save(context.Background(), want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "p@ss word")
	assert.Contains(t, string(data), "password_ref")
	assert.Contains(t, string(data), "file:vnda/kana")

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	secret, err := os.ReadFile(filepath.Join(dir, "secrets", "vnda", "kana"))
	require.NoError(t, err)
	assert.Equal(t, "p@ss word", string(secret))
}

func TestRepositoryInlineModeStillResolvesReferences(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.toml")
	secrets := filestore.NewStore(filepath.Join(dir, "secrets"))
	require.NoError(t, secrets.Put(context.Background(), "vnda/kana", "from-vault"))
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n\n[user]\nusername = \"kana\"\npassword_ref = \"file:vnda/kana\"\n"), 0o600))

	config := viper.New()
	config.Set("credentials.path", path)
	repo, err := NewRepository(config, chain.NewStore(secrets))
	require.NoError(t, err)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-vault", got.Password)
}

func TestRepositoryReferenceWithoutVault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user]\nusername = \"kana\"\npassword_ref = \"pass:vnda/kana\"\n"), 0o600))

	_, err := newTestRepository(t, path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCredentialsNotFound)
	assert.ErrorContains(t, err, "no secret backend")
}

func TestRepositoryMalformedReference(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user]\nusername = \"kana\"\npassword_ref = \"nonsense\"\n"), 0o600))

	_, err := newTestRepository(t, path).Load(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidSecretRef)
}

func TestNewRepositoryStoreModes(t *testing.T) {
	t.Parallel()

	config := viper.New()
	config.Set("credentials.path", filepath.Join(t.TempDir(), "credentials.toml"))

	config.Set("credentials.store", StoreVault)
	_, err := NewRepository(config, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "needs a secret backend")

	config.Set("credentials.store", "keychain")
	_, err = NewRepository(config, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown credentials store "keychain"`)
}
