package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/ports"
)

const (
	dataDirKey          = "data_dir"
	credentialsPathKey  = "credentials.path"
	credentialsStoreKey = "credentials.store"
	credentialsFileMode = 0o600
	credentialsDirMode  = 0o700
	defaultDataDir      = ".vnda"
	credentialsFile     = "credentials.toml"
	tempFilePattern     = ".credentials-*.toml.tmp"
)

// Password placement on save: inline in the TOML file, or stashed in a
// vault with only a reference written to the file.
const (
	StoreInline = "inline"
	StoreVault  = "vault"
)

// Repository keeps the login credentials in an owner-only TOML file.
type Repository struct {
	path  string
	mu    *sync.RWMutex
	vault ports.Vault
	stash bool
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CredentialStore = (*Repository)(nil)

// NewRepository resolves the file location from cfg. vault may be nil, in
// which case passwords are always inline and references cannot be resolved.
func NewRepository(cfg *viper.Viper, vault ports.Vault) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dataDir := cfg.GetString(dataDirKey)
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, defaultDataDir)
	}

	cfg.SetDefault(credentialsPathKey, filepath.Join(dataDir, credentialsFile))

	path := cfg.GetString(credentialsPathKey)
	if path == "" {
		return nil, errors.New("credentials path is empty")
	}
	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	stash := false
	switch mode := cfg.GetString(credentialsStoreKey); mode {
	case "", StoreInline:
	case StoreVault:
		if vault == nil {
			return nil, errors.New("credentials store \"vault\" needs a secret backend")
		}
		stash = true
	default:
		return nil, fmt.Errorf("unknown credentials store %q", mode)
	}

	return &Repository{path: path, mu: lockForPath(path), vault: vault, stash: stash}, nil
}

func (r *Repository) Path() string {
	return r.path
}

// Load returns the stored credentials. A missing file or an entry without
// both username and password is ErrCredentialsNotFound. A password_ref is
// resolved through the vault. A file readable by group or others is
// tightened to owner-only on the way.
func (r *Repository) Load(ctx context.Context) (domain.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credentials{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Credentials{}, err
	}

	creds := fromSchema(file.User)
	if creds.Password == "" && file.User.PasswordRef != "" {
		password, err := r.reveal(ctx, file.User.PasswordRef)
		if err != nil {
			return domain.Credentials{}, err
		}
		creds.Password = password
	}
	if !creds.Complete() {
		return domain.Credentials{}, fmt.Errorf("%w in %s", domain.ErrCredentialsNotFound, r.path)
	}

	if err := r.restrictPermissions(); err != nil {
		return domain.Credentials{}, err
	}

	return creds, nil
}

func (r *Repository) Save(ctx context.Context, creds domain.Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !creds.Complete() {
		return errors.New("username and password are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.User = toSchema(creds)

	if r.stash {
		ref, err := r.vault.Stash(ctx, domain.SecretKeyFor(creds.Username), creds.Password)
		if err != nil {
			return fmt.Errorf("stash password: %w", err)
		}
		file.User.Password = ""
		file.User.PasswordRef = ref.String()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) reveal(ctx context.Context, raw string) (string, error) {
	ref, err := domain.ParseSecretRef(raw)
	if err != nil {
		return "", fmt.Errorf("credentials file %s: %w", r.path, err)
	}
	if r.vault == nil {
		return "", fmt.Errorf("credentials file %s references %s but no secret backend is configured", r.path, ref)
	}

	password, err := r.vault.Reveal(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve password %s: %w", ref, err)
	}
	return password, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read credentials file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode credentials file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) restrictPermissions() error {
	info, err := os.Stat(r.path)
	if err != nil {
		return fmt.Errorf("stat credentials file: %w", err)
	}
	if info.Mode().Perm()&0o077 == 0 {
		return nil
	}

	if err := os.Chmod(r.path, credentialsFileMode); err != nil {
		return fmt.Errorf("chmod credentials file: %w", err)
	}
	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve credentials path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), credentialsDirMode); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode credentials file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := tempFile.Chmod(credentialsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp credentials file: %w", err)
	}

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp credentials file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp credentials file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}

	cleanup = false
	return nil
}
