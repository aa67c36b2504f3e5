package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vnda/vnda-cli/internal/adapters/cache/jsonl"
	"github.com/vnda/vnda-cli/internal/adapters/protocol"
	resultsrender "github.com/vnda/vnda-cli/internal/adapters/render/results"
	tomlrepo "github.com/vnda/vnda-cli/internal/adapters/repo/toml"
	"github.com/vnda/vnda-cli/internal/adapters/secrets/chain"
	"github.com/vnda/vnda-cli/internal/adapters/session"
	"github.com/vnda/vnda-cli/internal/application"
	"github.com/vnda/vnda-cli/internal/config"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/logging"
	"github.com/vnda/vnda-cli/internal/ports"
)

// secretsDir holds file-backed passwords when pass is not installed.
const secretsDir = "secrets"

type app struct {
	settings       config.Settings
	logger         zerolog.Logger
	cache          *jsonl.Store
	credentials    *application.CredentialService
	credentialPath string
	session        *session.Session
	search         *application.SearchService
	resultRenderer func(domain.Results, resultsrender.RenderOptions) (string, error)
	now            func() time.Time

	root  *cobra.Command
	input *bufio.Reader
	inSrc io.Reader
}

// stderrWriter resolves the command's error stream at write time so tests
// can swap it after wiring.
type stderrWriter struct {
	cmd *cobra.Command
}

func (w stderrWriter) Write(p []byte) (int, error) {
	return w.cmd.ErrOrStderr().Write(p)
}

// Fd reports the descriptor of the current error stream, or an invalid one
// when it is not a file.
func (w stderrWriter) Fd() uintptr {
	if f, ok := w.cmd.ErrOrStderr().(*os.File); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

func wireApp(root *cobra.Command) (*app, error) {
	v := viper.New()
	settings, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logger := logging.New(logging.ProfileRuntime, settings.LogLevel, stderrWriter{cmd: root})
	clock := ports.SystemClock{}

	cache, err := jsonl.NewStore(settings.DataDir, clock, settings.MaxAge, logger)
	if err != nil {
		return nil, fmt.Errorf("wire cache store: %w", err)
	}

	vault, err := chain.NewPassFirstWithFileFallback(filepath.Join(settings.DataDir, secretsDir))
	if err != nil {
		return nil, fmt.Errorf("wire secret backends: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v, vault)
	if err != nil {
		return nil, fmt.Errorf("wire credential repository: %w", err)
	}

	a := &app{
		settings:       settings,
		logger:         logger,
		cache:          cache,
		credentialPath: repo.Path(),
		resultRenderer: resultsrender.Render,
		now:            time.Now,
		root:           root,
	}

	a.credentials = application.NewCredentialService(repo, &terminalPrompter{app: a}, logger)
	dispatcher := protocol.NewDispatcher(clock, logger)
	a.session = session.New(settings.Session(), a.credentials, dispatcher, logger)
	a.search = application.NewSearchService(cache, a.session, clock, logger)

	return a, nil
}

// stdin returns one buffered reader over the command input, shared by the
// credential prompt and the interactive loop.
func (a *app) stdin() *bufio.Reader {
	in := a.root.InOrStdin()
	if a.input == nil || a.inSrc != in {
		a.input = bufio.NewReader(in)
		a.inSrc = in
	}
	return a.input
}

func (a *app) close() {
	if err := a.session.Logout(); err != nil {
		a.logger.Debug().Err(err).Msg("logout")
	}
}
