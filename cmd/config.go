package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type settingsView struct {
	DataDir       string `toml:"data_dir"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Protocol      int    `toml:"protocol"`
	ClientName    string `toml:"client_name"`
	ClientVersion string `toml:"client_version"`
	DialTimeout   string `toml:"dial_timeout"`
	ReadTimeout   string `toml:"read_timeout"`
	WriteTimeout  string `toml:"write_timeout"`
	MaxFrameBytes int    `toml:"max_frame_bytes"`
	MaxAge        string `toml:"max_age"`
	LogLevel      string `toml:"log_level"`

	Credentials struct {
		Path  string `toml:"path"`
		Store string `toml:"store"`
	} `toml:"credentials"`
}

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect resolved settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := app.settings
			view := settingsView{
				DataDir:       s.DataDir,
				Host:          s.Host,
				Port:          s.Port,
				Protocol:      s.Protocol,
				ClientName:    s.ClientName,
				ClientVersion: s.ClientVersion,
				DialTimeout:   s.DialTimeout.String(),
				ReadTimeout:   s.ReadTimeout.String(),
				WriteTimeout:  s.WriteTimeout.String(),
				MaxFrameBytes: s.MaxFrameBytes,
				MaxAge:        s.MaxAge.String(),
				LogLevel:      s.LogLevel,
			}
			view.Credentials.Path = app.credentialPath
			view.Credentials.Store = s.CredentialsStore

			data, err := toml.Marshal(view)
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}

			if s.SettingsFile != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "# read from %s\n", s.SettingsFile)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return cmd
}
