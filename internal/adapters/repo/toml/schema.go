package toml

import (
	"fmt"
	"strings"

	"github.com/vnda/vnda-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int        `toml:"version"`
	User    userSchema `toml:"user"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported credentials schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type userSchema struct {
	Username    string `toml:"username"`
	Password    string `toml:"password,omitempty"`
	PasswordRef string `toml:"password_ref,omitempty"`
}

func toSchema(creds domain.Credentials) userSchema {
	return userSchema{
		Username: strings.TrimSpace(creds.Username),
		Password: creds.Password,
	}
}

func fromSchema(user userSchema) domain.Credentials {
	return domain.Credentials{
		Username: strings.TrimSpace(user.Username),
		Password: user.Password,
	}
}
