package domain

import "strings"

type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Username) != "" && c.Password != ""
}
