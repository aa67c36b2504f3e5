package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSecretRef = errors.New("invalid secret reference")

// SecretRef points at a password held outside the credentials file, written
// as "<scheme>:<key>", for example "pass:vnda/kana".
type SecretRef struct {
	Scheme string
	Key    string
}

func ParseSecretRef(raw string) (SecretRef, error) {
	scheme, key, ok := strings.Cut(strings.TrimSpace(raw), ":")
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	key = strings.TrimSpace(key)
	if !ok || scheme == "" || key == "" {
		return SecretRef{}, fmt.Errorf("%w: %q", ErrInvalidSecretRef, raw)
	}

	return SecretRef{Scheme: scheme, Key: key}, nil
}

func (r SecretRef) IsZero() bool {
	return r.Scheme == "" && r.Key == ""
}

func (r SecretRef) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Scheme + ":" + r.Key
}

// SecretKeyFor names the stash entry for one user. Path separators in the
// username are flattened so the key stays one level deep.
func SecretKeyFor(username string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(username))
	return "vnda/" + name
}
