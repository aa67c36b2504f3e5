package ports

import (
	"context"

	"github.com/vnda/vnda-cli/internal/domain"
)

// Remote is the network side of a lookup. Errors wrap domain.ErrNeedLogin,
// domain.ErrThrottled or domain.ErrServer when the server refused the request.
type Remote interface {
	Login(ctx context.Context) error
	Get(ctx context.Context, req domain.GetRequest) (domain.Results, error)
	Logout() error
}
