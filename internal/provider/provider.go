package provider

import (
	"context"
	"fmt"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
)

// Source is one vendor's vehicle telemetry feed. FetchAll walks every
// page the vendor reports for the given credential and returns the
// normalized records in vendor order. A failure on any page fails the
// whole call; callers treat a failed token as an empty contribution.
type Source interface {
	Name() string
	FetchAll(ctx context.Context, token string) ([]model.Vehicle, error)
}

// HTTPError is returned when a vendor responds with a non-2xx status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.Status)
}
