package advisors

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcoe/askme/internal/backend"
)

// failureReply turns a backend error into explanatory reply text. Backend
// failures are answers, not errors: the router must still be able to render
// the other domains of a multi-domain query.
func failureReply(label string, err error) string {
	switch {
	case backend.IsAuthFailure(err):
		return fmt.Sprintf("%s API authentication failed. Please verify username/password in the configuration.", label)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s API timeout. Please try again.", label)
	case errors.Is(err, backend.ErrExportExhausted):
		return fmt.Sprintf("%s download failed after retries. Please try again later.", label)
	}

	var pe *backend.ProtocolError
	if errors.As(err, &pe) && pe.Status != 0 {
		return fmt.Sprintf("%s API error: HTTP %d", label, pe.Status)
	}
	return fmt.Sprintf("%s API error: %v", label, err)
}
