package nlquery

import "github.com/kailas-cloud/nlquery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrTranslationFailed = domain.ErrTranslationFailed
	ErrRejected          = domain.ErrRejected
	ErrStoreUnavailable  = domain.ErrStoreUnavailable
)

// RejectionError carries the reason a draft was rejected.
// Use errors.As() to extract it.
type RejectionError = domain.RejectionError
