package sse

import (
	"net/http"

	apperrors "github.com/kbukum/livescore/errors"
)

// Reasons a subscription or stream ends. Compare with errors.Is.
var (
	ErrHubClosed          = apperrors.New(apperrors.ErrCodeHubClosed, "broadcast hub closed", http.StatusServiceUnavailable)
	ErrUnsubscribed       = apperrors.New(apperrors.ErrCodeUnsubscribed, "subscription removed", http.StatusGone)
	ErrClientDisconnected = apperrors.ClientDisconnected(nil)
)
