package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/ledger"
	"github.com/mmynk/telecomsupply/internal/notify"
	"github.com/mmynk/telecomsupply/internal/storage"
)

// connectError maps domain errors to Connect codes.
func connectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrSessionRevoked),
		errors.Is(err, ledger.ErrClosed):
		return connect.CodeUnauthenticated
	case errors.Is(err, auth.ErrRegistrationDisabled):
		return connect.CodePermissionDenied
	case errors.Is(err, auth.ErrEmailExists):
		return connect.CodeAlreadyExists

	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrInvalidFilter),
		errors.Is(err, notify.ErrNoChannels),
		errors.Is(err, notify.ErrUnknownChannel),
		errors.Is(err, notify.ErrEmptyMessage):
		return connect.CodeInvalidArgument

	case errors.Is(err, ledger.ErrClientNotFound),
		errors.Is(err, ledger.ErrInvoiceNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound

	case errors.Is(err, ledger.ErrBusy):
		return connect.CodeAborted
	case errors.Is(err, ledger.ErrNotLoaded):
		return connect.CodeFailedPrecondition

	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, storage.ErrUnavailable):
		return connect.CodeUnavailable
	}
	return connect.CodeInternal
}
