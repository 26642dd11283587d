package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/workshop-quotes/httpx"
	"github.com/diewo77/workshop-quotes/i18n"
	"github.com/diewo77/workshop-quotes/internal/config"
	"github.com/diewo77/workshop-quotes/internal/notify"
	"github.com/diewo77/workshop-quotes/internal/services"
	"github.com/diewo77/workshop-quotes/internal/storage"
	"github.com/sirupsen/logrus"
)

// fail writes a translated error body.
func fail(w http.ResponseWriter, r *http.Request, status int, code string, details any) {
	httpx.JSONError(w, status, code, i18n.T(i18n.LangFrom(r.Context()), code), details)
}

// failWith maps a service error to its status and code. Unknown errors become
// 500 with the downstream message appended.
func failWith(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, funcName string, err error) {
	var (
		mismatch *services.TotalMismatchError
		logoErr  *services.LogoSaveError
	)
	switch {
	case errors.Is(err, services.ErrQuoteNotFound):
		fail(w, r, http.StatusNotFound, "quote_not_found", nil)
	case errors.As(err, &mismatch):
		fail(w, r, http.StatusBadRequest, "total_mismatch", map[string]string{
			"declared": mismatch.Declared.StringFixed(2),
			"computed": mismatch.Computed.StringFixed(2),
		})
	case errors.Is(err, storage.ErrInvalidImage):
		fail(w, r, http.StatusBadRequest, "invalid_image", nil)
	case errors.Is(err, services.ErrDataStoreNotConfigured):
		fail(w, r, http.StatusInternalServerError, "data_store_not_configured", nil)
	case errors.Is(err, storage.ErrNotConfigured):
		fail(w, r, http.StatusInternalServerError, "storage_not_configured", nil)
	case errors.Is(err, notify.ErrNotConfigured):
		fail(w, r, http.StatusInternalServerError, "webhook_not_configured", nil)
	case errors.As(err, &logoErr):
		config.LogError(log, "handlers", funcName, logoErr.URL, err)
		msg := i18n.T(i18n.LangFrom(r.Context()), "logo_not_saved") + ": " + logoErr.Err.Error()
		httpx.JSONError(w, http.StatusInternalServerError, "logo_not_saved", msg, map[string]string{"url": logoErr.URL})
	default:
		config.LogError(log, "handlers", funcName, nil, err)
		msg := i18n.T(i18n.LangFrom(r.Context()), "internal_error") + ": " + err.Error()
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", msg, nil)
	}
}
