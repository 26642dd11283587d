package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/diewo77/workshop-quotes/httpx"
	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/diewo77/workshop-quotes/internal/services"
	"github.com/diewo77/workshop-quotes/validation"
	"github.com/sirupsen/logrus"
)

// DefaultMaxLogoBytes caps logo uploads.
const DefaultMaxLogoBytes = 5 << 20

// SettingsHandler serves the company profile, its logo upload and the settings probe.
type SettingsHandler struct {
	Settings     *services.SettingsService
	BucketName   string
	MaxLogoBytes int64
	Log          logrus.FieldLogger
}

func NewSettingsHandler(settings *services.SettingsService, bucketName string, log logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{Settings: settings, BucketName: bucketName, MaxLogoBytes: DefaultMaxLogoBytes, Log: log}
}

func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /settings", h.Get)
	mux.HandleFunc("PUT /settings", h.Update)
	mux.HandleFunc("POST /settings/logo", h.UploadLogo)
	mux.HandleFunc("GET /diag/settings", h.Diagnose)
}

type settingsResponse struct {
	Company *models.CompanyData `json:"company"`
	ID      string              `json:"id,omitempty"`
}

// Get: GET /settings -> {company, id} or {company: null}
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.Settings.Current(r.Context())
	if err != nil {
		failWith(w, r, h.Log, "SettingsHandler.Get", err)
		return
	}
	if row == nil {
		httpx.JSON(w, http.StatusOK, settingsResponse{})
		return
	}
	data := row.Data()
	httpx.JSON(w, http.StatusOK, settingsResponse{Company: &data, ID: row.ID})
}

// Update: PUT /settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body models.CompanyData
	if err := httpx.DecodeJSON(r, &body); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", body.Name, v)
	if !v.Empty() {
		fail(w, r, http.StatusBadRequest, "name_required", v)
		return
	}
	if _, err := h.Settings.Save(r.Context(), body); err != nil {
		failWith(w, r, h.Log, "SettingsHandler.Update", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// UploadLogo: POST /settings/logo, multipart field "file", optional "filename".
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxLogoBytes+(1<<20))
	if err := r.ParseMultipartForm(h.MaxLogoBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, r, http.StatusRequestEntityTooLarge, "file_too_large", nil)
			return
		}
		fail(w, r, http.StatusBadRequest, "missing_file", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, r, http.StatusBadRequest, "missing_file", nil)
		return
	}
	defer file.Close()

	if header.Size > h.MaxLogoBytes {
		fail(w, r, http.StatusRequestEntityTooLarge, "file_too_large", nil)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "missing_file", nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	filename := strings.TrimSpace(r.FormValue("filename"))
	if filename == "" {
		filename = "logo"
	}

	url, err := h.Settings.UploadLogo(r.Context(), services.LogoUpload{Filename: filename, ContentType: contentType, Data: data})
	if err != nil {
		failWith(w, r, h.Log, "SettingsHandler.UploadLogo", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true, "url": url})
}

// Diagnose: GET /diag/settings
func (h *SettingsHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	d, err := h.Settings.Diagnose(r.Context(), h.BucketName)
	if err != nil {
		msg := err.Error()
		httpx.JSON(w, http.StatusInternalServerError, services.Diagnosis{Error: &msg})
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
