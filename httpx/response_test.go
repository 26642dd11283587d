package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusNotFound, "quote_not_found", "Orçamento não encontrado", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Orçamento não encontrado","code":"quote_not_found"}`, w.Body.String())
}

func TestJSONNil(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	assert.Equal(t, "null", w.Body.String())
}

func TestJSONEncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]any{"ch": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "encode_error")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Number string `json:"number"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"number":"ORC-1"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "ORC-1", dst.Number)

	for _, body := range []string{"", "{", `{"number":1}`, `{} {}`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.ErrorIs(t, DecodeJSON(r, &dst), ErrInvalidJSON, body)
	}
}
