package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	rw := httptest.NewRecorder()

	New().ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{"status":"ok"}`, rw.Body.String())
}
