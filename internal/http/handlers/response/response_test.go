package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	cases := []struct {
		id       string
		render   func(rw http.ResponseWriter)
		status   int
		expected string
	}{
		{
			id:       "ephemeral",
			render:   func(rw http.ResponseWriter) { RenderEphemeral(rw, "hi") },
			status:   http.StatusOK,
			expected: `{"response_type":"ephemeral","text":"hi"}`,
		},
		{
			id:       "unauthorized",
			render:   RenderUnauthorized,
			status:   http.StatusUnauthorized,
			expected: `{"error":"invalid request signature"}`,
		},
		{
			id:       "unsupported value",
			render:   func(rw http.ResponseWriter) { Render(rw, func() {}, http.StatusOK) },
			status:   http.StatusInternalServerError,
			expected: "",
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			rw := httptest.NewRecorder()

			testcase.render(rw)

			assert := require.New(t)
			assert.Equal(testcase.status, rw.Code)
			assert.Equal("application/json", rw.Header().Get("Content-Type"))
			assert.Equal(testcase.expected, rw.Body.String())
		})
	}
}
