package response

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

type slackMessage struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid request signature", http.StatusUnauthorized)
}

func RenderBadRequest(rw http.ResponseWriter) {
	RenderError(rw, "bad request", http.StatusBadRequest)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

// RenderEphemeral answers a slash command with a message only the invoking
// user can see.
func RenderEphemeral(rw http.ResponseWriter, text string) {
	Render(rw, slackMessage{ResponseType: "ephemeral", Text: text}, http.StatusOK)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
