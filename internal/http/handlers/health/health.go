package health

import (
	"eventreminder/internal/http/handlers/response"
	"net/http"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

type status struct {
	Status string `json:"status"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	response.Render(rw, status{Status: "ok"}, http.StatusOK)
}
