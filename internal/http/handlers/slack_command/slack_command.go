package slackcommand

import (
	"context"
	"errors"
	"eventreminder/internal/core/domain/bot"
	e "eventreminder/internal/core/domain/errors"
	"eventreminder/internal/core/domain/logging"
	ratelimiter "eventreminder/internal/core/domain/rate_limiter"
	"eventreminder/internal/core/services"
	processcommand "eventreminder/internal/core/services/process_command"
	"eventreminder/internal/http/handlers/response"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	MaxBodySize = 1 << 16

	ReplyAccepted    = "⌛ Working on it…"
	ReplyRateLimited = "You are sending commands too fast, please slow down."
)

type RequestVerifier interface {
	VerifyRequest(timestamp string, signature string, body []byte) error
}

// Handler acknowledges slash commands right away and delivers the actual
// reply through the command's response URL once it is computed.
type Handler struct {
	log            logging.Logger
	verifier       RequestVerifier
	responder      bot.CommandResponder
	processCommand services.Service[processcommand.Input, processcommand.Result]
	timeout        time.Duration
	inFlight       sync.WaitGroup
}

func New(
	log logging.Logger,
	verifier RequestVerifier,
	responder bot.CommandResponder,
	processCommand services.Service[processcommand.Input, processcommand.Result],
	timeout time.Duration,
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if verifier == nil {
		panic(e.NewNilArgumentError("verifier"))
	}
	if responder == nil {
		panic(e.NewNilArgumentError("responder"))
	}
	if processCommand == nil {
		panic(e.NewNilArgumentError("processCommand"))
	}
	return &Handler{
		log:            log,
		verifier:       verifier,
		responder:      responder,
		processCommand: processCommand,
		timeout:        timeout,
	}
}

type command struct {
	Command     string
	Text        string
	UserID      string
	ResponseURL string
}

func parseCommand(body []byte) (c command, err error) {
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return c, err
	}
	return command{
		Command:     form.Get("command"),
		Text:        form.Get("text"),
		UserID:      form.Get("user_id"),
		ResponseURL: form.Get("response_url"),
	}, nil
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, MaxBodySize))
	if err != nil {
		h.log.Info(r.Context(), "Could not read slash command body.", logging.Entry("err", err))
		response.RenderBadRequest(rw)
		return
	}

	err = h.verifier.VerifyRequest(
		r.Header.Get("X-Slack-Request-Timestamp"),
		r.Header.Get("X-Slack-Signature"),
		body,
	)
	if err != nil {
		h.log.Warning(r.Context(), "Slash command rejected.", logging.Entry("err", err))
		response.RenderUnauthorized(rw)
		return
	}

	cmd, err := parseCommand(body)
	if err != nil {
		h.log.Info(r.Context(), "Could not parse slash command.", logging.Entry("err", err))
		response.RenderBadRequest(rw)
		return
	}
	h.log.Info(
		r.Context(),
		"Got slash command.",
		logging.Entry("command", cmd.Command),
		logging.Entry("userID", cmd.UserID),
	)

	h.inFlight.Add(1)
	go h.process(cmd)

	response.RenderEphemeral(rw, ReplyAccepted)
}

func (h *Handler) process(cmd command) {
	defer h.inFlight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	result, err := h.processCommand.Run(ctx, processcommand.Input{Text: cmd.Text, UserID: cmd.UserID})
	switch {
	case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		result.Reply = ReplyRateLimited
	case err != nil:
		logging.Error(ctx, h.log, err, logging.Entry("userID", cmd.UserID), logging.Entry("text", cmd.Text))
	}

	if cmd.ResponseURL == "" {
		h.log.Warning(ctx, "Slash command has no response URL, reply dropped.", logging.Entry("reply", result.Reply))
		return
	}
	err = h.responder.RespondToCommand(ctx, bot.CommandReply{ResponseURL: cmd.ResponseURL, Text: result.Reply})
	if err != nil {
		h.log.Error(
			ctx,
			"Could not deliver slash command reply.",
			logging.Entry("userID", cmd.UserID),
			logging.Entry("err", err),
		)
	}
}

// Wait blocks until every accepted command has been answered.
func (h *Handler) Wait() {
	h.inFlight.Wait()
}
