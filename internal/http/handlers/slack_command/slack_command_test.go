package slackcommand

import (
	"context"
	"encoding/json"
	"errors"
	"eventreminder/internal/core/domain/bot"
	"eventreminder/internal/core/domain/logging"
	ratelimiter "eventreminder/internal/core/domain/rate_limiter"
	processcommand "eventreminder/internal/core/services/process_command"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var errBadSignature = errors.New("bad signature")

type stubVerifier struct {
	Valid bool
}

func (v *stubVerifier) VerifyRequest(timestamp string, signature string, body []byte) error {
	if v.Valid {
		return nil
	}
	return errBadSignature
}

type stubProcessCommand struct {
	Inputs  []processcommand.Input
	Reply   string
	Error   error
	Release chan struct{}
	lock    sync.Mutex
}

func (s *stubProcessCommand) Run(ctx context.Context, input processcommand.Input) (processcommand.Result, error) {
	if s.Release != nil {
		<-s.Release
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Inputs = append(s.Inputs, input)
	return processcommand.Result{Reply: s.Reply}, s.Error
}

type testSuite struct {
	suite.Suite
	logger    *logging.FakeLogger
	verifier  *stubVerifier
	responder *bot.FakeCommandResponder
	process   *stubProcessCommand
	handler   *Handler
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.verifier = &stubVerifier{Valid: true}
	suite.responder = bot.NewFakeCommandResponder()
	suite.process = &stubProcessCommand{Reply: "No events registered."}
	suite.handler = New(suite.logger, suite.verifier, suite.responder, suite.process, time.Second)
}

func TestSlackCommandHandler(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) serve(form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("X-Slack-Request-Timestamp", "1531420618")
	request.Header.Set("X-Slack-Signature", "v0=abc")
	rw := httptest.NewRecorder()
	s.handler.ServeHTTP(rw, request)
	return rw
}

func (s *testSuite) waitReply() bot.CommandReply {
	select {
	case reply := <-s.responder.Done:
		return reply
	case <-time.After(2 * time.Second):
		s.FailNow("reply was not delivered")
	}
	return bot.CommandReply{}
}

func commandForm(text string) url.Values {
	return url.Values{
		"command":      {"/event"},
		"text":         {text},
		"user_id":      {"U42"},
		"response_url": {"https://hooks.slack.com/commands/T1/1/x"},
	}
}

func (s *testSuite) TestCommandIsAcknowledgedBeforeProcessing() {
	s.process.Release = make(chan struct{})

	rw := s.serve(commandForm("list"))

	assert := s.Require()
	assert.Equal(http.StatusOK, rw.Code)
	body := map[string]string{}
	assert.Nil(json.Unmarshal(rw.Body.Bytes(), &body))
	assert.Equal("ephemeral", body["response_type"])
	assert.Equal(ReplyAccepted, body["text"])
	assert.Empty(s.responder.Replies)

	close(s.process.Release)
	reply := s.waitReply()
	s.handler.Wait()

	assert.Equal("https://hooks.slack.com/commands/T1/1/x", reply.ResponseURL)
	assert.Equal("No events registered.", reply.Text)
	assert.Equal([]processcommand.Input{{Text: "list", UserID: "U42"}}, s.process.Inputs)
}

func (s *testSuite) TestInvalidSignature() {
	s.verifier.Valid = false

	rw := s.serve(commandForm("list"))
	s.handler.Wait()

	assert := s.Require()
	assert.Equal(http.StatusUnauthorized, rw.Code)
	assert.Empty(s.process.Inputs)
	assert.Empty(s.responder.Replies)
}

func (s *testSuite) TestMalformedBody() {
	request := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader("text=%zz"))
	rw := httptest.NewRecorder()

	s.handler.ServeHTTP(rw, request)
	s.handler.Wait()

	s.Require().Equal(http.StatusBadRequest, rw.Code)
	s.Require().Empty(s.process.Inputs)
}

func (s *testSuite) TestRateLimitedReply() {
	s.process.Error = ratelimiter.ErrRateLimitExceeded

	s.serve(commandForm("add 2026-01-12 09:30 Standup"))
	reply := s.waitReply()

	s.Require().Equal(ReplyRateLimited, reply.Text)
}

func (s *testSuite) TestProcessingErrorStillReplies() {
	s.process.Reply = processcommand.ReplyStorageError
	s.process.Error = errors.New("disk is full")

	s.serve(commandForm("list"))
	reply := s.waitReply()
	s.handler.Wait()

	assert := s.Require()
	assert.Equal(processcommand.ReplyStorageError, reply.Text)
	assert.Equal(1, s.logger.Count(logging.ERROR))
}

func (s *testSuite) TestMissingResponseURL() {
	form := commandForm("list")
	form.Del("response_url")

	rw := s.serve(form)
	s.handler.Wait()

	assert := s.Require()
	assert.Equal(http.StatusOK, rw.Code)
	assert.Len(s.process.Inputs, 1)
	assert.Empty(s.responder.Replies)
	assert.Equal(1, s.logger.Count(logging.WARNING))
}

func (s *testSuite) TestResponderFailureIsLogged() {
	s.responder.Error = errors.New("expired_url")

	s.serve(commandForm("list"))
	s.waitReply()
	s.handler.Wait()

	s.Require().Equal(1, s.logger.Count(logging.ERROR))
}
