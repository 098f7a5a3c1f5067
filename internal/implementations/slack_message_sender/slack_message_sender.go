package slackmessagesender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"eventreminder/internal/core/domain/bot"
	"eventreminder/internal/core/domain/notification"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrMissingResponseURL = errors.New("command reply has no response URL")

type chatMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type commandResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// SlackMessageSender posts reminders through the Web API and answers slash
// commands through their response URLs.
type SlackMessageSender struct {
	httpClient http.Client
	baseURL    url.URL
	token      string
}

func New(baseURL url.URL, token string, timeout time.Duration) *SlackMessageSender {
	return &SlackMessageSender{
		baseURL:    baseURL,
		token:      token,
		httpClient: http.Client{Timeout: timeout},
	}
}

func (s *SlackMessageSender) Post(ctx context.Context, m notification.Message) error {
	endpoint := s.baseURL.JoinPath("chat.postMessage")
	resp, err := s.postJSON(ctx, endpoint.String(), chatMessage{Channel: string(m.Channel), Text: m.Text}, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("got unsuccessful response from Slack: %d %s", resp.StatusCode, string(body))
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("could not decode Slack response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("slack rejected the message: %s", result.Error)
	}
	return nil
}

func (s *SlackMessageSender) RespondToCommand(ctx context.Context, r bot.CommandReply) error {
	if r.ResponseURL == "" {
		return ErrMissingResponseURL
	}
	resp, err := s.postJSON(ctx, r.ResponseURL, commandResponse{ResponseType: "ephemeral", Text: r.Text}, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("got unsuccessful response from Slack: %d %s", resp.StatusCode, string(body))
	}
	return nil
}

func (s *SlackMessageSender) postJSON(ctx context.Context, url string, payload interface{}, withToken bool) (*http.Response, error) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	request.Header.Add("content-type", "application/json; charset=utf-8")
	if withToken {
		request.Header.Add("authorization", "Bearer "+s.token)
	}
	return s.httpClient.Do(request)
}
