package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client covering the two methods the
// dispatcher needs: sendMessage and sendDocument.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type Option func(*Client)

// WithBaseURL overrides the API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError represents a non-success response from the Bot API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error [%d]: %s", e.StatusCode, e.Description)
}

type Message struct {
	ChatID    string
	Text      string
	ParseMode string
	ThreadID  string
}

type Document struct {
	ChatID           string
	FileName         string
	Caption          string
	Data             []byte
	ThreadID         string
	ReplyToMessageID int64
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// SendMessage posts a text message and returns the created message id.
func (c *Client) SendMessage(ctx context.Context, msg Message) (int64, error) {
	form := url.Values{}
	form.Set("chat_id", msg.ChatID)
	form.Set("text", msg.Text)
	if msg.ParseMode != "" {
		form.Set("parse_mode", msg.ParseMode)
	}
	if msg.ThreadID != "" {
		form.Set("message_thread_id", msg.ThreadID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// SendDocument uploads a file as a multipart request and returns the
// created message id.
func (c *Client) SendDocument(ctx context.Context, doc Document) (int64, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"chat_id": doc.ChatID,
		"caption": doc.Caption,
	}
	if doc.ThreadID != "" {
		fields["message_thread_id"] = doc.ThreadID
	}
	if doc.ReplyToMessageID != 0 {
		fields["reply_to_message_id"] = strconv.FormatInt(doc.ReplyToMessageID, 10)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return 0, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	fw, err := mw.CreateFormFile("document", doc.FileName)
	if err != nil {
		return 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(doc.Data); err != nil {
		return 0, fmt.Errorf("write document body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendDocument"), &body)
	if err != nil {
		return 0, fmt.Errorf("build sendDocument request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req)
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func (c *Client) do(req *http.Request) (int64, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call telegram: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read telegram response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return 0, &APIError{StatusCode: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
		}
		return 0, fmt.Errorf("decode telegram response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !parsed.OK {
		return 0, &APIError{StatusCode: resp.StatusCode, Description: parsed.Description}
	}
	return parsed.Result.MessageID, nil
}
