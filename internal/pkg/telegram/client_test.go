package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL))
	id, err := client.SendMessage(context.Background(), Message{
		ChatID:    "-100123",
		Text:      "Daily Points",
		ParseMode: "Markdown",
		ThreadID:  "7",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, []string{"-100123"}, gotForm["chat_id"])
	assert.Equal(t, []string{"Markdown"}, gotForm["parse_mode"])
	assert.Equal(t, []string{"7"}, gotForm["message_thread_id"])
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL))
	_, err := client.SendMessage(context.Background(), Message{ChatID: "nope", Text: "hi"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Description, "chat not found")
}

func TestSendMessageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL))
	_, err := client.SendMessage(context.Background(), Message{ChatID: "c", Text: "hi"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestSendDocument(t *testing.T) {
	var gotFile []byte
	var gotFilename string
	var gotReplyTo string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotReplyTo = r.FormValue("reply_to_message_id")
		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotFile, err = io.ReadAll(file)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":43}}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL))
	id, err := client.SendDocument(context.Background(), Document{
		ChatID:           "-100123",
		FileName:         "points.pdf",
		Caption:          "Weekly report",
		Data:             []byte("%PDF-fake"),
		ReplyToMessageID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(43), id)
	assert.Equal(t, "points.pdf", gotFilename)
	assert.Equal(t, []byte("%PDF-fake"), gotFile)
	assert.Equal(t, "42", gotReplyTo)
}
