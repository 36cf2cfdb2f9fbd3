package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/telegram"
)

// Messenger is the outbound channel surface. *telegram.Client satisfies it.
type Messenger interface {
	SendMessage(ctx context.Context, msg telegram.Message) (int64, error)
	SendDocument(ctx context.Context, doc telegram.Document) (int64, error)
}

// MessengerFactory builds a channel client from the token stored in the
// points configuration. A fresh client per run keeps runs independent.
type MessengerFactory func(token string) Messenger

type Dispatcher struct {
	newMessenger MessengerFactory
	logger       *slog.Logger
}

type Option func(*Dispatcher)

func WithMessengerFactory(f MessengerFactory) Option {
	return func(d *Dispatcher) { d.newMessenger = f }
}

func NewDispatcher(logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		newMessenger: func(token string) Messenger { return telegram.NewClient(token) },
		logger:       logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends the text summary, then the report document as a reply to
// it. Failures are isolated per call: a failed summary does not stop the
// document, and nothing here aborts the run. Missing credentials skip the
// send entirely.
func (d *Dispatcher) Dispatch(ctx context.Context, set points.Settings, rep points.Report, doc []byte) {
	if !set.HasCredentials() {
		d.logger.Warn("dispatch skipped",
			"reason", points.ErrMissingCredentials.Error(),
			"period", rep.Period.Title)
		return
	}

	m := d.newMessenger(set.Token)

	var replyTo int64
	msgID, err := m.SendMessage(ctx, telegram.Message{
		ChatID:    set.ChatID,
		Text:      rep.Summary,
		ParseMode: "Markdown",
		ThreadID:  set.ThreadID,
	})
	if err != nil {
		d.logger.Error("send summary failed",
			"chat_id", set.ChatID,
			"period", rep.Period.Title,
			"text_len", len(rep.Summary),
			"error", err)
	} else {
		replyTo = msgID
	}

	if len(doc) == 0 {
		return
	}

	_, err = m.SendDocument(ctx, telegram.Document{
		ChatID:           set.ChatID,
		FileName:         documentName(rep.Period),
		Caption:          fmt.Sprintf("%s points report", rep.Period.Title),
		Data:             doc,
		ThreadID:         set.ThreadID,
		ReplyToMessageID: replyTo,
	})
	if err != nil {
		d.logger.Error("send document failed",
			"chat_id", set.ChatID,
			"period", rep.Period.Title,
			"document_bytes", len(doc),
			"error", err)
	}
}

func documentName(p points.Period) string {
	return fmt.Sprintf("points-%s-%s.pdf", strings.ToLower(p.Title), p.Start.Format(time.DateOnly))
}
