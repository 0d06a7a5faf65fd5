package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"chatbot/internal/conversation"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// ProgressFunc receives the full text accumulated so far, once per chunk.
type ProgressFunc func(text string)

// Event is one step of a streamed reply. Text always holds the accumulated
// text. The last event has Done set, or Err set on failure.
type Event struct {
	Text string
	Done bool
	Err  error
}

// Adapter sends chat requests to Gemini and streams the reply back.
// It holds no per-request state, so one Adapter serves concurrent requests.
type Adapter struct {
	newBackend BackendFactory
	catalog    *Catalog
	log        *logrus.Logger
}

// NewAdapter creates an Adapter.
func NewAdapter(newBackend BackendFactory, catalog *Catalog, log *logrus.Logger) *Adapter {
	return &Adapter{
		newBackend: newBackend,
		catalog:    catalog,
		log:        log,
	}
}

// Send dispatches req to the text or the vision path depending on
// req.HasImages and returns the complete reply. onProgress may be nil.
// Every failure is returned as a *PingError and no partial text is returned.
func (a *Adapter) Send(ctx context.Context, req conversation.Request, onProgress ProgressFunc) (string, error) {
	text, err := a.send(ctx, req, onProgress)
	if err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"model":      req.Model,
			"has_images": req.HasImages,
		}).Error("Gemini request failed")
		return "", &PingError{Err: err}
	}
	return text, nil
}

// Stream is Send as a channel. The channel is closed after the Done or Err
// event, or as soon as ctx is done if the consumer has stopped reading.
func (a *Adapter) Stream(ctx context.Context, req conversation.Request) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		emit := func(ev Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		text, err := a.Send(ctx, req, func(text string) {
			if ctx.Err() == nil {
				emit(Event{Text: text})
			}
		})
		if err != nil {
			emit(Event{Err: err})
			return
		}
		emit(Event{Text: text, Done: true})
	}()
	return events
}

func (a *Adapter) send(ctx context.Context, req conversation.Request, onProgress ProgressFunc) (string, error) {
	history := conversation.FilterHistory(req.History)

	if req.HasImages != req.ContainsImages() {
		a.log.WithField("has_images", req.HasImages).Warn("hasImages flag does not match request content")
	}

	backend, err := a.newBackend(ctx, req.Credential)
	if err != nil {
		return "", err
	}

	var stream iter.Seq2[*genai.GenerateContentResponse, error]
	if req.HasImages {
		model := a.catalog.Resolve(req.Model, true)
		a.log.WithFields(logrus.Fields{"model": model, "turns": len(history)}).Debug("Sending vision request")
		contents := []*genai.Content{
			genai.NewContentFromParts(FlattenParts(history, req.MessageText()), genai.RoleUser),
		}
		stream = backend.GenerateContentStream(ctx, model, contents)
	} else {
		model := a.catalog.Resolve(req.Model, false)
		a.log.WithFields(logrus.Fields{"model": model, "turns": len(history)}).Debug("Sending chat request")
		session, err := backend.StartChat(ctx, model, HistoryContents(history))
		if err != nil {
			return "", err
		}
		stream = session.SendMessageStream(ctx, genai.Part{Text: req.MessageText()})
	}

	return accumulate(stream, onProgress)
}

func accumulate(stream iter.Seq2[*genai.GenerateContentResponse, error], onProgress ProgressFunc) (string, error) {
	var text strings.Builder
	for chunk, err := range stream {
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("stream interrupted: %w", err)
		}
		if chunk != nil {
			text.WriteString(chunk.Text())
		}
		if onProgress != nil {
			onProgress(text.String())
		}
	}
	return text.String(), nil
}

// HistoryContents maps turns to chat history. Only the text of each turn is sent.
func HistoryContents(turns []conversation.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		contents = append(contents, genai.NewContentFromText(turn.Text(), genai.Role(turn.Role())))
	}
	return contents
}

// FlattenParts maps every turn to one part: inline data for image turns and
// text otherwise. The message text is appended last when it is not empty.
func FlattenParts(turns []conversation.Turn, message string) []*genai.Part {
	parts := make([]*genai.Part, 0, len(turns)+1)
	for _, turn := range turns {
		switch t := turn.(type) {
		case conversation.ImageTurn:
			parts = append(parts, genai.NewPartFromBytes(t.Image.Data, t.Image.MIMEType))
		case conversation.TextTurn:
			parts = append(parts, genai.NewPartFromText(t.Content))
		}
	}
	if message != "" {
		parts = append(parts, genai.NewPartFromText(message))
	}
	return parts
}
