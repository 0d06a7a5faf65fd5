package conversation

import (
	"encoding/base64"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// WireImage is the JSON form of an image attachment.
type WireImage struct {
	Base64   string `json:"base64" validate:"required"`
	MimeType string `json:"mimeType,omitempty"`
}

// WireTurn is the JSON form of a turn as sent by the chat frontend.
type WireTurn struct {
	Role  string     `json:"role"`
	Parts string     `json:"parts"`
	Image *WireImage `json:"image,omitempty"`
}

// WireRequest is the JSON body of a chat request.
type WireRequest struct {
	APIKey          string     `json:"apiKey"`
	Model           string     `json:"model"`
	HistoryMessages []WireTurn `json:"historyMessages" validate:"dive"`
	Message         WireTurn   `json:"message"`
	HasImages       bool       `json:"hasImages"`
}

// Validate checks the structural constraints of the wire request.
func (w *WireRequest) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("invalid chat request: %w", err)
	}
	return nil
}

// Request converts the wire request into a Request. History is filtered to
// user and model turns. The credential is copied verbatim.
func (w *WireRequest) Request() (Request, error) {
	if err := w.Validate(); err != nil {
		return Request{}, err
	}

	history := make([]Turn, 0, len(w.HistoryMessages))
	for i, wt := range w.HistoryMessages {
		turn, err := wt.Turn()
		if err != nil {
			return Request{}, fmt.Errorf("history message %d: %w", i, err)
		}
		history = append(history, turn)
	}

	msg := w.Message
	if msg.Role == "" {
		msg.Role = string(RoleUser)
	}
	message, err := msg.Turn()
	if err != nil {
		return Request{}, fmt.Errorf("message: %w", err)
	}

	return Request{
		Credential: w.APIKey,
		Model:      w.Model,
		History:    FilterHistory(history),
		Message:    message,
		HasImages:  w.HasImages,
	}, nil
}

// Turn converts the wire turn into a TextTurn or an ImageTurn.
func (wt WireTurn) Turn() (Turn, error) {
	if wt.Image == nil {
		return TextTurn{From: Role(wt.Role), Content: wt.Parts}, nil
	}
	img, err := wt.Image.Decode()
	if err != nil {
		return nil, err
	}
	return ImageTurn{From: Role(wt.Role), Content: wt.Parts, Image: img}, nil
}

// Decode turns the base64 payload into bytes. An empty MIME type is
// detected from the content.
func (wi WireImage) Decode() (Image, error) {
	data, err := base64.StdEncoding.DecodeString(wi.Base64)
	if err != nil {
		// Some clients strip the padding.
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(wi.Base64); rawErr != nil {
			return Image{}, fmt.Errorf("decode image: %w", err)
		}
	}
	return NewImage(data, wi.MimeType), nil
}

// ToWire converts a turn back into its JSON form.
func ToWire(turn Turn) WireTurn {
	wt := WireTurn{Role: string(turn.Role()), Parts: turn.Text()}
	if it, ok := turn.(ImageTurn); ok {
		wt.Image = &WireImage{
			Base64:   base64.StdEncoding.EncodeToString(it.Image.Data),
			MimeType: it.Image.MIMEType,
		}
	}
	return wt
}
