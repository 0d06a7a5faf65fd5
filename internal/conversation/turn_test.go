package conversation

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestFilterHistory_KeepsUserAndModelInOrder(t *testing.T) {
	turns := []Turn{
		TextTurn{From: RoleUser, Content: "Hi"},
		TextTurn{From: "system", Content: "be nice"},
		TextTurn{From: RoleModel, Content: "Hello"},
		nil,
		TextTurn{From: "assistant", Content: "dropped"},
		ImageTurn{From: RoleUser, Content: "look", Image: Image{Data: []byte{1}, MIMEType: "image/png"}},
	}

	got := FilterHistory(turns)

	require.Len(t, got, 3)
	assert.Equal(t, "Hi", got[0].Text())
	assert.Equal(t, RoleModel, got[1].Role())
	assert.IsType(t, ImageTurn{}, got[2])
}

func TestRequest_ContainsImages(t *testing.T) {
	req := Request{
		History: []Turn{TextTurn{From: RoleUser, Content: "Hi"}},
		Message: TextTurn{From: RoleUser, Content: "there"},
	}
	assert.False(t, req.ContainsImages())

	req.History = append(req.History, ImageTurn{From: RoleUser})
	assert.True(t, req.ContainsImages())
}

func TestRequest_MessageText(t *testing.T) {
	assert.Equal(t, "", Request{}.MessageText())
	assert.Equal(t, "How are you?", Request{Message: TextTurn{Content: "How are you?"}}.MessageText())
}

func TestWireRequest_Request(t *testing.T) {
	wire := WireRequest{
		APIKey: " sk-123 ",
		Model:  "gemini-2.5-flash",
		HistoryMessages: []WireTurn{
			{Role: "user", Parts: "Hi"},
			{Role: "system", Parts: "ignored"},
			{Role: "model", Parts: "Hello"},
		},
		Message: WireTurn{Parts: "How are you?"},
	}

	req, err := wire.Request()
	require.NoError(t, err)

	assert.Equal(t, " sk-123 ", req.Credential)
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.False(t, req.HasImages)
	require.Len(t, req.History, 2)
	assert.Equal(t, RoleUser, req.History[0].Role())
	assert.Equal(t, RoleModel, req.History[1].Role())
	assert.Equal(t, RoleUser, req.Message.Role())
	assert.Equal(t, "How are you?", req.MessageText())
}

func TestWireRequest_DecodesImages(t *testing.T) {
	wire := WireRequest{
		HistoryMessages: []WireTurn{
			{Role: "user", Image: &WireImage{Base64: "AAA=", MimeType: "image/png"}},
			{Role: "user", Image: &WireImage{Base64: base64.StdEncoding.EncodeToString(pngHeader)}},
		},
		Message:   WireTurn{Parts: "Describe this"},
		HasImages: true,
	}

	req, err := wire.Request()
	require.NoError(t, err)
	require.Len(t, req.History, 2)

	first, ok := req.History[0].(ImageTurn)
	require.True(t, ok)
	assert.Equal(t, []byte{0, 0}, first.Image.Data)
	assert.Equal(t, "image/png", first.Image.MIMEType)

	unpadded, err := WireImage{Base64: "AAA", MimeType: "image/png"}.Decode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, unpadded.Data)

	second, ok := req.History[1].(ImageTurn)
	require.True(t, ok)
	assert.Equal(t, "image/png", second.Image.MIMEType)
}

func TestWireRequest_RejectsBadImage(t *testing.T) {
	wire := WireRequest{
		HistoryMessages: []WireTurn{
			{Role: "user", Image: &WireImage{Base64: "not base64!"}},
		},
	}

	_, err := wire.Request()
	assert.Error(t, err)

	wire.HistoryMessages[0].Image.Base64 = ""
	_, err = wire.Request()
	assert.Error(t, err)
}

func TestToWire(t *testing.T) {
	wt := ToWire(ImageTurn{From: RoleUser, Content: "x", Image: Image{Data: []byte{0, 0}, MIMEType: "image/png"}})
	require.NotNil(t, wt.Image)
	assert.Equal(t, "AAA=", wt.Image.Base64)
	assert.Equal(t, "image/png", wt.Image.MimeType)
	assert.Equal(t, "user", wt.Role)

	wt = ToWire(TextTurn{From: RoleModel, Content: "ok"})
	assert.Nil(t, wt.Image)
	assert.Equal(t, "ok", wt.Parts)
}

func TestNewImage(t *testing.T) {
	assert.Equal(t, "image/png", NewImage(pngHeader, "").MIMEType)
	assert.Equal(t, "image/webp", NewImage(pngHeader, "image/webp").MIMEType)
	assert.Equal(t, "application/octet-stream", NewImage([]byte{0, 1, 2, 3}, "").MIMEType)
}
