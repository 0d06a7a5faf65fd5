package conversation

import "github.com/gabriel-vasile/mimetype"

// NewImage builds an Image. An empty mimeType is detected from data.
func NewImage(data []byte, mimeType string) Image {
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return Image{Data: data, MIMEType: mimeType}
}
