// Package sidebar models the credential panel shown next to the chat: a
// password input whose value is owned by the caller, and two static links.
package sidebar

const (
	APIKeyURL = "https://makersuite.google.com/app/apikey"
	SourceURL = "https://github.com/WillianAgostini/chatbot-gemini"
)

// Link is a static outbound link.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Field describes the credential input.
type Field struct {
	Type        string `json:"type"`
	Placeholder string `json:"placeholder"`
}

// Panel forwards credential input to its owner. It keeps no copy of the value.
type Panel struct {
	onChange func(string)
}

// NewPanel creates a Panel that calls onChange for every input event.
func NewPanel(onChange func(string)) *Panel {
	return &Panel{onChange: onChange}
}

// Input forwards value verbatim to the change handler.
func (p *Panel) Input(value string) {
	if p.onChange != nil {
		p.onChange(value)
	}
}

// Field returns the description of the credential input.
func (p *Panel) Field() Field {
	return Field{Type: "password", Placeholder: "Gemini API key"}
}

// Links returns the credential provisioning link and the source repository link.
func (p *Panel) Links() []Link {
	return []Link{
		{Label: "Get API key", URL: APIKeyURL},
		{Label: "Star me on GitHub", URL: SourceURL},
	}
}
