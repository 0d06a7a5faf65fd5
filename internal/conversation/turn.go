package conversation

// Role identifies who authored a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid reports whether the role can be sent upstream as conversation history.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// Image is an attachment carried by a turn.
type Image struct {
	Data     []byte
	MIMEType string
}

// Turn is one message in a conversation. It is either a TextTurn or an ImageTurn.
type Turn interface {
	Role() Role
	Text() string
	isTurn()
}

// TextTurn is a turn with text only.
type TextTurn struct {
	From    Role
	Content string
}

func (t TextTurn) Role() Role   { return t.From }
func (t TextTurn) Text() string { return t.Content }
func (TextTurn) isTurn()        {}

// ImageTurn is a turn that carries an image, with optional accompanying text.
type ImageTurn struct {
	From    Role
	Content string
	Image   Image
}

func (t ImageTurn) Role() Role   { return t.From }
func (t ImageTurn) Text() string { return t.Content }
func (ImageTurn) isTurn()        {}

// Request is everything needed to send one message to the model.
type Request struct {
	Credential string
	Model      string
	History    []Turn
	Message    Turn
	// HasImages routes the request to the vision path. It is set by the
	// caller and is not derived from the turns.
	HasImages bool
}

// MessageText returns the text of the new message, or "" when there is none.
func (r Request) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return r.Message.Text()
}

// ContainsImages reports whether any history turn or the message is an ImageTurn.
func (r Request) ContainsImages() bool {
	if _, ok := r.Message.(ImageTurn); ok {
		return true
	}
	for _, turn := range r.History {
		if _, ok := turn.(ImageTurn); ok {
			return true
		}
	}
	return false
}

// FilterHistory keeps only user and model turns, in their original order.
func FilterHistory(turns []Turn) []Turn {
	filtered := make([]Turn, 0, len(turns))
	for _, turn := range turns {
		if turn == nil || !turn.Role().Valid() {
			continue
		}
		filtered = append(filtered, turn)
	}
	return filtered
}
