package llm

// Kind tags the shape of a completion result.
type Kind int

const (
	// KindText is a bare string completion.
	KindText Kind = iota
	// KindMessage is a chat message with a role and a text content field.
	KindMessage
)

// Message is a structured chat reply.
type Message struct {
	Role    string
	Content string
}

// Result is what a Client returns for one prompt.
type Result struct {
	Kind    Kind
	Text    string
	Message Message
	// Raw is the provider payload as received, used when a message carries
	// no text content.
	Raw string
}

func TextResult(text string) Result {
	return Result{Kind: KindText, Text: text, Raw: text}
}

func MessageResult(msg Message, raw string) Result {
	return Result{Kind: KindMessage, Message: msg, Raw: raw}
}

// Reply extracts the text to show the user.
func (r Result) Reply() string {
	switch r.Kind {
	case KindMessage:
		if r.Message.Content != "" {
			return r.Message.Content
		}
		return r.Raw
	default:
		return r.Text
	}
}
