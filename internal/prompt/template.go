// Package prompt fills the fixed question-answering template sent to the model.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	contextPlaceholder  = "{context}"
	questionPlaceholder = "{question}"
)

// DefaultText is the template used when no override is configured.
const DefaultText = `
Answer the question below.

Here is the conversation history:
{context}

Question:
{question}

Answer:
`

var ErrMissingPlaceholder = errors.New("template must contain {context} and {question}")

// Template is an immutable prompt with a conversation-history slot and a
// question slot.
type Template struct {
	text string
}

// Default returns the built-in template.
func Default() Template {
	return Template{text: DefaultText}
}

// New validates text and wraps it as a Template.
func New(text string) (Template, error) {
	if !strings.Contains(text, contextPlaceholder) || !strings.Contains(text, questionPlaceholder) {
		return Template{}, ErrMissingPlaceholder
	}
	return Template{text: text}, nil
}

// Load reads a template from path. An empty path yields Default.
func Load(path string) (Template, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read prompt template: %w", err)
	}
	t, err := New(string(raw))
	if err != nil {
		return Template{}, fmt.Errorf("prompt template %s: %w", path, err)
	}
	return t, nil
}

// Format substitutes both placeholders in a single pass, so placeholder-like
// text inside the values is left as is.
func (t Template) Format(context, question string) string {
	r := strings.NewReplacer(
		contextPlaceholder, context,
		questionPlaceholder, question,
	)
	return r.Replace(t.text)
}

func (t Template) String() string { return t.text }
