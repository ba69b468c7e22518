// Package aisdk defines the wire types for the upstream chat-completions API.
package aisdk

import (
	"encoding/json"
	"fmt"
)

// Message represents a single message in a conversation.
// Content is either a plain string or, for multimodal user messages,
// an array of ContentPart values.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// NewTextMessage creates a message with plain text content.
func NewTextMessage(role, text string) *Message {
	return &Message{Role: role, Content: text}
}

// NewMultipartMessage creates a message carrying a content-part array.
func NewMultipartMessage(role string, parts ...ContentPart) *Message {
	return &Message{Role: role, Content: parts}
}

// Text returns the message content when it is a plain string.
func (m *Message) Text() string {
	if s, ok := m.Content.(string); ok {
		return s
	}
	return ""
}

// ChatCompletionRequest represents a request to the chat completions endpoint.
type ChatCompletionRequest struct {
	Model            string     `json:"model"`
	Messages         []*Message `json:"messages"`
	MaxTokens        *int       `json:"max_tokens,omitempty"`
	Temperature      *float64   `json:"temperature,omitempty"`
	TopP             *float64   `json:"top_p,omitempty"`
	FrequencyPenalty *float64   `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64   `json:"presence_penalty,omitempty"`
}

// ChatCompletionResponse represents a response from the chat completions endpoint.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage is the assistant message inside a completion choice.
// Unlike Message, its content is always a plain string on the wire.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Text extracts the first choice's content.
func (r *ChatCompletionResponse) Text() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}
	return r.Choices[0].Message.Content, nil
}

// Error represents an API error payload.
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

// ErrorResponse wraps an error returned by the API.
// Matches the OpenRouter format: {"error":{"message":"...","code":"..."}}.
type ErrorResponse struct {
	Error Error `json:"error"`
}

// UnmarshalJSON accepts either a string or a numeric code, since providers
// behind the gateway disagree on the field's type.
func (e *Error) UnmarshalJSON(data []byte) error {
	type alias struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code,omitempty"`
		Param   string          `json:"param,omitempty"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	e.Message = a.Message
	e.Type = a.Type
	e.Param = a.Param
	if len(a.Code) > 0 {
		var s string
		if err := json.Unmarshal(a.Code, &s); err == nil {
			e.Code = s
		} else {
			e.Code = string(a.Code)
		}
	}
	return nil
}
