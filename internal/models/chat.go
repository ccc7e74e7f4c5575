package models

// Roles accepted in a conversation turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// InlineData is a base64 encoded blob, typically a photo of a math problem.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Part is one piece of a turn. Text is the common case.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// Turn represents a single role-tagged message in a conversation.
type Turn struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// TextTurn builds a turn holding a single text part.
func TextTurn(role, text string) Turn {
	return Turn{Role: role, Parts: []Part{{Text: text}}}
}

// TutorRequest is the payload sent to the tutor endpoint.
type TutorRequest struct {
	History []Turn `json:"history"`
}

// TutorResponse carries the model's answer.
type TutorResponse struct {
	Answer string `json:"answer"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
