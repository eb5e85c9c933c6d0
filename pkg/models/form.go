package models

// Represents the request body posted by the website contact form
type SubmissionRequest struct {
	TurnstileToken string    `json:"turnstileToken" binding:"required"`
	FormData       *FormData `json:"formData"`
}

// FormData is the lead captured by the contact form
type FormData struct {
	Name      string `json:"name" binding:"required"`
	Company   string `json:"company" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Interest  string `json:"interest" binding:"required"`
	Budget    string `json:"budget" binding:"required"`
	Source    string `json:"source,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Result is the body of every relay response
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Lead is the form data after defaults are applied, as forwarded to Mautic
type Lead struct {
	Name     string
	Company  string
	Email    string
	Interest string
	Budget   string
	Source   string
}

// Caller-facing result messages. Provider details never appear in these.
const (
	MsgSubmitted             = "Form submitted successfully!"
	ErrMsgMethodNotAllowed   = "Method not allowed"
	ErrMsgMissingToken       = "Missing verification token"
	ErrMsgMissingFields      = "Missing required fields"
	ErrMsgVerificationFailed = "Spam protection verification failed. Please try again."
	ErrMsgSubmissionFailed   = "Failed to submit form. Please try again or contact us directly."
	ErrMsgInternal           = "Internal server error. Please try again later."
)
