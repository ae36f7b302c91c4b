package model

// Turn outcome constants. Exactly one terminal outcome is reached per turn.
const (
	OutcomeAnswered  = "answered"
	OutcomeEscalated = "escalated"
	OutcomeFallback  = "fallback"
)

// ClientContext carries environment attributes used to derive an anonymous
// session fingerprint. None of it is a security boundary.
type ClientContext struct {
	UserAgent    string `json:"user_agent"`
	Language     string `json:"language"`
	ScreenWidth  int    `json:"screen_width,omitempty"`
	ScreenHeight int    `json:"screen_height,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
}

// AskRequest is the engine's inbound boundary.
type AskRequest struct {
	Question      string        `json:"question"`
	SessionID     string        `json:"session_id,omitempty"`
	CallerID      string        `json:"-"`
	Audience      Audience      `json:"-"`
	CurrentPage   string        `json:"current_page"`
	ClientContext ClientContext `json:"client_context"`
}

// SuggestedAction is a follow-up action offered alongside a response.
type SuggestedAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	URL    string `json:"url,omitempty"`
}

// AskResponse is the engine's outbound boundary. The caller always receives
// a natural-language answer, whatever happened internally.
type AskResponse struct {
	Answer           string            `json:"answer"`
	Confidence       float64           `json:"confidence"`
	Category         string            `json:"category,omitempty"`
	MatchedAnswerID  string            `json:"matched_answer_id,omitempty"`
	SessionID        string            `json:"session_id,omitempty"`
	Outcome          string            `json:"outcome"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
}

// SuggestedQuestionsResponse lists starter questions for the widget.
type SuggestedQuestionsResponse struct {
	Questions []string `json:"questions"`
}
