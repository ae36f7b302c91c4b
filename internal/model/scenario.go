package model

// Scenario is a named sensitive-question trigger rule. Scenarios are evaluated
// by descending priority before any FAQ lookup; the first keyword containment
// wins outright.
type Scenario struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Keywords          []string `json:"keywords"`
	ResponseTemplate  string   `json:"response_template"`
	RequiresEscalation bool    `json:"requires_escalation"`
	NotifyOperators   bool     `json:"notify_operators"`
	RedirectToSupport bool     `json:"redirect_to_support"`
	Priority          int      `json:"priority"`
	Active            bool     `json:"active"`
}

// ScenarioMatch is the result of the sensitive-scenario detector.
type ScenarioMatch struct {
	Scenario *Scenario
	Keyword  string
}
