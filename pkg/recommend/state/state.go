package state

// State is the single mutable record threaded through one recommendation
// pipeline run. Created fresh per user turn; cross-turn memory is injected
// as conversation history, never stored here.
type State struct {
	UserQuery string // raw, then overwritten by the intent normalizer
	SessionID string // conversational-memory partition key, immutable

	Intent   string
	Keywords []string

	AvailableColumns    []string // populated by the schema snapshot, read-only after
	AvailableCategories []string // <=20 values, prompt context only
	SampleProducts      []string // <=10 values, prompt context only

	SQLQuery string // single statement written by the synthesizer

	ValidationErrors []string // empty means pass

	// ResultColumns preserves the store's column order; Go maps cannot.
	ResultColumns []string
	QueryResults  []map[string]any

	FormattedResponse string
	ErrorMessage      string
}

// Failed reports whether a stage must no-op and pass the state through.
func (s *State) Failed() bool {
	return s.ErrorMessage != "" || len(s.ValidationErrors) > 0
}

func New(userQuery, sessionID string) *State {
	return &State{
		UserQuery: userQuery,
		SessionID: sessionID,
	}
}
