package models

// Transcript is the ordered list of user/assistant turns of one UI session.
// The system turn is never stored here; it is supplied at send time.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{turns: []Turn{}}
}

// Append adds turns at the end
func (t *Transcript) Append(turns ...Turn) {
	t.turns = append(t.turns, turns...)
}

// Turns returns a copy of the stored turns
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of stored turns
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the final turn, if any
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// SetLastContent overwrites the content of the final turn.
// It is a no-op on an empty transcript.
func (t *Transcript) SetLastContent(content string) {
	if len(t.turns) == 0 {
		return
	}
	t.turns[len(t.turns)-1].Content = content
}

// LastAssistant returns the content of the most recent assistant turn
func (t *Transcript) LastAssistant() (string, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == RoleAssistant {
			return t.turns[i].Content, true
		}
	}
	return "", false
}

// Clear drops every turn
func (t *Transcript) Clear() {
	t.turns = []Turn{}
}
