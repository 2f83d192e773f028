package models

import "testing"

func TestTranscript_Empty(t *testing.T) {
	tr := NewTranscript()

	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
	if _, ok := tr.Last(); ok {
		t.Error("Last() on empty transcript should report false")
	}
	if _, ok := tr.LastAssistant(); ok {
		t.Error("LastAssistant() on empty transcript should report false")
	}

	// must not panic
	tr.SetLastContent("ignored")
	if tr.Len() != 0 {
		t.Error("SetLastContent should not add turns")
	}
}

func TestTranscript_AppendAndSetLast(t *testing.T) {
	tr := NewTranscript()
	tr.Append(UserTurn("hi"), AssistantTurn(""))

	tr.SetLastContent("Hi")
	tr.SetLastContent("Hi there")

	last, ok := tr.Last()
	if !ok {
		t.Fatal("Last() should report true")
	}
	if last.Role != RoleAssistant || last.Content != "Hi there" {
		t.Errorf("Last() = %+v", last)
	}

	reply, ok := tr.LastAssistant()
	if !ok || reply != "Hi there" {
		t.Errorf("LastAssistant() = %q, %v", reply, ok)
	}
}

func TestTranscript_TurnsIsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(UserTurn("original"))

	turns := tr.Turns()
	turns[0].Content = "mutated"

	if got := tr.Turns()[0].Content; got != "original" {
		t.Errorf("transcript was mutated through Turns(): %q", got)
	}
}

func TestTranscript_Clear(t *testing.T) {
	tr := NewTranscript()
	tr.Append(UserTurn("a"), AssistantTurn("b"))
	tr.Clear()

	if tr.Len() != 0 {
		t.Errorf("Len() after Clear = %d", tr.Len())
	}
	if tr.Turns() == nil {
		t.Error("Turns() should return an empty slice, not nil")
	}
}
