package core

import "testing"

func TestSession_ApplyStateDeltaAndClone(t *testing.T) {
	s := NewSession("s1")

	s.ApplyStateDelta(map[string]any{"a": 1, "b": "x"})
	if v, ok := s.GetState("a"); !ok || v.(int) != 1 {
		t.Fatalf("state not applied: %+v", s.State)
	}

	clone := s.Clone()
	if clone == s {
		t.Error("clone should be a different pointer")
	}

	clone.SetState("c", 2)
	if _, exists := s.GetState("c"); exists {
		t.Error("original should not see the clone's new key")
	}
}

func TestSession_AddEventAndHistory(t *testing.T) {
	user := NewTextContent("user", "hi")
	userEv := NewUserContentEvent("run-1", &user)
	assistantEv := NewMessageEvent("run-1", "IdeaAgent", "hello")

	partial := true
	fragment := NewMessageEvent("run-1", "IdeaAgent", "hel")
	fragment.Partial = &partial

	s := NewSession("s2")
	s.AddEvent(userEv)
	s.AddEvent(fragment)
	s.AddEvent(assistantEv)

	all := s.GetEvents()
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}

	all[0].Author = "changed"
	if s.GetEvents()[0].Author != "user" {
		t.Error("events slice should be copied on read")
	}

	history := s.GetConversationHistory()
	if len(history) != 2 {
		t.Fatalf("expected partial fragment to be excluded, got %d events", len(history))
	}
	if history[1].Text() != "hello" {
		t.Errorf("unexpected history tail %q", history[1].Text())
	}
}
