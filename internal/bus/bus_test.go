package bus

import "testing"

func TestMessageMatches(t *testing.T) {
	tests := []struct {
		name  string
		msg   Message
		mode  MatchMode
		title string
		typ   string
		want  bool
	}{
		{"name match", Message{WindowName: "Editor"}, MatchEither, "Editor", "doc", true},
		{"name mismatch", Message{WindowName: "Editor"}, MatchEither, "Preview", "doc", false},
		{"type only either", Message{WindowType: "doc"}, MatchEither, "Preview", "doc", true},
		{"type only, window untyped", Message{WindowType: "doc"}, MatchEither, "Preview", "", false},
		{"type only, name mode", Message{WindowType: "doc"}, MatchName, "Preview", "doc", false},
		{"name, type mode", Message{WindowName: "Editor"}, MatchType, "Editor", "doc", false},
		{"type mode", Message{WindowName: "X", WindowType: "doc"}, MatchType, "Editor", "doc", true},
		{"empty message", Message{}, MatchEither, "Editor", "doc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Matches(tt.mode, tt.title, tt.typ); got != tt.want {
				t.Errorf("Matches(%q, %q, %q) = %v, want %v", tt.mode, tt.title, tt.typ, got, tt.want)
			}
		})
	}
}

func TestPublish_DeliversOncePerListener(t *testing.T) {
	b := New()
	calls := map[string]int{}
	for _, name := range []string{"a", "b", "c"} {
		name := name
		b.Subscribe(ListenerFunc(func(msg Message) bool {
			calls[name]++
			return msg.WindowName == name
		}))
	}

	handled := b.Publish(Message{Kind: KindBringToFront, WindowName: "b"})
	if handled != 1 {
		t.Fatalf("expected 1 handler, got %d", handled)
	}
	for _, name := range []string{"a", "b", "c"} {
		if calls[name] != 1 {
			t.Fatalf("listener %s called %d times", name, calls[name])
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	called := 0
	unsub := b.Subscribe(ListenerFunc(func(Message) bool { called++; return true }))
	unsub()
	unsub()

	if n := b.Publish(Message{Kind: KindRestore, WindowName: "x"}); n != 0 {
		t.Fatalf("expected no handlers, got %d", n)
	}
	if called != 0 || b.Len() != 0 {
		t.Fatalf("expected listener removed, called=%d len=%d", called, b.Len())
	}
}

func TestPublish_ListenerMayUnsubscribeItself(t *testing.T) {
	b := New()
	var unsub func()
	unsub = b.Subscribe(ListenerFunc(func(Message) bool {
		unsub()
		return true
	}))
	if n := b.Publish(Message{Kind: KindRestore}); n != 1 {
		t.Fatalf("expected 1 handler, got %d", n)
	}
	if b.Len() != 0 {
		t.Fatalf("expected listener to be gone, len=%d", b.Len())
	}
}

func TestParseMatchMode(t *testing.T) {
	for _, s := range []string{"name", "type", "either"} {
		if _, err := ParseMatchMode(s); err != nil {
			t.Fatalf("ParseMatchMode(%q): %v", s, err)
		}
	}
	if _, err := ParseMatchMode("any"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
