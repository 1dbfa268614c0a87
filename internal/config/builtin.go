package config

// BuiltinApplets returns the built-in start menu catalog.
//
// These are always available without being defined in YAML. Users can patch
// them, hide them, or add applets of their own.
func BuiltinApplets() map[string]Applet {
	return map[string]Applet{
		"works": {
			Title: "Works", Icon: "icons/works.png", Type: "works", Order: 10,
			Width: 520, Height: 380,
		},
		"chapters": {
			Title: "Chapters", Icon: "icons/chapters.png", Type: "chapters", Order: 20,
			Width: 640, Height: 480, MinWidth: 320, MinHeight: 240,
		},
		"characters": {
			Title: "Characters", Icon: "icons/characters.png", Type: "characters", Order: 30,
			Width: 520, Height: 420,
		},
		"relationships": {
			Title: "Relationships", Icon: "icons/relationships.png", Type: "relationships", Order: 40,
			Width: 600, Height: 440,
		},
		"events": {
			Title: "Events", Icon: "icons/events.png", Type: "events", Order: 50,
			Width: 520, Height: 380,
		},
		"timelines": {
			Title: "Timelines", Icon: "icons/timelines.png", Type: "timelines", Order: 60,
			Width: 720, Height: 360, MinWidth: 360,
		},
		"world-notes": {
			Title: "World Notes", Icon: "icons/world-notes.png", Type: "world-notes", Order: 70,
			Width: 560, Height: 420,
		},
		"ai-chat": {
			Title: "AI Chat", Icon: "icons/ai-chat.png", Type: "ai-chat", Order: 80,
			Width: 420, Height: 520, MinWidth: 280, MinHeight: 320,
		},
	}
}
