package migrate

import "testing"

func TestIsCode(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		want     bool
	}{
		{"function keyword", "What is a closure?", "A function that captures variables.", true},
		{"uppercase function", "FUNCTION pointers?", "", true},
		{"plain fact", "Capital of France?", "Paris", false},
		{"empty", "", "", false},
		{"const with trailing space", "const x = 1", "", true},
		{"const without space", "constant", "value", false},
		{"console.log", "", "Console.Log('hi')", true},
		{"html tag", "Wrap it in <DIV>", "", true},
		{"script tag", "", "<script>alert(1)</script>", true},
		{"if paren", "", "if (x) {}", true},
		{"if without paren", "", "if x then y", false},
		{"c++", "Is C++ fast?", "yes", true},
		{"java matches javascript too", "JavaScript", "", true},
		{"css substring", "What does CSS stand for?", "Cascading Style Sheets", true},
		{"english class false positive", "Which class of animals?", "mammals", true},
		{"separator completes keyword", "def", "ine", true},
		{"keyword split without boundary", "de", "f x", false},
		{"joined by space", "return", "value", true},
		{"syntax", "Explain the syntax", "", true},
		{"unicode plain", "Qu'est-ce que l'été?", "Une saison", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.question, tt.answer); got != tt.want {
				t.Errorf("IsCode(%q, %q) = %v, want %v", tt.question, tt.answer, got, tt.want)
			}
		})
	}
}

func TestIsCodeEveryKeywordMatches(t *testing.T) {
	for _, kw := range codeKeywords {
		if !IsCode("prefix "+kw+" suffix", "") {
			t.Errorf("keyword %q did not classify as code", kw)
		}
	}
}
