package migrate

import "strings"

// codeKeywords are matched as plain substrings against lowercased text.
// The list is shared with the study application's import tooling; changing
// it changes which existing questions are tagged as code.
var codeKeywords = []string{
	"function", "const ", "var ", "let ", "class ", "def ",
	"import ", "export ", "console.log", "return ", "if (",
	"for (", "while (", "<div>", "<script>", "css", "html",
	"javascript", "python", "java", "c++", "code", "syntax",
}

// IsCode reports whether the question/answer pair looks like programming
// material. It is a keyword heuristic: "class " in plain English matches.
func IsCode(question, answer string) bool {
	text := strings.ToLower(question + " " + answer)
	for _, kw := range codeKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
