package types

// RawQA is a question/answer pair projected from an arbitrary input record.
// Key order matches the cleaned-file layout consumed by the enrich pass.
type RawQA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`

	// IsCode is set when the input record already carried a boolean isCode.
	// It is never written to the cleaned file.
	IsCode *bool `json:"-"`
}

// Input keys read by the projector and enricher.
const (
	KeyQuestion = "question"
	KeyAnswer   = "answer"
	KeyIsCode   = "isCode"
)
