// Package migrate holds the record transformations shared by every pass:
// projecting raw input down to question/answer pairs, classifying code-like
// text, and enriching pairs into store-ready study documents.
package migrate

import "github.com/mesh-intelligence/evermind-migrate/pkg/types"

// Project reduces each record to its question and answer. The result has
// the same length and order as records. Missing or non-string values become
// the empty string; a boolean isCode is carried along for enrichers that
// preserve it but is never written by the extract pass.
func Project(records []map[string]any) []types.RawQA {
	out := make([]types.RawQA, len(records))
	for i, rec := range records {
		out[i] = ProjectOne(rec)
	}
	return out
}

// ProjectOne projects a single record.
func ProjectOne(rec map[string]any) types.RawQA {
	qa := types.RawQA{
		Question: stringField(rec, types.KeyQuestion),
		Answer:   stringField(rec, types.KeyAnswer),
	}
	if v, ok := rec[types.KeyIsCode].(bool); ok {
		qa.IsCode = &v
	}
	return qa
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}
