// Package jsonfile reads and writes the JSON array files exchanged between
// passes. Writes are atomic: a failed run never leaves a partial file.
package jsonfile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// indent is the per-level indentation of written files.
const indent = "  "

// ReadArray reads a file whose top level is a JSON array of objects.
// Elements that are not objects come back as empty maps so field lookups
// default to the empty string. Returns ErrNotArray when the top level is
// anything other than an array.
func ReadArray(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeArray(data)
}

// DecodeArray is ReadArray over bytes already in memory.
func DecodeArray(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, types.ErrNotArray
	}

	var elems []any
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("parsing array: %w", err)
	}

	records := make([]map[string]any, len(elems))
	for i, el := range elems {
		obj, ok := el.(map[string]any)
		if !ok {
			obj = map[string]any{}
		}
		records[i] = obj
	}
	return records, nil
}

// Encode renders v as a 2-space indented JSON document with a trailing
// newline. Non-ASCII text and <, >, & are written literally.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteArray encodes v with Encode and replaces path atomically.
func WriteArray(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeAtomic(path, data)
}

// EncodeQuestions renders each question as relaxed MongoDB extended JSON:
// ObjectIDs as {"$oid": ...} and dates as {"$date": ...}, keeping the
// document field order. The result is suitable for mongoimport --jsonArray.
func EncodeQuestions(qs []types.Question) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(qs))
	for i := range qs {
		b, err := bson.MarshalExtJSON(qs[i].Document(), false, false)
		if err != nil {
			return nil, fmt.Errorf("encoding question %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

// writeAtomic writes data using the temp-file, fsync, rename pattern.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".evermind-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing data: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
