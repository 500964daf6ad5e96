package msgfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/five82/sqsnav/internal/config"
)

// Body is a message body read from disk.
type Body struct {
	Path string
	Text string
	// Stripped is true when comments or trailing commas were removed.
	Stripped bool
}

// Load reads the message body stored at path. Valid JSON is returned as
// written. JSONC (a .jsonc extension, or content that only parses once
// comments and trailing commas are removed) is returned as compact JSON.
// Anything else is returned verbatim.
func Load(path string) (Body, error) {
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return Body{}, fmt.Errorf("message file %q: %w", path, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Body{}, fmt.Errorf("reading %s: %w", resolved, err)
	}

	body := Body{Path: resolved, Text: string(data)}
	if json.Valid(data) {
		return body, nil
	}

	stripped := jsonc.ToJSON(data)
	if !json.Valid(stripped) {
		if strings.EqualFold(filepath.Ext(resolved), ".jsonc") {
			return Body{}, fmt.Errorf("%s: invalid JSONC", resolved)
		}
		return body, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, stripped); err != nil {
		return Body{}, fmt.Errorf("%s: %w", resolved, err)
	}
	body.Text = buf.String()
	body.Stripped = true
	return body, nil
}

// IsJSON reports whether text is a JSON object or array.
func IsJSON(text string) bool {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return false
	}
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// Pretty indents a JSON body for display. Non-JSON text is returned unchanged.
func Pretty(text string) string {
	if !IsJSON(text) {
		return text
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", "  "); err != nil {
		return text
	}
	return buf.String()
}
