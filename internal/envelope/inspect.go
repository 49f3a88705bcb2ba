package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSON renders a Document as compact JSON, the form Inspect/Patch operate on.
func (d *Document) JSON() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("envelope: marshal document: %w", err)
	}
	return string(raw), nil
}

// PrettyJSON renders a Document as indented JSON for terminal inspection,
// mirroring the "describe" CLI output. No color is applied.
func PrettyJSON(doc *Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("envelope: marshal document: %w", err)
	}
	return string(pretty.Pretty(raw)), nil
}

// Inspect extracts a single value from a fixture's JSON form by gjson path,
// e.g. "methods.0.instructions.3.op". Returns the empty string if the path
// has no match.
func Inspect(jsonBlob, path string) string {
	return gjson.Get(jsonBlob, path).String()
}

// Patch sets a single value in a fixture's JSON form by sjson path and
// returns the modified document. The input is returned unchanged if the
// path cannot be set.
func Patch(jsonBlob, path string, value any) string {
	out, err := sjson.Set(jsonBlob, path, value)
	if err != nil {
		return jsonBlob
	}
	return out
}
