// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects T into a strict JSON schema: every object closes
// additional properties and requires all of its properties, as structured
// output modes demand.
func GenerateSchema[T any]() map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	b, err := r.Reflect(v).MarshalJSON()
	if err != nil {
		panic(fmt.Sprintf("reflecting schema: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(fmt.Sprintf("decoding schema: %v", err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	makeStrict(m)
	return m
}

func makeStrict(schema map[string]any) {
	props, hasProps := schema["properties"].(map[string]any)
	if t, _ := schema["type"].(string); t == "object" {
		schema["additionalProperties"] = false
		if hasProps && len(props) > 0 {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			schema["required"] = required
		}
	}
	for _, p := range props {
		if pm, ok := p.(map[string]any); ok {
			makeStrict(pm)
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		makeStrict(items)
	}
}

// DecodeModelJSON unmarshals a model reply into v. Markdown code fences and
// prose around a single top-level object are tolerated.
func DecodeModelJSON(text string, v any) error {
	s := strings.TrimSpace(text)
	if s == "" {
		return io.ErrUnexpectedEOF
	}
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object in model output (len=%d)", len(s))
	}
	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("decoding model JSON (len=%d): %w", len(sub), err)
	}
	return nil
}

// truncate shortens s for inclusion in error messages.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
