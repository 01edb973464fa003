package analyses

import (
	"encoding/json"
	"fmt"
	"strings"

	"interview-backend/internal/llm"
)

const (
	maxSkills  = 25
	maxEntries = 10
)

// entryKeys are read, in order, when a model returns list items as objects.
var entryKeys = []string{"title", "role", "position", "degree", "field", "company", "institution", "school", "period", "years", "description"}

// ParseAnalysis decodes a provider reply. Keys are matched case-insensitively,
// list items may be strings or objects, and a reply with no usable field is
// malformed.
func ParseAnalysis(raw string) (Analysis, error) {
	body, ok := llm.ExtractJSON(raw, '{', '}')
	if !ok {
		return Analysis{}, fmt.Errorf("%w: no json object", ErrMalformedOutput)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	fields := make(map[string]any, len(decoded))
	for k, v := range decoded {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	out := Analysis{
		Skills:     entries(fields["skills"], maxSkills),
		Experience: entries(fields["experience"], maxEntries),
		Education:  entries(fields["education"], maxEntries),
		Summary:    llm.CoerceString(fields["summary"]),
	}
	if len(out.Skills) == 0 && len(out.Experience) == 0 && len(out.Education) == 0 && out.Summary == "" {
		return Analysis{}, fmt.Errorf("%w: no analysis fields", ErrMalformedOutput)
	}
	return out, nil
}

func entries(v any, limit int) []string {
	items, ok := v.([]any)
	if !ok {
		if out := llm.CoerceStrings(v, limit); out != nil {
			return out
		}
		return []string{}
	}
	flat := make([]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			flat = append(flat, describe(obj))
			continue
		}
		flat = append(flat, item)
	}
	out := llm.CoerceStrings(flat, limit)
	if out == nil {
		return []string{}
	}
	return dedupe(out)
}

func describe(obj map[string]any) string {
	parts := make([]string, 0, len(entryKeys))
	for _, key := range entryKeys {
		if s := llm.CoerceString(obj[key]); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
