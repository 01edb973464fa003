package questions

import (
	"encoding/json"
	"regexp"
	"strings"

	"interview-backend/internal/llm"
)

var (
	listMarker = regexp.MustCompile(`^(?:(?:[-*•·]+|\(?\d{1,2}[.):]|[Qq]\d{1,2}\s*[:.)-]|(?:Question|Soru)\s*\d{1,2}\s*[:.)-])\s*)+`)
	quotePairs = []string{`"`, `'`, "“", "”", "‘", "’", "`", "*"}
)

// ParseJSON accepts a JSON array of strings, an array of objects carrying the
// text under text/question/question_text, or an object with a questions array.
func ParseJSON(raw string) ([]string, bool) {
	if body, ok := llm.ExtractJSON(raw, '[', ']'); ok && !startsWithObject(raw) {
		if items := decodeItems([]byte(body)); len(items) > 0 {
			return items, true
		}
	}
	if body, ok := llm.ExtractJSON(raw, '{', '}'); ok {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(body), &wrapper); err == nil {
			for _, key := range []string{"questions", "Questions", "items"} {
				if inner, ok := wrapper[key]; ok {
					if items := decodeItems(inner); len(items) > 0 {
						return items, true
					}
				}
			}
		}
	}
	return nil, false
}

func startsWithObject(raw string) bool {
	clean := llm.StripCodeFences(raw)
	obj := strings.IndexByte(clean, '{')
	arr := strings.IndexByte(clean, '[')
	return obj != -1 && (arr == -1 || obj < arr)
}

func decodeItems(data []byte) []string {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var text string
		switch v := item.(type) {
		case string:
			text = v
		case map[string]any:
			for _, key := range []string{"text", "question", "question_text"} {
				if s := llm.CoerceString(v[key]); s != "" {
					text = s
					break
				}
			}
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// ParseLines splits free text into candidate questions, dropping list
// markers, surrounding quotes and header lines. When any line carries a list
// marker, unmarked lines are treated as prose and dropped.
func ParseLines(raw string) []string {
	raw = llm.StripCodeFences(raw)
	var marked, all []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		stripped := listMarker.ReplaceAllString(line, "")
		hasMarker := stripped != line
		line = strings.TrimSpace(stripped)
		line = strings.TrimRight(line, ",")
		line = trimQuotes(line)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		if strings.Trim(line, "[]{}") == "" {
			continue
		}
		all = append(all, line)
		if hasMarker {
			marked = append(marked, line)
		}
	}
	if len(marked) > 0 {
		return marked
	}
	return all
}

func trimQuotes(s string) string {
	for {
		trimmed := false
		for _, q := range quotePairs {
			if strings.HasPrefix(s, q) {
				s = strings.TrimPrefix(s, q)
				trimmed = true
			}
			if strings.HasSuffix(s, q) {
				s = strings.TrimSuffix(s, q)
				trimmed = true
			}
		}
		s = strings.TrimSpace(s)
		if !trimmed || s == "" {
			return s
		}
	}
}

// normalize truncates or pads questions to exactly Count unique entries,
// padding from the template set.
func normalize(questions []string) []string {
	out := make([]string, 0, Count)
	seen := make(map[string]struct{}, Count)
	add := func(q string) {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" || len(out) == Count {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	for _, q := range questions {
		add(q)
	}
	for _, q := range templateQuestions {
		add(q)
	}
	return out
}
