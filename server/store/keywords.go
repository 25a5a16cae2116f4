package store

import (
	"encoding/json"
	"strings"
)

func encodeKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	trimmed := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		value := strings.TrimSpace(kw)
		if value == "" {
			continue
		}
		trimmed = append(trimmed, value)
	}
	if len(trimmed) == 0 {
		return ""
	}
	raw, err := json.Marshal(trimmed)
	if err != nil {
		return ""
	}
	return string(raw)
}

func decodeKeywords(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(trimmed), &keywords); err != nil {
		return nil
	}
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		value := strings.TrimSpace(kw)
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}
