package service

import (
	"encoding/json"
	"strings"
)

// parseStringList decodes a JSON string-array column. Blob columns are
// presentation data, so any decode failure yields the empty list rather
// than an error.
func parseStringList(raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(*raw), &list); err != nil {
		return []string{}
	}
	return list
}

func firstOrNil(list []string) *string {
	if len(list) == 0 {
		return nil
	}
	return &list[0]
}
