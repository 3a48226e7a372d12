package service

import (
	"sort"
	"strings"
)

func sortedFields(fields []string) []string {
	sort.Strings(fields)
	return fields
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
