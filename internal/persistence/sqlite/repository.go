package sqlite

import "time"

const timestampLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
