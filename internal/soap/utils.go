package soap

import (
	"github.com/google/uuid"
)

func generateID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func truncate(data []byte, max int) string {
	if len(data) <= max {
		return string(data)
	}

	return string(data[:max]) + "..."
}
