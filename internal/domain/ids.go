package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID generates a locally unique id: prefix, unix milliseconds and a random suffix
func NewID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}

// ValidID reports whether an id is usable as a collection key
func ValidID(id string) bool {
	return id != "" && len(id) <= 128 && !strings.ContainsAny(id, " \t\n/")
}
