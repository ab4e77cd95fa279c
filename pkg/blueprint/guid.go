package blueprint

import (
	"strings"

	"github.com/google/uuid"
)

// NewGUID returns a fresh identifier in the host's format: 32 upper-case
// hex digits without separators.
func NewGUID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
