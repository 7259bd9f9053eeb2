package models

import (
	"fmt"
	"strings"
)

// keyJoin renders composite document-style keys as "<userID>_<part>_<part>".
func keyJoin(userID uint, parts ...string) string {
	return fmt.Sprintf("%d_%s", userID, strings.Join(parts, "_"))
}
