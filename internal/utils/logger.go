package utils

import (
	"log"
	"strings"
)

// LogEvent prints one structured line per seat/booking action. Keep the
// message short and free of passenger data.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(strings.TrimSpace(module)),
		action,
		strings.TrimSpace(requestID),
		message,
	)
}
