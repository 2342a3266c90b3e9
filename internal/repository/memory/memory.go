// Package memory holds map-backed repositories. They keep the same
// contracts as the postgresql repositories and back the service and handler
// tests.
package memory

import (
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func now() time.Time {
	return time.Now().UTC()
}
