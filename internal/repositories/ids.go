package repositories

import "github.com/google/uuid"

// newID returns a time-ordered UUIDv7 so ordering by ID follows insertion.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
