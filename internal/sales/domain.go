package sales

import (
	"fmt"
	"time"
)

// Status is the pipeline state of a sale. Any status may move to any
// other status directly, including re-selecting the current one; only
// the value itself is validated.
type Status string

const (
	StatusNotCalled Status = "not called"
	StatusCalled    Status = "called"
	StatusInstalled Status = "installed"
	StatusAnnulled  Status = "annulled"
)

// ParseStatus validates a raw status string against the four known
// pipeline values.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusNotCalled, StatusCalled, StatusInstalled, StatusAnnulled:
		return Status(raw), nil
	}
	return "", fmt.Errorf("%w: '%s'", ErrInvalidStatus, raw)
}

// Sale represents a tracked lead in the system. ID and CreatedAt are
// assigned by the storage backend; UserID is set at creation and never
// changes. After creation only Status is mutable.
type Sale struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Number      string    `json:"number"`
	InstallDate time.Time `json:"install_date"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id"`
}
