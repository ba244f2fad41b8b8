package booking

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// forward lists the only legal successor of each non-terminal status, besides
// cancellation.
var forward = map[Status]Status{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusInProgress,
	StatusInProgress: StatusCompleted,
}

func InitialStatus() Status {
	return StatusPending
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Modifiable reports whether cancellation and rescheduling are still allowed.
func (s Status) Modifiable() bool {
	return s == StatusPending || s == StatusConfirmed
}

func CanAdvance(from, to Status) error {
	if next, ok := forward[from]; ok && next == to {
		return nil
	}
	return ErrInvalidStateTransition
}

func CanCancel(current Status) error {
	if !current.Modifiable() {
		return ErrInvalidStateTransition
	}
	return nil
}
