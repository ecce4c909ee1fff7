package domain

// TaskState represents the progress of the upload behind one category.
type TaskState string

const (
	TaskStateIdle    TaskState = "idle"
	TaskStateLoading TaskState = "loading"
	TaskStateSuccess TaskState = "success"
	TaskStateError   TaskState = "error"
)

// Satisfied reports whether a category in this state must not be uploaded again.
func (s TaskState) Satisfied() bool {
	return s == TaskStateLoading || s == TaskStateSuccess
}

// StateChange is published to subscribers after every state mutation.
type StateChange struct {
	Generation uint64                `json:"generation"`
	States     map[Category]TaskState `json:"states"`
}
