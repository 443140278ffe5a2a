package workflow

import (
	"errors"
	"fmt"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
)

var (
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrBlockedToDone       = errors.New("a blocked task cannot be completed directly")
	ErrChecklistIncomplete = errors.New("required checklist items are not done")
)

// CheckTaskTransition validates moving task to status to
func CheckTaskTransition(task domain.Task, to domain.TaskStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, to)
	}
	if to != domain.TaskStatusDone {
		return nil
	}
	if task.Status == domain.TaskStatusBlocked {
		return ErrBlockedToDone
	}
	var pending []string
	for _, item := range task.Checklist {
		if item.Required && !item.Done {
			pending = append(pending, item.Text)
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w: %d pending", ErrChecklistIncomplete, len(pending))
	}
	return nil
}
