package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gtodo/internal/service"
)

// idPrefix marks a reference by raw identifier, e.g. "id:42".
const idPrefix = "id:"

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num  int        // 1-based position in the rendered list
	ID   service.ID // raw identifier, set when ByID
	ByID bool       // true for "id:<id>" references
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrInvalidTaskRef indicates a reference in neither accepted form.
	ErrInvalidTaskRef = errors.New("invalid task reference")

	// ErrTaskOutOfRange indicates a position past the end of the list.
	ErrTaskOutOfRange = errors.New("task number out of range")

	// ErrTaskNotFound indicates an id that is not in the list.
	ErrTaskNotFound = errors.New("task not found")
)

// ParseTaskRef parses a task reference from args.
//
// Accepted forms:
//  1. All digits (e.g. 3) → position in the rendered list
//  2. id:<id> (e.g. id:42, id:a1b2) → raw server identifier
//
// Anything else, or extra arguments, is an invalid reference.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, strings.Join(args, " "))
	}

	arg := args[0]

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, arg)
		}
		return TaskRef{Num: num}, nil
	}

	if raw, ok := strings.CutPrefix(arg, idPrefix); ok {
		if strings.TrimSpace(raw) == "" {
			return TaskRef{}, ErrTaskRefRequired
		}
		return TaskRef{ID: service.ParseID(raw), ByID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, arg)
}

// Resolve finds the task a reference points to in tasks.
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ByID {
		for _, t := range tasks {
			if t.ID.Equal(r.ID) {
				return t, nil
			}
		}
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, r.ID)
	}

	if r.Num < 1 || r.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrTaskOutOfRange, r.Num)
	}
	return tasks[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
