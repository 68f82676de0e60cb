// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All calls to the todo API go through this interface.
// Commands and the state store never import the HTTP client directly.
type Service interface {
	// ListTasks returns every task in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask submits a new task and returns the server's copy,
	// including the assigned ID and creation time.
	CreateTask(ctx context.Context, task NewTask) (Task, error)

	// UpdateTask replaces a task with the given full body and returns
	// the server's copy.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// DeleteTask deletes a task. The backend is not required to return a body.
	DeleteTask(ctx context.Context, id ID) error
}
