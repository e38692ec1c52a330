package models

import "time"

// Project is a client project on the freelancer dashboard.
type Project struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Client      string     `json:"client,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// Task belongs to a project.
type Task struct {
	ID        string     `json:"_id"`
	ProjectID string     `json:"project"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
}

// TaskSummary aggregates task counts across the user's projects.
type TaskSummary struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}
