package vikunja

// List represents a Vikunja task list
type List struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Task represents a task returned by Vikunja after creation
type Task struct {
	ID      int64
	Title   string
	ListID  int64
	DueDate string // as sent, "" when absent
}

// TaskInput represents the input for creating a task
type TaskInput struct {
	Title   string
	ListID  int64
	DueDate string // "YYYY-MM-DD" or "" for no due date
}

// createTaskRequest is the body for POST /tasks.
type createTaskRequest struct {
	Title   string  `json:"title"`
	ListID  int64   `json:"list_id"`
	DueDate *string `json:"due_date"`
}

// toCreateTaskRequest converts a TaskInput to the wire body; an empty due
// date is sent as null.
func toCreateTaskRequest(input TaskInput) createTaskRequest {
	req := createTaskRequest{
		Title:  input.Title,
		ListID: input.ListID,
	}
	if input.DueDate != "" {
		due := input.DueDate
		req.DueDate = &due
	}
	return req
}
