package plugin

import (
	"errors"
	"fmt"

	"github.com/teemow/flow-vikunja/internal/cache"
	"github.com/teemow/flow-vikunja/internal/config"
	"github.com/teemow/flow-vikunja/internal/flow"
	"github.com/teemow/flow-vikunja/internal/query"
	"github.com/teemow/flow-vikunja/internal/vikunja"
)

// Result item texts shown in the launcher.
const (
	TitleNotConfigured    = "Vikunja API is not configured"
	SubtitleNotConfigured = "Use 'task configure' to set API settings."

	TitleHint    = "Create a task in Vikunja"
	SubtitleHint = "Type a task after 'task'"

	TitleTaskCreated  = "Task Created Successfully"
	TitleCreateFailed = "Failed to create task"
	TitleListsFailed  = "Failed to fetch lists"
	TitleError        = "Error"

	TitleNoDefaultList    = "No Default List Set"
	SubtitleNoDefaultList = "Use 'task lists' to choose a list."

	TitleDefaultListUpdated = "Default List Updated"
	TitleUpdateFailed       = "Error: Failed to update list"
	SubtitleUpdateFailed    = "Try again."

	TitleNoCachedLists    = "No cached lists"
	SubtitleNoCachedLists = "Use 'task lists' to fetch your lists."

	TitleConfigure = "Configure Vikunja"
)

func (r *Router) item(title, subtitle string) flow.Item {
	return flow.Item{Title: title, Subtitle: subtitle, Icon: r.icon}
}

func (r *Router) notConfiguredItem() flow.Item {
	it := r.item(TitleNotConfigured, SubtitleNotConfigured)
	it.Callback = flow.NewCallback(flow.ActionConfigure)
	return it
}

func (r *Router) previewItem(draft query.Draft) flow.Item {
	due := "None"
	var dueArg any
	if draft.HasDueDate() {
		due = draft.DueDate
		dueArg = draft.DueDate
	}
	it := r.item("Add Task: "+draft.Title, "Due Date: "+due)
	it.Callback = flow.NewCallback(flow.ActionCreateTask, draft.Title, dueArg)
	return it
}

func (r *Router) listItem(id int64, title string) flow.Item {
	it := r.item(title, fmt.Sprintf("Select this list (ID: %d)", id))
	it.Callback = flow.NewCallback(flow.ActionSetDefaultList, id)
	return it
}

func (r *Router) listItems(lists []vikunja.List) []flow.Item {
	items := make([]flow.Item, 0, len(lists))
	for _, l := range lists {
		items = append(items, r.listItem(l.ID, l.Title))
	}
	return items
}

func (r *Router) cachedItems(entries []cache.Entry) []flow.Item {
	items := make([]flow.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, r.listItem(e.ID, e.Title))
	}
	return items
}

// errorItem converts a failure into the single item shown to the user.
// failedTitle is used for rejections by the Vikunja API.
func (r *Router) errorItem(err error, failedTitle string) flow.Item {
	var (
		apiErr       *vikunja.APIError
		transportErr *vikunja.TransportError
	)
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, config.ErrInvalid):
		return r.notConfiguredItem()
	case errors.Is(err, ErrNoDefaultList):
		return r.item(TitleNoDefaultList, SubtitleNoDefaultList)
	case errors.As(err, &apiErr):
		return r.item(failedTitle, fmt.Sprintf("Error: %d %s", apiErr.StatusCode, apiErr.Body))
	case errors.As(err, &transportErr):
		return r.item(TitleError, transportErr.Err.Error())
	default:
		return r.item(TitleError, err.Error())
	}
}

// IsFailure reports whether it is one of the failure or warning items the
// router produces instead of a result.
func IsFailure(it flow.Item) bool {
	switch it.Title {
	case TitleNotConfigured, TitleNoDefaultList, TitleCreateFailed,
		TitleListsFailed, TitleError, TitleUpdateFailed:
		return true
	}
	return false
}
