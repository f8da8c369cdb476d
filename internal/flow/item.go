package flow

// Action names a callback the launcher invokes when an item is selected.
type Action string

// The closed set of callbacks the plugin emits.
const (
	// ActionConfigure asks the launcher to open the plugin settings.
	ActionConfigure Action = "set_config"
	// ActionCreateTask creates a task; args are (title, due date or nil).
	ActionCreateTask Action = "create_task"
	// ActionSetDefaultList stores a default list; args are (list id).
	ActionSetDefaultList Action = "set_default_list"
)

// Callback is the action attached to a result item.
type Callback struct {
	Name Action
	Args []any
}

// Item is one row in the launcher's result list.
type Item struct {
	Title    string
	Subtitle string
	Icon     string
	Callback *Callback
}

// NewCallback builds a callback for action with the given arguments.
func NewCallback(action Action, args ...any) *Callback {
	if args == nil {
		args = []any{}
	}
	return &Callback{Name: action, Args: args}
}
