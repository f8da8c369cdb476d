package instrumentation

// Cardinality management helpers for metrics.
// The launcher passes arbitrary method names; only known ones become label values.

// Vikunja API operations.
const (
	OperationCreateTask = "create_task"
	OperationListLists  = "lists"
)

// MethodOther is the label value for unrecognized launcher methods.
const MethodOther = "other"

var knownMethods = map[string]bool{
	"query":            true,
	"create_task":      true,
	"set_default_list": true,
	"set_config":       true,
	"context_menu":     true,
}

// NormalizeMethod returns method if it is a known launcher method and
// MethodOther otherwise.
//
// Example:
//
//	NormalizeMethod("query")        // "query"
//	NormalizeMethod("drop_tables")  // "other"
func NormalizeMethod(method string) string {
	if knownMethods[method] {
		return method
	}
	return MethodOther
}
