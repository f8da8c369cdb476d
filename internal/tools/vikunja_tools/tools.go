package vikunja_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/flow-vikunja/internal/flow"
	"github.com/teemow/flow-vikunja/internal/logging"
	"github.com/teemow/flow-vikunja/internal/plugin"
)

// resultItem is the tool-facing rendering of a launcher result item.
type resultItem struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Action   string `json:"action,omitempty"`
	Args     []any  `json:"args,omitempty"`
}

// RegisterTools registers the Vikunja tools with the MCP server. In read-only
// mode the tools that create tasks or change settings are left out.
func RegisterTools(s *mcpserver.MCPServer, router *plugin.Router, logger *slog.Logger, readOnly bool) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	queryTool := mcp.NewTool("vikunja_query",
		mcp.WithDescription("Preview how launcher text is turned into a task (title and due date). The text 'lists' fetches task lists instead."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text as typed after the launcher keyword, e.g. 'Buy milk tomorrow'"),
		),
	)
	s.AddTool(queryTool, logged("vikunja_query", logger, handleQuery(router)))

	listsTool := mcp.NewTool("vikunja_list_lists",
		mcp.WithDescription("List Vikunja task lists. Each entry carries the id to use with vikunja_set_default_list."),
		mcp.WithBoolean("cached",
			mcp.Description("Return the lists saved by the last fetch instead of calling Vikunja (default: false)"),
		),
	)
	s.AddTool(listsTool, logged("vikunja_list_lists", logger, handleListLists(router)))

	if readOnly {
		return
	}

	createTool := mcp.NewTool("vikunja_create_task",
		mcp.WithDescription("Create a task in the default Vikunja list"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The task title"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date as YYYY-MM-DD (optional)"),
		),
	)
	s.AddTool(createTool, logged("vikunja_create_task", logger, handleCreateTask(router)))

	setDefaultTool := mcp.NewTool("vikunja_set_default_list",
		mcp.WithDescription("Set the list new tasks are created in"),
		mcp.WithNumber("list_id",
			mcp.Required(),
			mcp.Description("The Vikunja list id"),
		),
	)
	s.AddTool(setDefaultTool, logged("vikunja_set_default_list", logger, handleSetDefaultList(router)))
}

func handleQuery(router *plugin.Router) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		text, ok := args["text"].(string)
		if !ok {
			return mcp.NewToolResultError("text is required"), nil
		}
		return toolResult(router.Query(ctx, text))
	}
}

func handleListLists(router *plugin.Router) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if cached, _ := args["cached"].(bool); cached {
			return toolResult(router.CachedLists(ctx))
		}
		return toolResult(router.FetchLists(ctx))
	}
}

func handleCreateTask(router *plugin.Router) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		title, ok := args["title"].(string)
		if !ok || title == "" {
			return mcp.NewToolResultError("title is required"), nil
		}

		dueDate, _ := args["due_date"].(string)
		if dueDate != "" {
			if _, err := time.Parse("2006-01-02", dueDate); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("due_date must be YYYY-MM-DD: %v", err)), nil
			}
		}

		return toolResult(router.CreateTask(ctx, title, dueDate))
	}
}

func handleSetDefaultList(router *plugin.Router) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		id, ok := args["list_id"].(float64)
		if !ok || id != float64(int64(id)) {
			return mcp.NewToolResultError("list_id must be an integer"), nil
		}
		return toolResult(router.SetDefaultList(ctx, int64(id)))
	}
}

// toolResult renders router items as JSON. A single failure item becomes a
// tool error.
func toolResult(items []flow.Item) (*mcp.CallToolResult, error) {
	if len(items) == 1 && plugin.IsFailure(items[0]) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", items[0].Title, items[0].Subtitle)), nil
	}

	out := make([]resultItem, 0, len(items))
	for _, it := range items {
		r := resultItem{Title: it.Title, Subtitle: it.Subtitle}
		if it.Callback != nil {
			r.Action = string(it.Callback.Name)
			r.Args = it.Callback.Args
		}
		out = append(out, r)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// logged wraps a tool handler with a log line per call. Every call gets its
// own invocation id.
func logged(toolName string, logger *slog.Logger, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	toolLogger := logging.WithTool(logger, toolName)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		invocationID := uuid.NewString()
		ctx = plugin.ContextWithInvocationID(ctx, invocationID)
		callLogger := logging.WithInvocation(toolLogger, invocationID)

		start := time.Now()
		result, err := handler(ctx, request)

		status := logging.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = logging.StatusError
		}
		callLogger.InfoContext(ctx, "tool invoked",
			logging.Status(status),
			slog.Duration(logging.KeyDuration, time.Since(start)),
			logging.Err(err),
		)
		return result, err
	}
}
