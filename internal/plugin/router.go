package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/teemow/flow-vikunja/internal/cache"
	"github.com/teemow/flow-vikunja/internal/config"
	"github.com/teemow/flow-vikunja/internal/flow"
	"github.com/teemow/flow-vikunja/internal/instrumentation"
	"github.com/teemow/flow-vikunja/internal/logging"
	"github.com/teemow/flow-vikunja/internal/query"
	"github.com/teemow/flow-vikunja/internal/vikunja"
)

// Launcher methods served by Handle.
const (
	MethodQuery       = "query"
	MethodContextMenu = "context_menu"
)

// listsKeyword is the query that switches to list selection.
const listsKeyword = "lists"

// TaskService is the subset of the Vikunja API the router needs.
type TaskService interface {
	CreateTask(ctx context.Context, input vikunja.TaskInput) (*vikunja.Task, error)
	Lists(ctx context.Context) ([]vikunja.List, []byte, error)
}

// ClientFactory builds a TaskService for the given settings. It is called
// only once the settings are known to be configured.
type ClientFactory func(settings *config.Settings) TaskService

// ListCache stores the last fetched lists payload.
type ListCache interface {
	Save(raw []byte) error
	Load() ([]byte, error)
}

// Router dispatches launcher requests and turns every outcome into result
// items. It never returns an error or panics past its public methods.
type Router struct {
	store        config.Store
	cache        ListCache
	newClient    ClientFactory
	parser       *query.Parser
	icon         string
	logger       *slog.Logger
	metrics      *instrumentation.Metrics
	invocationID string
}

// Option configures a Router.
type Option func(*Router)

// WithClientFactory overrides how Vikunja clients are built.
func WithClientFactory(f ClientFactory) Option {
	return func(r *Router) { r.newClient = f }
}

// WithParser sets the query parser.
func WithParser(p *query.Parser) Option {
	return func(r *Router) { r.parser = p }
}

// WithIcon sets the icon path attached to every result item.
func WithIcon(path string) Option {
	return func(r *Router) { r.icon = path }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithMetrics records invocation metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithInvocationID sets the invocation id used when the context carries none.
func WithInvocationID(id string) Option {
	return func(r *Router) { r.invocationID = id }
}

type invocationKey struct{}

// ContextWithInvocationID returns a context whose router calls are tagged with
// id instead of the router's own invocation id. Long-lived servers use it to
// give every call its own id.
func ContextWithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

func (r *Router) invocationIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(invocationKey{}).(string); ok && id != "" {
		return id
	}
	return r.invocationID
}

// NewRouter creates a router over the given settings store and list cache.
// cache may be nil, in which case fetched lists are not persisted.
func NewRouter(store config.Store, listCache ListCache, opts ...Option) *Router {
	r := &Router{
		store: store,
		cache: listCache,
		newClient: func(s *config.Settings) TaskService {
			return vikunja.NewClient(s.VikunjaURL, s.APIToken)
		},
		parser: query.NewParser(),
		icon:   config.DefaultIconPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Handle dispatches a decoded launcher request.
func (r *Router) Handle(ctx context.Context, req flow.Request) []flow.Item {
	switch req.Method {
	case MethodQuery:
		return r.Query(ctx, req.Param(0).String())

	case string(flow.ActionCreateTask):
		title, due, err := createTaskArgs(req)
		if err != nil {
			return r.Reject(ctx, req.Method, err)
		}
		return r.CreateTask(ctx, title, due)

	case string(flow.ActionSetDefaultList):
		id, err := listIDArg(req.Param(0))
		if err != nil {
			return r.Reject(ctx, req.Method, err)
		}
		return r.SetDefaultList(ctx, id)

	case string(flow.ActionConfigure):
		return r.invoke(ctx, req.Method, func(context.Context) ([]flow.Item, error) {
			return []flow.Item{r.configureItem()}, nil
		})

	case MethodContextMenu:
		return r.invoke(ctx, req.Method, func(context.Context) ([]flow.Item, error) {
			return []flow.Item{}, nil
		})

	default:
		return r.Reject(ctx, req.Method, fmt.Errorf("%w: %q", ErrUnknownMethod, req.Method))
	}
}

// Query handles text typed after the action keyword.
func (r *Router) Query(ctx context.Context, text string) []flow.Item {
	return r.invoke(ctx, MethodQuery, func(ctx context.Context) ([]flow.Item, error) {
		settings, err := r.configured()
		if err != nil {
			return []flow.Item{r.notConfiguredItem()}, err
		}

		trimmed := strings.TrimSpace(text)
		if strings.EqualFold(trimmed, listsKeyword) {
			return r.fetchLists(ctx, settings)
		}
		if trimmed == "" {
			return []flow.Item{r.item(TitleHint, SubtitleHint)}, nil
		}

		return []flow.Item{r.previewItem(r.parser.Parse(text))}, nil
	})
}

// CreateTask creates a task in the default list. An empty dueDate means none.
func (r *Router) CreateTask(ctx context.Context, title, dueDate string) []flow.Item {
	return r.invoke(ctx, string(flow.ActionCreateTask), func(ctx context.Context) ([]flow.Item, error) {
		settings, err := r.configured()
		if err != nil {
			return []flow.Item{r.errorItem(err, TitleCreateFailed)}, err
		}
		if !settings.HasDefaultList() {
			return []flow.Item{r.errorItem(ErrNoDefaultList, TitleCreateFailed)}, ErrNoDefaultList
		}

		task, err := r.newClient(settings).CreateTask(ctx, vikunja.TaskInput{
			Title:   title,
			ListID:  *settings.DefaultListID,
			DueDate: dueDate,
		})
		if err != nil {
			return []flow.Item{r.errorItem(err, TitleCreateFailed)}, err
		}

		r.logger.InfoContext(ctx, "task created",
			logging.ListID(task.ListID),
			slog.Int64("task_id", task.ID),
		)
		return []flow.Item{r.item(TitleTaskCreated, title)}, nil
	})
}

// FetchLists fetches the user's lists, caches the payload and returns one
// selectable item per list.
func (r *Router) FetchLists(ctx context.Context) []flow.Item {
	return r.invoke(ctx, MethodQuery, func(ctx context.Context) ([]flow.Item, error) {
		settings, err := r.configured()
		if err != nil {
			return []flow.Item{r.errorItem(err, TitleListsFailed)}, err
		}
		return r.fetchLists(ctx, settings)
	})
}

func (r *Router) fetchLists(ctx context.Context, settings *config.Settings) ([]flow.Item, error) {
	lists, raw, err := r.newClient(settings).Lists(ctx)
	if err != nil {
		return []flow.Item{r.errorItem(err, TitleListsFailed)}, err
	}

	if r.cache != nil {
		if err := r.cache.Save(raw); err != nil {
			r.logger.WarnContext(ctx, "failed to cache lists", logging.Err(err))
		}
	}

	return r.listItems(lists), nil
}

// CachedLists returns items for the lists stored by the last successful fetch.
func (r *Router) CachedLists(ctx context.Context) []flow.Item {
	return r.invoke(ctx, MethodQuery, func(ctx context.Context) ([]flow.Item, error) {
		if r.cache == nil {
			return []flow.Item{r.item(TitleNoCachedLists, SubtitleNoCachedLists)}, nil
		}
		raw, err := r.cache.Load()
		if err != nil {
			return []flow.Item{r.errorItem(err, TitleListsFailed)}, err
		}
		items := r.cachedItems(cache.Entries(raw))
		if len(items) == 0 {
			return []flow.Item{r.item(TitleNoCachedLists, SubtitleNoCachedLists)}, nil
		}
		return items, nil
	})
}

// SetDefaultList stores id as the default list. Settings only need to load;
// they do not have to be configured.
func (r *Router) SetDefaultList(ctx context.Context, id int64) []flow.Item {
	return r.invoke(ctx, string(flow.ActionSetDefaultList), func(ctx context.Context) ([]flow.Item, error) {
		failed := []flow.Item{r.item(TitleUpdateFailed, SubtitleUpdateFailed)}

		settings, err := r.store.Load()
		if err != nil {
			return failed, err
		}
		if err := r.store.Save(settings.WithDefaultList(id)); err != nil {
			return failed, err
		}

		return []flow.Item{r.item(TitleDefaultListUpdated, fmt.Sprintf("New Default List ID: %d", id))}, nil
	})
}

// configured loads the settings and checks that URL and token are set.
func (r *Router) configured() (*config.Settings, error) {
	settings, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if !settings.Configured() {
		return nil, ErrNotConfigured
	}
	return settings, nil
}

func (r *Router) configureItem() flow.Item {
	hint := "Run 'flow-vikunja configure --url <url> --token <token>'"
	if p, ok := r.store.(interface{ Path() string }); ok {
		hint += " or edit " + p.Path()
	}
	return r.item(TitleConfigure, hint)
}

// Reject reports err for method as a single error item. It is used for
// requests that fail before they can be dispatched.
func (r *Router) Reject(ctx context.Context, method string, err error) []flow.Item {
	return r.invoke(ctx, method, func(context.Context) ([]flow.Item, error) {
		return []flow.Item{r.errorItem(err, TitleError)}, err
	})
}

// invoke runs fn inside an invocation span, records metrics and logs the
// outcome. fn always returns the items to show; err only classifies them.
func (r *Router) invoke(ctx context.Context, method string, fn func(context.Context) ([]flow.Item, error)) []flow.Item {
	start := time.Now()
	invocationID := r.invocationIDFrom(ctx)
	ctx, span := instrumentation.StartInvocationSpan(ctx, method, invocationID)
	defer span.End()

	items, err := fn(ctx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	r.metrics.RecordInvocation(ctx, method, status, duration)

	level := slog.LevelInfo
	if err != nil && !isUserError(err) {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		logging.Method(method),
		logging.InvocationID(invocationID),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
		slog.Int("items", len(items)),
		logging.Err(err),
	}
	if traceID := instrumentation.GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, logging.TraceID(traceID))
	}
	r.logger.LogAttrs(ctx, level, "invocation handled", attrs...)

	return items
}

// isUserError reports failures caused by missing setup rather than faults.
func isUserError(err error) bool {
	return errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrNoDefaultList)
}

func createTaskArgs(req flow.Request) (string, string, error) {
	title := req.Param(0)
	if title.Type != gjson.String {
		return "", "", fmt.Errorf("%w: create_task expects a title string", ErrInvalidArguments)
	}

	due := req.Param(1)
	switch due.Type {
	case gjson.Null:
		return title.String(), "", nil
	case gjson.String:
		return title.String(), due.String(), nil
	default:
		return "", "", fmt.Errorf("%w: create_task due date must be a string or null", ErrInvalidArguments)
	}
}

func listIDArg(p gjson.Result) (int64, error) {
	switch p.Type {
	case gjson.Number:
		if p.Num != float64(int64(p.Num)) {
			return 0, fmt.Errorf("%w: list id %s is not an integer", ErrInvalidArguments, p.Raw)
		}
		return p.Int(), nil
	case gjson.String:
		id, err := strconv.ParseInt(strings.TrimSpace(p.String()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: list id %q: %v", ErrInvalidArguments, p.String(), err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("%w: set_default_list expects a list id", ErrInvalidArguments)
	}
}
