package plugin

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/teemow/flow-vikunja/internal/cache"
	"github.com/teemow/flow-vikunja/internal/config"
	"github.com/teemow/flow-vikunja/internal/flow"
	"github.com/teemow/flow-vikunja/internal/query"
	"github.com/teemow/flow-vikunja/internal/vikunja"
)

type fakeClient struct {
	createCalls []vikunja.TaskInput
	createErr   error
	listsCalls  int
	lists       []vikunja.List
	raw         []byte
	listsErr    error
}

func (f *fakeClient) CreateTask(_ context.Context, input vikunja.TaskInput) (*vikunja.Task, error) {
	f.createCalls = append(f.createCalls, input)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &vikunja.Task{ID: 1, Title: input.Title, ListID: input.ListID, DueDate: input.DueDate}, nil
}

func (f *fakeClient) Lists(context.Context) ([]vikunja.List, []byte, error) {
	f.listsCalls++
	if f.listsErr != nil {
		return nil, nil, f.listsErr
	}
	return f.lists, f.raw, nil
}

type fixture struct {
	dir    string
	store  *config.FileStore
	cache  *cache.ListCache
	client *fakeClient
	router *Router
}

func newFixture(t *testing.T, settings *config.Settings) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:    dir,
		store:  config.NewFileStore(dir),
		cache:  cache.New(filepath.Join(dir, config.CacheFile)),
		client: &fakeClient{},
	}
	if settings != nil {
		require.NoError(t, f.store.Save(settings))
	}
	clock := func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }
	f.router = NewRouter(f.store, f.cache,
		WithClientFactory(func(*config.Settings) TaskService { return f.client }),
		WithParser(query.NewParser(query.WithClock(clock))),
		WithIcon("icon.png"),
	)
	return f
}

func configured(listID *int64) *config.Settings {
	return &config.Settings{VikunjaURL: "http://vikunja.test/api/v1", APIToken: "tok", DefaultListID: listID}
}

func ptr(v int64) *int64 { return &v }

func TestQuery_EmptyTextShowsHint(t *testing.T) {
	f := newFixture(t, configured(nil))

	for _, text := range []string{"", "   "} {
		items := f.router.Query(context.Background(), text)
		require.Len(t, items, 1)
		assert.Equal(t, TitleHint, items[0].Title)
		assert.Equal(t, SubtitleHint, items[0].Subtitle)
		assert.Nil(t, items[0].Callback)
		assert.Equal(t, "icon.png", items[0].Icon)
	}
}

func TestQuery_NotConfigured(t *testing.T) {
	tests := map[string]*config.Settings{
		"no settings file": nil,
		"empty token":      {VikunjaURL: "http://vikunja.test", APIToken: ""},
		"empty url":        {VikunjaURL: "", APIToken: "tok"},
	}
	for name, settings := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, settings)
			for _, text := range []string{"", "lists", "Buy milk tomorrow"} {
				items := f.router.Query(context.Background(), text)
				require.Len(t, items, 1)
				assert.Equal(t, TitleNotConfigured, items[0].Title)
				require.NotNil(t, items[0].Callback)
				assert.Equal(t, flow.ActionConfigure, items[0].Callback.Name)
			}
			assert.Zero(t, f.client.listsCalls)
		})
	}
}

func TestQuery_InvalidSettingsFile(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.WriteFile(f.store.Path(), []byte("{broken"), 0o600))

	items := f.router.Query(context.Background(), "Buy milk")
	require.Len(t, items, 1)
	assert.Equal(t, TitleNotConfigured, items[0].Title)
}

func TestQuery_Preview(t *testing.T) {
	f := newFixture(t, configured(ptr(3)))

	items := f.router.Query(context.Background(), "Buy milk tomorrow")
	require.Len(t, items, 1)
	assert.Equal(t, "Add Task: Buy milk", items[0].Title)
	assert.Equal(t, "Due Date: 2026-10-18", items[0].Subtitle)
	require.NotNil(t, items[0].Callback)
	assert.Equal(t, flow.ActionCreateTask, items[0].Callback.Name)
	assert.Equal(t, []any{"Buy milk", "2026-10-18"}, items[0].Callback.Args)
}

func TestQuery_PreviewWithoutDueDate(t *testing.T) {
	f := newFixture(t, configured(nil))

	items := f.router.Query(context.Background(), "Buy milk")
	require.Len(t, items, 1)
	assert.Equal(t, "Add Task: Buy milk", items[0].Title)
	assert.Equal(t, "Due Date: None", items[0].Subtitle)
	assert.Equal(t, []any{"Buy milk", nil}, items[0].Callback.Args)
	assert.Empty(t, f.client.createCalls, "preview never calls the API")
}

func TestQuery_ListsKeyword(t *testing.T) {
	f := newFixture(t, configured(nil))
	f.client.lists = []vikunja.List{{ID: 1, Title: "Inbox"}}
	f.client.raw = []byte(`[{"id":1,"title":"Inbox"}]`)

	for _, text := range []string{"lists", "LISTS", " Lists "} {
		items := f.router.Query(context.Background(), text)
		require.Len(t, items, 1)
		assert.Equal(t, "Inbox", items[0].Title)
	}
	assert.Equal(t, 3, f.client.listsCalls)
}

func TestCreateTask_NoDefaultList(t *testing.T) {
	f := newFixture(t, configured(nil))

	items := f.router.CreateTask(context.Background(), "Buy milk", "")
	require.Len(t, items, 1)
	assert.Equal(t, TitleNoDefaultList, items[0].Title)
	assert.Equal(t, SubtitleNoDefaultList, items[0].Subtitle)
	assert.Empty(t, f.client.createCalls)
}

func TestCreateTask_NotConfigured(t *testing.T) {
	f := newFixture(t, &config.Settings{VikunjaURL: "http://x", DefaultListID: ptr(1)})

	items := f.router.CreateTask(context.Background(), "Buy milk", "")
	require.Len(t, items, 1)
	assert.Equal(t, TitleNotConfigured, items[0].Title)
	assert.Empty(t, f.client.createCalls)
}

func TestCreateTask_Success(t *testing.T) {
	f := newFixture(t, configured(ptr(9)))

	items := f.router.CreateTask(context.Background(), "Buy milk", "2026-10-18")
	require.Len(t, items, 1)
	assert.Equal(t, TitleTaskCreated, items[0].Title)
	assert.Equal(t, "Buy milk", items[0].Subtitle)
	require.Len(t, f.client.createCalls, 1)
	assert.Equal(t, vikunja.TaskInput{Title: "Buy milk", ListID: 9, DueDate: "2026-10-18"}, f.client.createCalls[0])
}

func TestCreateTask_APIError(t *testing.T) {
	f := newFixture(t, configured(ptr(9)))
	f.client.createErr = &vikunja.APIError{Operation: "create_task", StatusCode: 404, Body: "not found"}

	items := f.router.CreateTask(context.Background(), "Buy milk", "")
	require.Len(t, items, 1)
	assert.Equal(t, TitleCreateFailed, items[0].Title)
	assert.Equal(t, "Error: 404 not found", items[0].Subtitle)
}

func TestCreateTask_TransportError(t *testing.T) {
	f := newFixture(t, configured(ptr(9)))
	f.client.createErr = &vikunja.TransportError{Operation: "create_task", Err: errors.New("connection refused")}

	items := f.router.CreateTask(context.Background(), "Buy milk", "")
	require.Len(t, items, 1)
	assert.Equal(t, TitleError, items[0].Title)
	assert.Equal(t, "connection refused", items[0].Subtitle)
}

func TestFetchLists_CachesVerbatim(t *testing.T) {
	f := newFixture(t, configured(nil))
	payload := []byte(`[{"id":1,"title":"Inbox"}]`)
	f.client.lists = []vikunja.List{{ID: 1, Title: "Inbox"}}
	f.client.raw = payload

	items := f.router.FetchLists(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "Inbox", items[0].Title)
	assert.Equal(t, "Select this list (ID: 1)", items[0].Subtitle)
	require.NotNil(t, items[0].Callback)
	assert.Equal(t, flow.ActionSetDefaultList, items[0].Callback.Name)
	assert.Equal(t, []any{int64(1)}, items[0].Callback.Args)

	cached, err := os.ReadFile(f.cache.Path())
	require.NoError(t, err)
	assert.Equal(t, payload, cached)
}

func TestFetchLists_APIError(t *testing.T) {
	f := newFixture(t, configured(nil))
	f.client.listsErr = &vikunja.APIError{Operation: "lists", StatusCode: 401, Body: "unauthorized"}

	items := f.router.FetchLists(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, TitleListsFailed, items[0].Title)
	assert.Equal(t, "Error: 401 unauthorized", items[0].Subtitle)

	_, err := os.Stat(f.cache.Path())
	assert.True(t, os.IsNotExist(err), "failed fetch must not touch the cache")
}

func TestFetchLists_CacheWriteFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t, configured(nil))
	f.client.lists = []vikunja.List{{ID: 2, Title: "Work"}}
	f.client.raw = []byte(`[{"id":2,"title":"Work"}]`)

	blocker := filepath.Join(f.dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	f.router.cache = cache.New(filepath.Join(blocker, "lists.json"))

	items := f.router.FetchLists(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "Work", items[0].Title)
}

func TestCachedLists(t *testing.T) {
	f := newFixture(t, configured(nil))

	items := f.router.CachedLists(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, TitleNoCachedLists, items[0].Title)

	require.NoError(t, f.cache.Save([]byte(`[{"id":4,"title":"Home"},{"id":5,"title":"Work"}]`)))
	items = f.router.CachedLists(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, "Home", items[0].Title)
	assert.Equal(t, []any{int64(5)}, items[1].Callback.Args)
}

func TestSetDefaultList(t *testing.T) {
	f := newFixture(t, configured(nil))

	items := f.router.SetDefaultList(context.Background(), 12)
	require.Len(t, items, 1)
	assert.Equal(t, TitleDefaultListUpdated, items[0].Title)
	assert.Equal(t, "New Default List ID: 12", items[0].Subtitle)

	settings, err := f.store.Load()
	require.NoError(t, err)
	require.NotNil(t, settings.DefaultListID)
	assert.Equal(t, int64(12), *settings.DefaultListID)
	assert.Equal(t, "tok", settings.APIToken, "other fields are preserved")
}

func TestSetDefaultList_WithoutSettingsFileUsesDefaults(t *testing.T) {
	f := newFixture(t, nil)

	items := f.router.SetDefaultList(context.Background(), 3)
	require.Len(t, items, 1)
	assert.Equal(t, TitleDefaultListUpdated, items[0].Title)

	settings, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultVikunjaURL, settings.VikunjaURL)
	assert.Equal(t, int64(3), *settings.DefaultListID)
}

func TestSetDefaultList_InvalidSettings(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.WriteFile(f.store.Path(), []byte("not json"), 0o600))

	items := f.router.SetDefaultList(context.Background(), 3)
	require.Len(t, items, 1)
	assert.Equal(t, TitleUpdateFailed, items[0].Title)
	assert.Equal(t, SubtitleUpdateFailed, items[0].Subtitle)
}

func decode(t *testing.T, raw string) flow.Request {
	t.Helper()
	req, err := flow.Decode([]byte(raw))
	require.NoError(t, err)
	return req
}

func TestHandle_Dispatch(t *testing.T) {
	f := newFixture(t, configured(ptr(7)))
	ctx := context.Background()

	items := f.router.Handle(ctx, decode(t, `{"method":"query","parameters":["Buy milk next week"]}`))
	require.Len(t, items, 1)
	assert.Equal(t, "Add Task: Buy milk", items[0].Title)
	assert.Equal(t, "Due Date: 2026-10-24", items[0].Subtitle)

	items = f.router.Handle(ctx, decode(t, `{"method":"create_task","parameters":["Buy milk",null]}`))
	require.Len(t, items, 1)
	assert.Equal(t, TitleTaskCreated, items[0].Title)
	assert.Equal(t, "", f.client.createCalls[0].DueDate)

	items = f.router.Handle(ctx, decode(t, `{"method":"set_default_list","parameters":[8]}`))
	require.Len(t, items, 1)
	assert.Equal(t, "New Default List ID: 8", items[0].Subtitle)

	items = f.router.Handle(ctx, decode(t, `{"method":"set_default_list","parameters":["9"]}`))
	assert.Equal(t, "New Default List ID: 9", items[0].Subtitle)

	items = f.router.Handle(ctx, decode(t, `{"method":"context_menu","parameters":[]}`))
	assert.Empty(t, items)

	items = f.router.Handle(ctx, decode(t, `{"method":"set_config","parameters":[]}`))
	require.Len(t, items, 1)
	assert.Equal(t, TitleConfigure, items[0].Title)
	assert.Contains(t, items[0].Subtitle, f.store.Path())
}

func TestHandle_BadRequests(t *testing.T) {
	f := newFixture(t, configured(ptr(7)))

	tests := map[string]string{
		"unknown method":      `{"method":"delete_everything","parameters":[]}`,
		"missing title":       `{"method":"create_task","parameters":[]}`,
		"numeric title":       `{"method":"create_task","parameters":[5,null]}`,
		"object due date":     `{"method":"create_task","parameters":["x",{}]}`,
		"missing list id":     `{"method":"set_default_list","parameters":[]}`,
		"fractional list id":  `{"method":"set_default_list","parameters":[1.5]}`,
		"non-numeric list id": `{"method":"set_default_list","parameters":["inbox"]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			items := f.router.Handle(context.Background(), decode(t, raw))
			require.Len(t, items, 1)
			assert.Equal(t, TitleError, items[0].Title)
			assert.Nil(t, items[0].Callback)
		})
	}
	assert.Empty(t, f.client.createCalls)
}

func TestRouter_AgainstVikunjaServer(t *testing.T) {
	var created int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/tasks":
			created++
			if created == 1 {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":10,"title":"Buy milk"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found"))
		case "/api/v1/lists":
			_, _ = w.Write([]byte(`[{"id":1,"title":"Inbox"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	store := config.NewFileStore(dir)
	require.NoError(t, store.Save(&config.Settings{VikunjaURL: srv.URL + "/api/v1", APIToken: "tok", DefaultListID: ptr(1)}))
	listCache := cache.New(filepath.Join(dir, config.CacheFile))
	router := NewRouter(store, listCache)
	ctx := context.Background()

	items := router.CreateTask(ctx, "Buy milk", "")
	require.Len(t, items, 1)
	assert.Equal(t, TitleTaskCreated, items[0].Title)
	assert.Equal(t, "Buy milk", items[0].Subtitle)

	items = router.CreateTask(ctx, "Buy milk", "")
	require.Len(t, items, 1)
	assert.Equal(t, TitleCreateFailed, items[0].Title)
	assert.Contains(t, items[0].Subtitle, "404")
	assert.Contains(t, items[0].Subtitle, "not found")

	items = router.Query(ctx, "lists")
	require.Len(t, items, 1)
	assert.Equal(t, "Inbox", items[0].Title)

	raw, err := listCache.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"title":"Inbox"}]`, string(raw))
}

func TestInvoke_LogsInvocationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	f := newFixture(t, nil)
	f.router = NewRouter(f.store, f.cache, WithLogger(logger), WithInvocationID("process-id"))

	f.router.Query(context.Background(), "Buy milk")
	f.router.Query(ContextWithInvocationID(context.Background(), "call-id"), "Buy milk")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "process-id", gjson.GetBytes(lines[0], "invocation_id").String())
	assert.Equal(t, "call-id", gjson.GetBytes(lines[1], "invocation_id").String())
	assert.Equal(t, "query", gjson.GetBytes(lines[1], "method").String())
	assert.False(t, gjson.GetBytes(lines[1], "trace_id").Exists(), "no trace id without a recording span")
}
