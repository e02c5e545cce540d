package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/capacity-planner/internal/fixtures"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/sse"
	"github.com/cmlabs-hris/capacity-planner/internal/repository/memory"
	"github.com/cmlabs-hris/capacity-planner/internal/service/availability"
	dashboardService "github.com/cmlabs-hris/capacity-planner/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/capacity-planner/internal/service/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/service/planning"
	"github.com/cmlabs-hris/capacity-planner/internal/service/transfer"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type testServer struct {
	handler http.Handler
	store   *store.Store
	hub     *sse.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	clock := func() time.Time { return time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC) }

	hub := sse.NewHub()
	st, err := store.New(context.Background(), memory.NewKVRepository(), fixtures.DefaultSeed(),
		store.WithIDGenerator(ids),
		store.WithClock(clock),
		store.WithNotifier(PublishChanges(hub)),
	)
	require.NoError(t, err)

	engine := planning.NewEngine(st)
	calculator := availability.NewCalculator(st)
	synthesizer := leaveService.NewSynthesizer(st, engine)
	transferSvc := transfer.NewService(st, engine, transfer.WithIDGenerator(ids))

	router := NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}}, Handlers{
		State:     NewStateHandler(st),
		Employee:  NewEmployeeHandler(st),
		Absence:   NewAbsenceHandler(st),
		Planning:  NewPlanningHandler(st, calculator),
		Task:      NewTaskHandler(st, engine, transferSvc),
		Filter:    NewFilterHandler(st),
		Dashboard: NewDashboardHandler(dashboardService.NewDashboardService(st, engine, calculator)),
		Capacity:  NewCapacityHandler(st),
		Leave:     NewLeaveHandler(st, synthesizer),
		Event:     NewEventHandler(hub, st),
	})
	return &testServer{handler: router, store: st, hub: hub}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestRejectsRemoteRequests(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.RemoteAddr = "10.0.0.8:40000"
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEmployeeRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 2)

	_, env = s.do(t, http.MethodGet, "/api/v1/employees?werkplaats=all", nil)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 4)

	rec, env = s.do(t, http.MethodPost, "/api/v1/employees", map[string]any{"naam": "Eva", "rol": "Onbekend"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "rol")

	rec, env = s.do(t, http.MethodPost, "/api/v1/employees", map[string]any{"naam": "Eva"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Eva", created["naam"])
	assert.Equal(t, "Almere", created["werkplaats"])

	rec, _ = s.do(t, http.MethodPut, "/api/v1/employees/"+created["id"].(string), map[string]any{"urenPerDag": 6})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/employees/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAbsenceAndPlanningRoutes(t *testing.T) {
	s := newTestServer(t)
	alex := s.store.EmployeesOf("Almere")[0]

	rec, _ := s.do(t, http.MethodPut, "/api/v1/absences/"+alex.ID+"/2024-03-05", map[string]any{"hours": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/absences/"+alex.ID+"/2024-02-30", map[string]any{"hours": 4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/v1/absences/"+alex.ID+"/2024-03-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, decode[AbsenceResponse](t, env.Data).Blocked)

	rec, env = s.do(t, http.MethodGet, "/api/v1/planning/week?date=2024-03-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decode[availability.WeekPlan](t, env.Data)
	assert.Equal(t, 10, plan.Week.Week)
	require.NotEmpty(t, plan.Rows)
	assert.Equal(t, 36.0, plan.Rows[0].Available)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/planning/week?date=morgen", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/planning/totals?year=2024&week=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[TotalsResponse](t, env.Data)
	assert.Equal(t, "Almere", totals.Werkplaats)
	assert.InDelta(t, 76.0, totals.Total, 1e-9)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/planning/totals?year=2021&week=53", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/reports/year?year=2020", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[availability.YearReport](t, env.Data).Weeks, 53)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/absences", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok := s.store.Absence(alex.ID, "2024-03-05")
	assert.False(t, ok)
}

func TestTaskRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Boren", "due_date": "03-05-2024"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title": `Frame "B"`, "workshop_id": 2, "skill": "Lassen", "hours": 6, "due_date": "2024-03-07", "priority": "Hoog",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, env.Data)["id"].(string)

	s.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Zagen", "workshop_id": 1, "hours": 2})

	_, env = s.do(t, http.MethodGet, "/api/v1/tasks", nil)
	list := decode[TaskListResponse](t, env.Data)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, id, list.Tasks[0].ID)
	assert.Empty(t, list.Chips)

	_, env = s.do(t, http.MethodPut, "/api/v1/filters", map[string]any{"workshop_id": "1", "week": "", "skill": ""})
	assert.Equal(t, "Vestiging: Almere", decode[FilterResponse](t, env.Data).Chips[0].Label)

	_, env = s.do(t, http.MethodGet, "/api/v1/tasks", nil)
	list = decode[TaskListResponse](t, env.Data)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "Zagen", list.Tasks[0].Title)

	s.do(t, http.MethodDelete, "/api/v1/filters", nil)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/tasks/"+id, map[string]any{"title": "Frame C", "status": "Gereed"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPut, "/api/v1/tasks/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/tasks/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "planning_export.csv")
	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Order","Titel","Vestiging","Skill","Uren","Deadline","Prioriteit","Status"`, lines[0])

	rec, _ = s.do(t, http.MethodPost, "/api/v1/tasks/import", `{"tasks": []}`)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	tasks, _ := s.store.Tasks()
	assert.Len(t, tasks, 2)

	rec, env = s.do(t, http.MethodPost, "/api/v1/tasks/import", `[{"title": "Verven", "hours": "3"}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[ImportResponse](t, env.Data).Imported)
}

func TestDashboardAndCapacityRoutes(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Boren", "workshop_id": 1, "hours": 40, "skill": "Boren", "due_date": "2024-03-01"})

	rec, env := s.do(t, http.MethodPut, "/api/v1/capacity", map[string]any{"capacityByWorkshop": map[string]float64{"1": 80, "x": 3}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(t, http.MethodPut, "/api/v1/capacity", map[string]any{"capacityByWorkshop": map[string]float64{"1": 80, "2": 80}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 160.0, decode[CapacityResponse](t, env.Data).Total)

	rec, env = s.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		KPIs struct {
			Capacity    float64 `json:"capacity"`
			Utilisation int     `json:"utilisation"`
		} `json:"kpis"`
		Hero struct {
			Overdue int `json:"overdue"`
		} `json:"hero"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 160.0, dash.KPIs.Capacity)
	assert.Equal(t, 25, dash.KPIs.Utilisation)
	assert.Equal(t, 1, dash.Hero.Overdue)
}

func TestLeaveRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPut, "/api/v1/leave/matrix/0/2024-03-05", map[string]any{"hours": 20})
	require.Equal(t, http.StatusOK, rec.Code)
	entry := decode[map[string]any](t, env.Data)["entry"].(map[string]any)
	assert.Equal(t, 8.0, entry["hours"])
	assert.Equal(t, "VL", entry["code"])

	rec, env = s.do(t, http.MethodPut, "/api/v1/leave/matrix/0/2024-03-05", map[string]any{"type": "ziekte"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ZK", decode[map[string]any](t, env.Data)["entry"].(map[string]any)["code"])

	rec, env = s.do(t, http.MethodPut, "/api/v1/leave/matrix/0/2024-03-05", map[string]any{"hours": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[map[string]any](t, env.Data)["entry"])

	rec, _ = s.do(t, http.MethodPut, "/api/v1/leave/matrix/42/2024-03-05", map[string]any{"hours": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/leave/matrix/0/2024-03-05", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave/matrix", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[leaveService.MatrixView](t, env.Data)
	assert.Equal(t, 2024, view.Year)
	assert.Len(t, view.Days, 366)
	assert.Len(t, view.Rows, 4)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave/chart?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decode[leaveService.Chart](t, env.Data)
	assert.Len(t, chart.Series, 53)
	assert.False(t, chart.Empty)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/leave/chart?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStateRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/state/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.String()
	assert.Contains(t, exported, "\n  \"werkplaats\": \"Almere\"")

	rec, _ = s.do(t, http.MethodPost, "/api/v1/state/import", `{"werkplaats": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Almere", s.store.Werkplaats())

	rec, _ = s.do(t, http.MethodPut, "/api/v1/state/werkplaats", map[string]string{"werkplaats": "Venlo"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/state/import", exported)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Almere", decode[StateResponse](t, env.Data).Werkplaats)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/state/reset", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetAllClearsBoard(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Boren"})
	_, env := s.do(t, http.MethodGet, "/api/v1/tasks", nil)
	require.Len(t, decode[TaskListResponse](t, env.Data).Tasks, 1)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/state/reset?scope=everything", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/state/reset?scope=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, env = s.do(t, http.MethodGet, "/api/v1/tasks", nil)
	assert.Empty(t, decode[TaskListResponse](t, env.Data).Tasks)

	s.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Zagen"})
	_, env = s.do(t, http.MethodGet, "/api/v1/tasks", nil)
	list := decode[TaskListResponse](t, env.Data)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "Zagen", list.Tasks[0].Title)
}

func TestMutationsPublishEvents(t *testing.T) {
	s := newTestServer(t)
	events, cleanup := s.hub.Subscribe(string(store.ScopeTasks))
	defer cleanup()

	s.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Boren"})
	s.do(t, http.MethodPut, "/api/v1/capacity", map[string]any{"capacityByWorkshop": map[string]float64{"1": 80}})

	select {
	case e := <-events:
		assert.Equal(t, "version", e.Event)
		change := e.Data.(store.Change)
		assert.Equal(t, store.ScopeTasks, change.Scope)
		assert.Equal(t, s.store.Version()-1, change.Version)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	select {
	case e := <-events:
		t.Fatalf("unexpected event on tasks topic: %+v", e)
	default:
	}
}
