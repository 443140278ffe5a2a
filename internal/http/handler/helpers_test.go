package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"github.com/krasavchik01/rbbb-sub002/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staffMember struct {
	id   string
	role domain.Role
}

var (
	procurer  = staffMember{"emp-proc", domain.RoleProcurement}
	ceo       = staffMember{"emp-ceo", domain.RoleCEO}
	partner   = staffMember{"emp-partner", domain.RolePartner}
	manager   = staffMember{"emp-manager", domain.RoleManager1}
	assistant = staffMember{"emp-assistant", domain.RoleAssistant}
	outsider  = staffMember{"emp-outsider", domain.RoleSeniorAuditor}
)

func newTestStore(t *testing.T) *store.Store {
	backend, err := cache.NewSQLiteBackend(testutil.SetupSQLiteDB(t))
	require.NoError(t, err)
	c := cache.New(backend, cache.Options{Namespace: "test"}, zap.NewNop(), nil)
	st := store.New(c, remote.NewDisconnectedClient(zap.NewNop()), zap.NewNop(),
		store.WithClock(testutil.FixedClock(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))))

	for _, m := range []staffMember{procurer, ceo, partner, manager, assistant, outsider} {
		_, err := st.CreateEmployee(context.Background(), domain.Employee{ID: m.id, Name: m.id, Role: m.role})
		require.NoError(t, err)
	}
	return st
}

// seedProject stores a project in status with partner, manager (60/40) and assistant
func seedProject(t *testing.T, st *store.Store, status domain.ProjectStatus) domain.Project {
	p, err := st.CreateProject(context.Background(), domain.Project{
		Name:   "Seeded audit",
		Type:   domain.ProjectTypeAudit,
		Status: status,
		Team: []domain.TeamMember{
			{EmployeeID: manager.id, Role: manager.role, BonusPercent: 60},
			{EmployeeID: partner.id, Role: partner.role, BonusPercent: 40},
			{EmployeeID: assistant.id, Role: assistant.role},
		},
		CreatedBy: procurer.id,
	})
	require.NoError(t, err)
	return p
}

// newAPI mounts routes under /api behind the identity middleware
func newAPI(routes func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.NewMiddleware(zap.NewNop()).Identify)
		routes(r)
	})
	return r
}

// call performs a request as who; a zero staffMember sends no identity
func call(t *testing.T, h http.Handler, who staffMember, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who.id != "" {
		req.Header.Set(auth.HeaderUserID, who.id)
		req.Header.Set(auth.HeaderUserName, who.id)
		req.Header.Set(auth.HeaderUserRole, string(who.role))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
