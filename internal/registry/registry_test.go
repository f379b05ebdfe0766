package registry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"modulith/internal/registry"
	"modulith/pkg/events"
	"modulith/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDomain struct {
	name string
	log  *[]string
}

func (f *fakeDomain) Name() string { return f.name }

func (f *fakeDomain) MountRoutes(router *registry.Router) {
	*f.log = append(*f.log, "mount:"+f.name)
	router.HandlePublicFunc("/"+f.name, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (f *fakeDomain) RegisterEventHandlers(_ events.Subscriber) error {
	*f.log = append(*f.log, "events:"+f.name)

	return nil
}

func (f *fakeDomain) Seed(_ context.Context, _ storage.Storage) error {
	*f.log = append(*f.log, "seed:"+f.name)

	return nil
}

func TestNewUnknownDomain(t *testing.T) {
	t.Parallel()

	var log []string
	_, err := registry.New(
		[]string{"billing"},
		&fakeDomain{name: "authentication", log: &log},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billing")
}

func TestNewDuplicateName(t *testing.T) {
	t.Parallel()

	var log []string
	_, err := registry.New(
		[]string{"authentication", "authentication"},
		&fakeDomain{name: "authentication", log: &log},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")
}

func TestLoadOrder(t *testing.T) {
	t.Parallel()

	var log []string
	reg, err := registry.New(
		[]string{"authorization", "authentication"},
		&fakeDomain{name: "authentication", log: &log},
		&fakeDomain{name: "authorization", log: &log},
	)
	require.NoError(t, err)

	reg.MountRoutes(registry.NewRouter(http.NewServeMux(), nil))
	require.NoError(t, reg.RegisterEventHandlers(events.NewBus(events.Options{})))
	require.NoError(t, reg.Seed(context.Background(), nil))

	assert.Equal(t, []string{
		"mount:authorization", "mount:authentication",
		"events:authorization", "events:authentication",
		"seed:authorization", "seed:authentication",
	}, log)
}

func TestNewSubsetInstalled(t *testing.T) {
	t.Parallel()

	var log []string
	reg, err := registry.New(
		[]string{"authentication"},
		&fakeDomain{name: "authentication", log: &log},
		&fakeDomain{name: "authorization", log: &log},
	)
	require.NoError(t, err)
	require.Len(t, reg.Domains(), 1)
	assert.Equal(t, "authentication", reg.Domains()[0].Name())
}

func TestRouterProtect(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	router := registry.NewRouter(mux, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)

				return
			}
			next.ServeHTTP(w, r)
		})
	})

	router.HandleFunc("GET /private", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.HandlePublicFunc("GET /public", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer token")
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
