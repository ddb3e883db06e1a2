package persona

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

func TestListPersonasKeepsOrder(t *testing.T) {
	r := chi.NewRouter()
	New(persona.NewMemoryStore(persona.Seed()[:2])).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/personas", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	want := `{"default":{"name":"Default Assistant"},"cockney":{"name":"Cockney"}}` + "\n"
	if got := resp.Body.String(); got != want {
		t.Fatalf("unexpected body %q", got)
	}
}

// fixedStore serves a catalog that does not come from a MemoryStore.
type fixedStore struct{ items []persona.Persona }

func (s fixedStore) List() []persona.Persona { return s.items }

func (s fixedStore) FindByID(id string) (persona.Persona, bool) {
	for _, p := range s.items {
		if p.ID == id {
			return p, true
		}
	}
	return persona.Persona{}, false
}

func (s fixedStore) Catalog() *persona.Catalog { return persona.NewCatalog(s.items...) }

func TestListPersonasFromAnyStore(t *testing.T) {
	var store persona.Store = fixedStore{items: []persona.Persona{{ID: "surfer", Name: "Surfer"}}}
	r := chi.NewRouter()
	New(store).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/personas", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	want := `{"surfer":{"name":"Surfer"}}` + "\n"
	if got := resp.Body.String(); got != want {
		t.Fatalf("unexpected body %q", got)
	}
}
