package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lectio-edu/lectio/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/syllabi",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
	})

	tests := []struct {
		name string
		path string
	}{
		{"list syllabi", "/syllabi"},
		{"get syllabus", "/syllabi/123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/syllabi",
		Children: []routes.Group{
			{
				Prefix: "/{id}",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/checks", Handler: ok},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/syllabi/abc/checks", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}
