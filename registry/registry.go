package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"

	"github.com/sammy-project/sammy-client-go/api"
	"github.com/sammy-project/sammy-client-go/internal/util"
)

const DefaultAllowedOrigin = "http://localhost:3000"

// Registry is an in-memory stand-in for the SAMmy API. It serves the systems
// and components collections with the same routes, status codes and error
// bodies as the real service.
type Registry struct {
	systems    *collection[api.System, api.SystemBase]
	components *collection[api.ComponentItem, api.ComponentBase]

	Log            logr.Logger
	AllowedOrigins []string
}

func New() *Registry {
	r := &Registry{
		Log:            logr.Discard(),
		AllowedOrigins: []string{DefaultAllowedOrigin},
	}
	r.systems = &collection[api.System, api.SystemBase]{
		reg:      r,
		kind:     "System",
		param:    "system_id",
		items:    util.NewSyncMap[string, api.System](),
		validate: validateSystem,
		toRecord: func(id string, b api.SystemBase) api.System {
			return api.System{ID: id, SystemBase: b}
		},
		recordID: func(s api.System) string { return s.ID },
	}
	r.components = &collection[api.ComponentItem, api.ComponentBase]{
		reg:      r,
		kind:     "Component",
		param:    "component_id",
		items:    util.NewSyncMap[string, api.ComponentItem](),
		validate: validateComponent,
		toRecord: func(id string, b api.ComponentBase) api.ComponentItem {
			return api.ComponentItem{ID: id, ComponentBase: b}
		},
		recordID: func(c api.ComponentItem) string { return c.ID },
	}
	return r
}

func (r *Registry) MustUpsertSystem(s api.System) {
	if err := r.UpsertSystem(s); err != nil {
		panic(err)
	}
}

func (r *Registry) UpsertSystem(s api.System) error {
	return r.systems.upsert(s)
}

func (r *Registry) MustUpsertComponent(c api.ComponentItem) {
	if err := r.UpsertComponent(c); err != nil {
		panic(err)
	}
}

func (r *Registry) UpsertComponent(c api.ComponentItem) error {
	return r.components.upsert(c)
}

func (r *Registry) DeleteSystem(id string) {
	r.systems.items.Delete(id)
}

func (r *Registry) DeleteComponent(id string) {
	r.components.items.Delete(id)
}

func (r *Registry) Systems() []api.System {
	return r.systems.sorted()
}

func (r *Registry) Components() []api.ComponentItem {
	return r.components.sorted()
}

func (r *Registry) Handler() http.Handler {
	mux := http.NewServeMux()
	r.systems.register(mux, "/systems")
	r.components.register(mux, "/components")

	cors := handlers.CORS(
		handlers.AllowedOrigins(r.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)
	return handlers.CustomLoggingHandler(io.Discard, cors(mux), r.logRequest)
}

func (r *Registry) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	r.Log.Info("handled request", "method", p.Request.Method, "path", p.URL.Path, "status", p.StatusCode, "size", p.Size)
}

func (r *Registry) writeJSON(resp http.ResponseWriter, status int, v interface{}) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(status)
	enc := json.NewEncoder(resp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		r.Log.Error(err, "error encoding response", "status", status)
	}
}

func (r *Registry) writeDetail(resp http.ResponseWriter, status int, detail interface{}) {
	data, err := json.Marshal(detail)
	if err != nil {
		r.Log.Error(err, "error encoding error detail")
		http.Error(resp, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	r.writeJSON(resp, status, api.ErrorResponse{Detail: data})
}

type collection[R any, B any] struct {
	reg      *Registry
	kind     string
	param    string
	items    util.SyncMap[string, R]
	validate func(B) []api.ValidationIssue
	toRecord func(id string, b B) R
	recordID func(R) string
}

func (c *collection[R, B]) register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix+"/{$}", c.list)
	mux.HandleFunc("POST "+prefix+"/{$}", c.create)
	mux.HandleFunc("GET "+prefix+"/{id}", c.get)
	mux.HandleFunc("PUT "+prefix+"/{id}", c.update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", c.delete)
}

func (c *collection[R, B]) upsert(rec R) error {
	id := c.recordID(rec)
	if id == "" {
		return fmt.Errorf("%s must have an ID", c.kind)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%s ID %q: %v", c.kind, id, err)
	}
	if parsed.String() != id {
		return fmt.Errorf("%s ID %q must be a lowercase hyphenated UUID", c.kind, id)
	}
	c.items.Set(id, rec)
	return nil
}

func (c *collection[R, B]) sorted() []R {
	items := c.items.Values()
	sort.Slice(items, func(i, j int) bool {
		return c.recordID(items[i]) < c.recordID(items[j])
	})
	return items
}

// pathID returns the canonical form of the {id} path value, or writes a 422
// and returns false when it is not a UUID.
func (c *collection[R, B]) pathID(resp http.ResponseWriter, req *http.Request) (string, bool) {
	raw := req.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		c.reg.writeDetail(resp, http.StatusUnprocessableEntity, []api.ValidationIssue{{
			Type:  "uuid_parsing",
			Loc:   []interface{}{"path", c.param},
			Msg:   fmt.Sprintf("Input should be a valid UUID, %v", err),
			Input: raw,
		}})
		return "", false
	}
	return id.String(), true
}

func (c *collection[R, B]) payload(resp http.ResponseWriter, req *http.Request) (B, bool) {
	var b B
	if err := json.NewDecoder(req.Body).Decode(&b); err != nil {
		var (
			syntaxErr *json.SyntaxError
			typeErr   *json.UnmarshalTypeError
		)
		issue := api.ValidationIssue{Type: "json_invalid", Loc: []interface{}{"body", 0}, Msg: "JSON decode error"}
		switch {
		case errors.As(err, &syntaxErr):
			issue.Loc = []interface{}{"body", syntaxErr.Offset}
		case errors.As(err, &typeErr):
			issue = api.ValidationIssue{Type: "model_attributes_type", Loc: []interface{}{"body", typeErr.Field}, Msg: typeErr.Error()}
		}
		c.reg.writeDetail(resp, http.StatusUnprocessableEntity, []api.ValidationIssue{issue})
		return b, false
	}
	if issues := c.validate(b); len(issues) > 0 {
		c.reg.writeDetail(resp, http.StatusUnprocessableEntity, issues)
		return b, false
	}
	return b, true
}

func (c *collection[R, B]) notFound(resp http.ResponseWriter, id string) {
	c.reg.writeDetail(resp, http.StatusNotFound, fmt.Sprintf("%s with ID %s not found", c.kind, id))
}

func (c *collection[R, B]) list(resp http.ResponseWriter, _ *http.Request) {
	c.reg.writeJSON(resp, http.StatusOK, c.sorted())
}

func (c *collection[R, B]) create(resp http.ResponseWriter, req *http.Request) {
	b, ok := c.payload(resp, req)
	if !ok {
		return
	}
	rec := c.toRecord(uuid.NewString(), b)
	c.items.Set(c.recordID(rec), rec)
	c.reg.writeJSON(resp, http.StatusCreated, rec)
}

func (c *collection[R, B]) get(resp http.ResponseWriter, req *http.Request) {
	id, ok := c.pathID(resp, req)
	if !ok {
		return
	}
	rec, found := c.items.GetCheck(id)
	if !found {
		c.notFound(resp, id)
		return
	}
	c.reg.writeJSON(resp, http.StatusOK, rec)
}

func (c *collection[R, B]) update(resp http.ResponseWriter, req *http.Request) {
	id, ok := c.pathID(resp, req)
	if !ok {
		return
	}
	b, ok := c.payload(resp, req)
	if !ok {
		return
	}
	rec, found := c.items.Update(id, func(R) R { return c.toRecord(id, b) })
	if !found {
		c.notFound(resp, id)
		return
	}
	c.reg.writeJSON(resp, http.StatusOK, rec)
}

func (c *collection[R, B]) delete(resp http.ResponseWriter, req *http.Request) {
	id, ok := c.pathID(resp, req)
	if !ok {
		return
	}
	if !c.items.DeleteCheck(id) {
		c.notFound(resp, id)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}
