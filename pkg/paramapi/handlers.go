package paramapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/visual/pkg/contextkeys"
	"github.com/platinummonkey/visual/pkg/httputil"
	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/param"
	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ParamView is the JSON form of one container entry
type ParamView struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        param.Type `json:"type"`
	Set         bool       `json:"set"`
	Value       any        `json:"value,omitempty"`
}

// SetValueRequest is the body of PUT /params/{name}. Value is decoded
// according to the declared type of the parameter, the same way manifest
// defaults are.
type SetValueRequest struct {
	Value json.RawMessage `json:"value"`
}

// Handlers serves a parameter container over HTTP. Every container access
// goes through one mutex because containers are not safe for concurrent
// use.
type Handlers struct {
	mu     sync.Mutex
	params *param.Container
	logger *logrus.Logger
}

// NewHandlers takes over the caller's reference to params
func NewHandlers(params *param.Container, logger *logrus.Logger) *Handlers {
	return &Handlers{
		params: params,
		logger: observability.OrDefault(logger),
	}
}

// RegisterRoutes registers parameter routes
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/params", h.listParams).Methods("GET")
	router.HandleFunc("/params/{name}", h.getParam).Methods("GET")
	router.HandleFunc("/params/{name}", h.setParam).Methods("PUT")
	router.HandleFunc("/debug/objects", h.listObjects).Methods("GET")
}

// Apply pushes a manifest into the served container
func (h *Handlers) Apply(m *param.Manifest) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.params == nil {
		return fmt.Errorf("apply manifest: %w", verrors.ErrDestroyed)
	}
	return m.Apply(h.params)
}

// Snapshot returns the served parameters as a manifest
func (h *Handlers) Snapshot() (*param.Manifest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.params == nil {
		return nil, fmt.Errorf("snapshot: %w", verrors.ErrDestroyed)
	}
	return param.ManifestFromContainer(h.params)
}

// Check reports whether the container is still being served
func (h *Handlers) Check(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.params == nil {
		return fmt.Errorf("param container: %w", verrors.ErrDestroyed)
	}
	return nil
}

// Close drops the container reference. Later requests get 503.
func (h *Handlers) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.params == nil {
		return nil
	}
	_, err := h.params.Unref()
	h.params = nil
	return err
}

// listParams handles GET /params
func (h *Handlers) listParams(w http.ResponseWriter, r *http.Request) {
	setOnly, err := httputil.ParseQueryBool(r, "set", false)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	h.mu.Lock()
	if h.params == nil {
		h.mu.Unlock()
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "param container closed")
		return
	}

	views := make([]ParamView, 0, h.params.Len())
	for info, v := range h.params.All() {
		if setOnly && !v.IsSet() {
			continue
		}
		views = append(views, newView(info, v))
	}
	h.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"params": views,
		"count":  len(views),
	})
}

// getParam handles GET /params/{name}
func (h *Handlers) getParam(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	h.mu.Lock()
	if h.params == nil {
		h.mu.Unlock()
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "param container closed")
		return
	}

	e, found := h.params.Entry(name)
	var view ParamView
	if found {
		view = newView(e.Info, &e.Value)
	}
	h.mu.Unlock()

	if !found {
		httputil.WriteNotFoundError(w, fmt.Sprintf("param %q not found", name))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// setParam handles PUT /params/{name}
func (h *Handlers) setParam(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	var req SetValueRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	// JSON is valid YAML, so the manifest decoder handles the value
	var node yaml.Node
	if len(req.Value) > 0 {
		if err := yaml.Unmarshal(req.Value, &node); err != nil {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.params == nil {
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "param container closed")
		return
	}

	e, found := h.params.Entry(name)
	if !found {
		httputil.WriteNotFoundError(w, fmt.Sprintf("param %q not found", name))
		return
	}

	spec := param.Spec{Info: e.Info}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 && node.Content[0].ShortTag() != "!!null" {
		spec.Default = node.Content[0]
	}

	v, err := spec.Value()
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	defer v.Unset()

	if err := h.params.SetParamValue(name, v); err != nil {
		switch {
		case errors.Is(err, verrors.ErrTypeMismatch):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, verrors.ErrNotFound):
			httputil.WriteNotFoundError(w, err.Error())
		default:
			httputil.WriteInternalError(w, err)
		}
		return
	}

	h.logger.WithFields(logrus.Fields{
		"param":      name,
		"type":       e.Type.String(),
		"value":      e.Value.String(),
		"request_id": contextkeys.GetRequestID(r.Context()),
	}).Info("param updated")

	httputil.WriteJSON(w, http.StatusOK, newView(e.Info, &e.Value))
}

// listObjects handles GET /debug/objects
func (h *Handlers) listObjects(w http.ResponseWriter, r *http.Request) {
	if !object.TrackingEnabled() {
		httputil.WriteNotFoundError(w, "object tracking disabled")
		return
	}

	ids := object.LiveObjects()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"objects": out,
		"count":   len(out),
	})
}

func newView(info param.Info, v *param.Value) ParamView {
	return ParamView{
		Name:        info.Name,
		Description: info.Description,
		Type:        info.Type,
		Set:         v.IsSet(),
		Value:       v.Interface(),
	}
}
