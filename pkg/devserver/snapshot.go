package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weft-ui/weft/pkg/element"
	"github.com/weft-ui/weft/pkg/snapshot"
)

// snapshotResponse is the body of a successful snapshot request.
type snapshotResponse struct {
	ID      string `json:"id"`
	Element string `json:"element"`
	HTML    string `json:"html"`
}

// oneShotHost attaches instances to plain fragments with no session
// behind them.
type oneShotHost struct {
	target *RenderTarget
}

func (h *oneShotHost) CreateTarget(elementName string, instanceID uint64) element.Target {
	h.target = &RenderTarget{
		ElementName: elementName,
		InstanceID:  instanceID,
	}
	return h.target
}

// handleTakeSnapshot renders an element once, outside any session, and
// persists the resulting fragment. Query parameters seed the instance's
// observed attributes.
func (s *Server) handleTakeSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def := s.registry.Lookup(name)
	if def == nil {
		http.NotFound(w, r)
		return
	}

	props := map[string]any{}
	query := r.URL.Query()
	for _, attr := range def.Observed() {
		if query.Has(attr) {
			props[attr] = query.Get(attr)
		}
	}

	html, err := s.renderOnce(def, props)
	if err != nil {
		s.logger.Printf("snapshot %q: %v", name, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	snap := &snapshot.Snapshot{Element: name, HTML: html}
	id, err := s.snapshots.Save(r.Context(), snap)
	if err != nil {
		s.logger.Printf("snapshot %q: save: %v", name, err)
		http.Error(w, "snapshot store failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshotResponse{ID: id, Element: name, HTML: html})
}

// handleGetSnapshot serves a stored fragment by ID.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := s.snapshots.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Printf("snapshot %q: get: %v", id, err)
		http.Error(w, "snapshot store failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(snap.HTML))
}

// renderOnce constructs a throwaway instance long enough to capture its
// first render, then destroys it.
func (s *Server) renderOnce(def *element.Definition, props map[string]any) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering %q: %v", def.Name(), r)
		}
	}()

	host := &oneShotHost{}
	opts := []element.InstanceOption{element.WithProps(props)}
	for _, o := range s.observers {
		opts = append(opts, element.WithObserver(o))
	}

	inst, err := element.NewInstance(def, host, s.renderer, opts...)
	if err != nil {
		return "", err
	}
	defer inst.Destroy()

	return host.target.HTML(), nil
}
