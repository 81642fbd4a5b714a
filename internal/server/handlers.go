package server

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/shotgrid/pkg/buildinfo"
	"github.com/matzehuels/shotgrid/pkg/errors"
	shotio "github.com/matzehuels/shotgrid/pkg/io"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/observability"
	"github.com/matzehuels/shotgrid/pkg/pipeline"
	"github.com/matzehuels/shotgrid/pkg/session"
	"github.com/matzehuels/shotgrid/pkg/shot"
	"github.com/matzehuels/shotgrid/pkg/store"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
}

type handlers struct {
	cfg Config
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Build   buildinfo.Info `json:"build"`
	UptimeS int64          `json:"uptime_s"`

	Counts *observability.Counts `json:"counts,omitempty"`
}

// EditsResponse is the body of GET /edits.
type EditsResponse struct {
	Edits []store.Summary `json:"edits"`
}

// HitResponse reports what lies under a point.
type HitResponse struct {
	InRegion bool         `json:"in_region"`
	Hit      bool         `json:"hit"`
	Shot     int          `json:"shot"`
	Name     string       `json:"name,omitempty"`
	Group    string       `json:"group,omitempty"`
	Rect     *layout.Rect `json:"rect,omitempty"`
}

// ViewResponse describes a view session.
type ViewResponse struct {
	ID        string    `json:"id"`
	EditID    string    `json:"edit_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Selected  int       `json:"selected"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Build:   buildinfo.Get(),
		UptimeS: int64(time.Since(h.cfg.StartTime).Seconds()),
	}
	if h.cfg.Recorder != nil {
		counts := h.cfg.Recorder.Counts()
		resp.Counts = &counts
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) listEdits(w http.ResponseWriter, r *http.Request) {
	edits, err := h.cfg.Store.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	if edits == nil {
		edits = []store.Summary{}
	}
	WriteJSON(w, http.StatusOK, EditsResponse{Edits: edits})
}

func (h *handlers) getEdit(w http.ResponseWriter, r *http.Request) {
	e, err := h.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

func (h *handlers) putEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := shotio.ReadJSON(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		WriteError(w, err)
		return
	}
	if e.ID != id {
		WriteError(w, errors.New(errors.ErrCodeInvalidInput, "edit id %q does not match the url id %q", e.ID, id))
		return
	}
	if err := h.cfg.Store.Put(r.Context(), e); err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

// layoutFor loads an edit and computes its layout for the request geometry.
func (h *handlers) layoutFor(r *http.Request) (*shot.Edit, layout.Snapshot, pipeline.Options, bool, error) {
	opts, err := optionsFromQuery(r.URL.Query(), h.cfg.Defaults)
	if err != nil {
		return nil, layout.Snapshot{}, opts, false, err
	}
	e, err := h.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, layout.Snapshot{}, opts, false, err
	}
	opts.Edit = e
	snap, _, hit, err := h.cfg.Runner.ComputeLayoutWithCacheInfo(r.Context(), e, opts)
	return e, snap, opts, hit, err
}

func (h *handlers) editLayout(w http.ResponseWriter, r *http.Request) {
	e, snap, opts, hit, err := h.layoutFor(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	setCacheHeader(w, hit)
	h.writeArtifact(r.Context(), w, pipeline.FormatJSON, snap, e, opts)
}

func (h *handlers) editHit(w http.ResponseWriter, r *http.Request) {
	p, err := pointFromQuery(r.URL.Query())
	if err != nil {
		WriteError(w, err)
		return
	}
	e, snap, _, _, err := h.layoutFor(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, hitAt(e, snap, p))
}

func (h *handlers) editRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		WriteError(w, err)
		return
	}
	e, snap, opts, _, err := h.layoutFor(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeArtifact(r.Context(), w, format, snap, e, opts)
}

func (h *handlers) exportCSV(w http.ResponseWriter, r *http.Request) {
	e, err := h.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := shotio.WriteCSV(e, &buf); err != nil {
		WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "export csv"))
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+e.ID+`.csv"`)
	writeBytes(w, "text/csv; charset=utf-8", buf.Bytes())
}

// =============================================================================
// View sessions
// =============================================================================

func (h *handlers) createView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.cfg.Store.Get(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	sess, err := session.New(id, session.DefaultTTL)
	if err != nil {
		WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "create view"))
		return
	}
	if err := h.cfg.Sessions.Set(r.Context(), sess); err != nil {
		WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "store view"))
		return
	}
	WriteJSON(w, http.StatusCreated, viewResponse(sess))
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.cfg.Sessions.Get(r.Context(), chi.URLParam(r, "vid"))
	if err != nil {
		writeSessionError(w, err)
		return nil, false
	}
	sess.Touch()
	return sess, true
}

func (h *handlers) viewLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.view(w, r)
	if !ok {
		return
	}
	opts, err := optionsFromQuery(r.URL.Query(), h.cfg.Defaults)
	if err != nil {
		WriteError(w, err)
		return
	}
	e, err := h.cfg.Store.Get(r.Context(), sess.EditID)
	if err != nil {
		WriteError(w, err)
		return
	}
	opts.Edit = e
	snap, err := h.cfg.Runner.Sync(r.Context(), sess.Layout, e, opts)
	if err != nil {
		WriteError(w, err)
		return
	}
	sel := sess.Selected()
	opts.Selected = &sel
	h.writeArtifact(r.Context(), w, pipeline.FormatJSON, snap, e, opts)
}

func (h *handlers) viewSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.view(w, r)
	if !ok {
		return
	}
	p, err := pointFromQuery(r.URL.Query())
	if err != nil {
		WriteError(w, err)
		return
	}
	snap, ok := sess.Layout.Current()
	if !ok {
		writeErrorResponse(w, http.StatusConflict, "view has no layout yet; request /layout first", "NO_LAYOUT")
		return
	}
	e, err := h.cfg.Store.Get(r.Context(), sess.EditID)
	if err != nil {
		WriteError(w, err)
		return
	}
	hit := hitAt(e, snap, p)
	// Clicks outside the draw region belong to the host UI and keep the
	// current selection.
	if hit.InRegion {
		sess.Select(hit.Shot)
	}
	WriteJSON(w, http.StatusOK, hit)
}

func (h *handlers) viewRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.view(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		WriteError(w, err)
		return
	}
	snap, ok := sess.Layout.Current()
	if !ok {
		writeErrorResponse(w, http.StatusConflict, "view has no layout yet; request /layout first", "NO_LAYOUT")
		return
	}
	opts, err := optionsFromQuery(r.URL.Query(), h.cfg.Defaults)
	if err != nil {
		WriteError(w, err)
		return
	}
	e, err := h.cfg.Store.Get(r.Context(), sess.EditID)
	if err != nil {
		WriteError(w, err)
		return
	}
	sel := sess.Selected()
	opts.Edit = e
	opts.Selected = &sel
	h.writeArtifact(r.Context(), w, format, snap, e, opts)
}

func (h *handlers) deleteView(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Sessions.Delete(r.Context(), chi.URLParam(r, "vid")); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (h *handlers) writeArtifact(ctx context.Context, w http.ResponseWriter, format string, snap layout.Snapshot, e *shot.Edit, opts pipeline.Options) {
	opts.Formats = []string{format}
	artifacts, err := h.cfg.Runner.Render(ctx, snap, e, opts)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeBytes(w, contentTypes[format], artifacts[format])
}

func hitAt(e *shot.Edit, snap layout.Snapshot, p layout.Point) HitResponse {
	resp := HitResponse{InRegion: snap.InRegion(p), Shot: -1}
	pl, ok := snap.At(p)
	if !ok {
		return resp
	}
	rect := pl.Rect(snap.Size)
	resp.Hit = true
	resp.Shot = pl.Shot
	resp.Rect = &rect
	if pl.Shot < len(e.Shots) {
		resp.Name = e.Shots[pl.Shot].Name
	}
	if g, ok := snap.GroupOf(pl); ok {
		resp.Group = g.Name
	}
	return resp
}

func viewResponse(s *session.Session) ViewResponse {
	return ViewResponse{ID: s.ID, EditID: s.EditID, ExpiresAt: s.ExpiresAt, Selected: s.Selected()}
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}
