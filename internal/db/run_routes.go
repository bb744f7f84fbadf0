package db

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/banshee-data/water.raster/internal/httputil"
	"github.com/banshee-data/water.raster/internal/product"
	"github.com/banshee-data/water.raster/internal/raster"
)

// handleRuns lists stored runs, newest first. ?limit=N caps the list.
func (db *DB) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			httputil.WriteJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := db.ListRuns(limit)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []RasterRun{}
	}
	httputil.WriteJSON(w, http.StatusOK, runs)
}

// handleRun serves one stored product: ?id=<run>&format=json|png|html|asc
// with ?channel selecting the rendered channel (default wse).
func (db *DB) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		httputil.WriteJSONError(w, http.StatusBadRequest, "missing id")
		return
	}
	channel := q.Get("channel")
	if channel == "" {
		channel = raster.ChannelWSE
	}

	p, err := db.LoadRaster(id)
	if errors.Is(err, ErrRunNotFound) {
		httputil.WriteJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if format := q.Get("format"); format != "" && format != "json" && p.Channel(channel) == nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, "unknown channel "+channel)
		return
	}

	switch q.Get("format") {
	case "", "json":
		httputil.Render(w, "application/json", func(out io.Writer) error { return product.WriteJSON(out, p) })
	case "png":
		httputil.Render(w, "image/png", func(out io.Writer) error { return product.WritePNG(out, p, channel) })
	case "html":
		httputil.Render(w, "text/html; charset=utf-8", func(out io.Writer) error { return product.WriteHTML(out, p, channel) })
	case "asc":
		httputil.Attachment(w, channel+".asc")
		httputil.Render(w, "text/plain; charset=utf-8", func(out io.Writer) error { return product.WriteASCIIGrid(out, p, channel) })
	default:
		httputil.WriteJSONError(w, http.StatusBadRequest, "format must be json, png, html or asc")
	}
}
