package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/serdetable/internal/logging"
	"github.com/JonMunkholm/serdetable/internal/schemas"
	"github.com/JonMunkholm/serdetable/table"
)

// gridRequest is the JSON body accepted by the parse endpoint.
type gridRequest struct {
	Rows [][]string `json:"rows"`
}

// ParseResponse is returned by a successful conversion.
type ParseResponse struct {
	Schema  string `json:"schema"`
	Count   int    `json:"count"`
	Records any    `json:"records"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":      "ok",
		"schemas":     schemas.Count(),
		"conversions": s.conversions.status(),
	})
}

// handleListSchemas returns every registered schema with its columns.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	defs := schemas.All()
	infos := make([]schemas.Info, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	writeJSON(w, infos)
}

// handleDownloadTemplate sends a header-only table for a schema.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	def, err := schemas.Lookup(key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.txt"`, key))
	fmt.Fprintln(w, schemas.Template(def).String())
}

// handleParse converts the request body into records of a schema.
//
// The body is a raw text table (text/plain), a JSON grid
// (application/json, {"rows": [[...], ...]}) or a multipart form with a
// "file" field holding a text table.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	def, err := schemas.Lookup(key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.conversions.acquire(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.conversions.release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Parse.MaxBodySize)

	t, err := readTable(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	log := logging.WithFields(r.Context(), "schema", key, "rows", len(t))
	start := time.Now()

	records, n, err := def.Parse(t, opts...)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	log.Info("table converted",
		"records", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, ParseResponse{Schema: key, Count: n, Records: records})
}

// parseOptions builds decoding options from the query string.
func (s *Server) parseOptions(r *http.Request) ([]table.Option, error) {
	q := r.URL.Query()
	var opts []table.Option

	if cols := q.Get("columns"); cols != "" {
		opts = append(opts, table.WithColumns(splitColumns(cols)...))
	}

	allowUnknown := s.cfg.Parse.AllowUnknownColumns
	if v := q.Get("allow_unknown"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid allow_unknown value %q", v)
		}
		allowUnknown = b
	}
	if allowUnknown {
		opts = append(opts, table.AllowUnknownColumns())
	}

	return opts, nil
}

// readTable reads the request body into a Table according to its
// content type.
func readTable(r *http.Request) (table.Table, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req gridRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return table.Table{}, nil
			}
			return nil, bodyError(err)
		}
		return table.FromGrid(req.Rows), nil

	case "multipart/form-data":
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, bodyError(err)
		}
		defer file.Close()
		return readText(file)

	default:
		return readText(r.Body)
	}
}

func readText(body io.Reader) (table.Table, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, bodyError(err)
	}
	return table.Read(bytes.NewReader(data))
}

// bodyError turns size-limit failures into errBodyTooLarge.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return errMissingFile
	}
	return fmt.Errorf("invalid request body: %w", err)
}

func splitColumns(s string) []string {
	parts := strings.Split(s, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cols = append(cols, p)
		}
	}
	return cols
}
