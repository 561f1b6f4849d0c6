package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/rstreport/internal/analyze"
	"github.com/dgallion1/rstreport/internal/distree"
	"github.com/dgallion1/rstreport/internal/report"
	"github.com/dgallion1/rstreport/internal/rs3"
)

// handleAnalyze accepts one RS3 file as a multipart upload and returns its
// report synchronously. The "format" form value selects text (default),
// markdown, html or json.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.HasSuffix(filename, s.cfg.FileSuffix) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s (want %s)", filepath.Ext(filename), s.cfg.FileSuffix), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := rs3.Parse(bytes.NewReader(data))
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	root, buildStats := distree.Build(doc.Segments, doc.Groups)
	if root == nil {
		s.log.Warn("no root node found", "filename", filename)
	}
	res := analyze.Analyze(root, analyze.Options{
		Directionality: s.cfg.Directionality,
		Log:            s.log,
	})

	format := r.FormValue("format")
	if format == "" {
		format = "text"
	}

	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, report.Render(root, res))
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, report.Markdown(filename, root, res))
	case "html":
		html, err := report.HTML(report.Markdown(filename, root, res))
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, html)
	case "json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"filename": filename,
			"has_root": root != nil,
			"nodes":    buildStats.Nodes,
			"orphans":  buildStats.Orphans,
			"analysis": res,
			"relations": map[string]any{
				"rst":      doc.RSTRelations(),
				"multinuc": doc.MultinucRelations(),
			},
		})
	default:
		jsonError(w, fmt.Sprintf("unknown format: %s", format), http.StatusBadRequest)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
