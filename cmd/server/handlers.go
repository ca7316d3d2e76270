package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"contentguard/internal/audit"
	"contentguard/internal/ioformats"
	"contentguard/internal/models"
	"contentguard/pkg/logger"
)

// auditReq accepts either a keyword list or the comma separated form.
type auditReq struct {
	Keywords     []string `json:"keywords"`
	KeywordsText string   `json:"keywords_text"`
}

func (r auditReq) all() []string {
	out := append([]string{}, r.Keywords...)
	if r.KeywordsText != "" {
		out = append(out, audit.ParseKeywordList(r.KeywordsText)...)
	}
	return out
}

type inventoryResp struct {
	Count    int              `json:"count"`
	URLs     []string         `json:"urls"`
	Warnings []models.Warning `json:"warnings,omitempty"`
	Cached   bool             `json:"cached"`
}

// auditor is the part of *audit.Service the handlers use.
type auditor interface {
	RunAudit(ctx context.Context, keywords []string) (models.Report, error)
	InvalidateCache()
}

func newMux(svc *audit.Service, l *logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /audit  { "keywords": ["..."] } or { "keywords_text": "a, b" }
	mux.HandleFunc("/audit", func(w http.ResponseWriter, r *http.Request) {
		rep, ok := runAudit(svc, l, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, rep)
	})

	// POST /audit/csv  same payload, CSV download
	mux.HandleFunc("/audit/csv", func(w http.ResponseWriter, r *http.Request) {
		rep, ok := runAudit(svc, l, w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="blog_audit.csv"`)
		if err := ioformats.WriteCSV(w, rep.Records); err != nil {
			l.Errorf("write csv: %v", err)
		}
	})

	// POST /cache/invalidate
	mux.HandleFunc("/cache/invalidate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		svc.InvalidateCache()
		w.WriteHeader(http.StatusNoContent)
	})

	// GET /inventory
	mux.HandleFunc("/inventory", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		res, hit, err := svc.Inventory(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		urls := []string(res.URLs)
		if urls == nil {
			urls = []string{}
		}
		writeJSON(w, http.StatusOK, inventoryResp{Count: len(urls), URLs: urls, Warnings: res.Warnings, Cached: hit})
	})

	return mux
}

func runAudit(svc auditor, l *logger.Logger, w http.ResponseWriter, r *http.Request) (models.Report, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return models.Report{}, false
	}
	var req auditReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return models.Report{}, false
	}
	rep, err := svc.RunAudit(r.Context(), req.all())
	switch {
	case errors.Is(err, audit.ErrNoKeywords):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "please enter keywords"})
		return models.Report{}, false
	case err != nil:
		l.Errorf("audit: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return models.Report{}, false
	}
	return rep, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
