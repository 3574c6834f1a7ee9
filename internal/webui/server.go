package webui

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kayz/promptbuilder/internal/logger"
	"github.com/kayz/promptbuilder/internal/promptbuild"
)

const (
	sessionCookie = "pb_session"

	maxBuildBodyBytes = 256 << 10
)

// PromptBuilder is the part of promptbuild.Builder the server needs.
type PromptBuilder interface {
	Build(req promptbuild.BuildRequest) (promptbuild.Result, error)
	Templates() ([]string, error)
}

// Options tunes session handling.
type Options struct {
	// HistoryLimit caps entries per browser session; 0 keeps everything.
	HistoryLimit int
	// SessionTTL is the idle time after which a session is evicted.
	SessionTTL time.Duration
}

type Server struct {
	builder   PromptBuilder
	opts      Options
	startedAt time.Time

	mu       sync.Mutex
	sessions map[string]*promptbuild.Session

	registry        *prometheus.Registry
	builtTotal      *prometheus.CounterVec
	incompleteTotal prometheus.Counter
}

func NewServer(builder PromptBuilder, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	s := &Server{
		builder:   builder,
		opts:      opts,
		startedAt: time.Now().UTC(),
		sessions:  make(map[string]*promptbuild.Session),
		registry:  prometheus.NewRegistry(),
		builtTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptbuilder_prompts_built_total",
			Help: "Prompts assembled through the web UI, by template.",
		}, []string{"template"}),
		incompleteTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbuilder_incomplete_requests_total",
			Help: "Build requests rejected because a required field was blank.",
		}),
	}
	s.registry.MustRegister(
		s.builtTotal,
		s.incompleteTotal,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "promptbuilder_active_sessions",
			Help: "Browser sessions currently holding history.",
		}, func() float64 { return float64(s.sessionCount()) }),
	)
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/templates", s.handleTemplates)
	mux.HandleFunc("/api/build", s.handleBuild)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/download", s.handleDownload)
	mux.HandleFunc("/api/clear", s.handleClear)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(defaultIndexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
		"sessions":   s.sessionCount(),
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	names, err := s.builder.Templates()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": names})
}

// buildRequest accepts list fields either as JSON arrays or as one-per-line text.
type buildRequest struct {
	promptbuild.BuildRequest
	ConstraintsText string `json:"constraints_text,omitempty"`
	MustIncludeText string `json:"must_include_text,omitempty"`
	MustAvoidText   string `json:"must_avoid_text,omitempty"`
}

func (r buildRequest) normalized() promptbuild.BuildRequest {
	out := r.BuildRequest
	if len(out.Constraints) == 0 {
		out.Constraints = promptbuild.SplitLines(r.ConstraintsText)
	}
	if len(out.MustInclude) == 0 {
		out.MustInclude = promptbuild.SplitLines(r.MustIncludeText)
	}
	if len(out.MustAvoid) == 0 {
		out.MustAvoid = promptbuild.SplitLines(r.MustAvoidText)
	}
	return out
}

type buildResponse struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Template string   `json:"template"`
	Sections []string `json:"sections"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBuildBodyBytes)
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	res, err := s.builder.Build(req.normalized())
	if err != nil {
		if field, ok := promptbuild.MissingField(err); ok {
			s.incompleteTotal.Inc()
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error(), "field": field})
			return
		}
		if errors.Is(err, promptbuild.ErrUnknownTemplate) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		logger.Error("Web build failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	entry := promptbuild.NewEntry(res)
	s.appendEntry(w, r, entry)
	s.builtTotal.WithLabelValues(res.Template).Inc()

	writeJSON(w, http.StatusOK, buildResponse{
		ID:       entry.ID,
		Prompt:   res.Prompt,
		Template: res.Template,
		Sections: res.Sections,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.session(w, r).Entries()
	if entries == nil {
		entries = []promptbuild.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var (
		entry promptbuild.Entry
		ok    bool
	)
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		entry, ok = sess.Get(id)
	} else {
		entry, ok = sess.Last()
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no prompt generated yet"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": promptbuild.DefaultExportName,
	}))
	_, _ = w.Write([]byte(entry.Prompt))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	s.session(w, r).Clear()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// session returns the caller's session, creating it and setting the cookie when needed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *promptbuild.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionLocked(w, r)
}

// appendEntry stores entry in the caller's session while holding the session map lock,
// so idle eviction cannot drop the session between lookup and append.
func (s *Server) appendEntry(w http.ResponseWriter, r *http.Request, entry promptbuild.Entry) *promptbuild.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(w, r)
	sess.Append(entry)
	return sess
}

// sessionLocked requires s.mu.
func (s *Server) sessionLocked(w http.ResponseWriter, r *http.Request) *promptbuild.Session {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			sess.Touch()
			return sess
		}
	} else {
		id = uuid.NewString()
	}

	sess := promptbuild.NewSession(id, s.opts.HistoryLimit)
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdleSessions drops sessions idle for longer than the configured TTL.
func (s *Server) EvictIdleSessions(now time.Time) int {
	cutoff := now.Add(-s.opts.SessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.IdleSince(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
