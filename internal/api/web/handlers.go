package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
	"github.com/fortuna/acbscout/internal/models"
	"github.com/fortuna/acbscout/internal/snapshot"
)

// ErrPlayerNotFound is returned when a code is absent from the unified
// snapshot, or the snapshot itself is missing.
var ErrPlayerNotFound = errors.New("player not found")

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"str": func(s *string, fallback string) string {
		if s == nil || *s == "" {
			return fallback
		}
		return *s
	},
	"num": func(n *int) string {
		if n == nil {
			return "-"
		}
		return strconv.Itoa(*n)
	},
	"height": func(feet, inches *int) string {
		if feet == nil || *feet == 0 {
			return "N/A"
		}
		in := 0
		if inches != nil {
			in = *inches
		}
		return strconv.Itoa(*feet) + "'" + strconv.Itoa(in) + `"`
	},
	"avg": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
}

// Handler serves the dashboard pages and the JSON API from the latest
// snapshots. Files are re-read on every request.
type Handler struct {
	store  *snapshot.Store
	index  *template.Template
	player *template.Template
	logger *zap.Logger
}

// NewHandler parses the embedded templates.
func NewHandler(store *snapshot.Store, logger *zap.Logger) (*Handler, error) {
	index, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse index template")
	}
	player, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/player.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse player template")
	}
	return &Handler{
		store:  store,
		index:  index,
		player: player,
		logger: logging.OrNop(logger).Named("web"),
	}, nil
}

type indexPage struct {
	ExportDate string
	Players    []models.SummaryPlayer
	Teams      []string
	States     []string
	Filter     Filter
	SortName   string
	SortTeam   string
}

// Index renders the filterable player listing.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summary()
	if err != nil {
		h.logger.Error("load summary", zap.Error(err))
		http.Error(w, "failed to load players", http.StatusInternalServerError)
		return
	}

	f := ParseFilter(r.URL.Query())
	teams, states := Options(summary.Players)
	page := indexPage{
		ExportDate: summary.ExportDate,
		Players:    f.Apply(summary.Players),
		Teams:      teams,
		States:     states,
		Filter:     f,
		SortName:   f.SortURL(SortByName),
		SortTeam:   f.SortURL(SortByTeam),
	}
	h.render(w, h.index, page)
}

// Player renders one player's detail page.
func (h *Handler) Player(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup(mux.Vars(r)["code"])
	if errors.Is(err, ErrPlayerNotFound) {
		http.Error(w, "Player not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("load player", zap.Error(err))
		http.Error(w, "failed to load player", http.StatusInternalServerError)
		return
	}
	h.render(w, h.player, p)
}

type playersResponse struct {
	ExportDate string                 `json:"export_date"`
	Count      int                    `json:"count"`
	Teams      []string               `json:"teams"`
	States     []string               `json:"states"`
	Players    []models.SummaryPlayer `json:"players"`
}

// APIPlayers returns the filtered listing as JSON.
func (h *Handler) APIPlayers(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summary()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load players", err)
		return
	}
	players := ParseFilter(r.URL.Query()).Apply(summary.Players)
	teams, states := Options(summary.Players)
	respondJSON(w, http.StatusOK, playersResponse{
		ExportDate: summary.ExportDate,
		Count:      len(players),
		Teams:      teams,
		States:     states,
		Players:    players,
	})
}

// APIPlayer returns one unified record as JSON.
func (h *Handler) APIPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup(mux.Vars(r)["code"])
	if errors.Is(err, ErrPlayerNotFound) {
		respondError(w, http.StatusNotFound, "Player not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load player", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Health reports liveness and whether a summary snapshot is present.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	var summary snapshot.SummaryFile
	ready := h.store.ReadName(snapshot.LatestFilename(snapshot.PlayersSummary), &summary) == nil
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"service":     "acbscout",
		"data_loaded": ready,
	})
}

// summary reads the latest listing snapshot. A missing file is an empty
// listing.
func (h *Handler) summary() (snapshot.SummaryFile, error) {
	var summary snapshot.SummaryFile
	err := h.store.ReadName(snapshot.LatestFilename(snapshot.PlayersSummary), &summary)
	if errors.Is(err, snapshot.ErrNotFound) {
		return snapshot.SummaryFile{Header: snapshot.Header{ExportDate: "No data"}}, nil
	}
	if err != nil {
		return snapshot.SummaryFile{}, err
	}
	return summary, nil
}

func (h *Handler) lookup(code string) (*models.UnifiedPlayerRecord, error) {
	var unified snapshot.UnifiedFile
	err := h.store.ReadName(snapshot.LatestFilename(snapshot.UnifiedPlayers), &unified)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	for i := range unified.Players {
		if unified.Players[i].Code == code {
			return &unified.Players[i], nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (h *Handler) render(w http.ResponseWriter, t *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		h.logger.Error("render template", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := sonic.Marshal(data)
	if err != nil {
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
