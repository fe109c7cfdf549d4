package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/warlock/server/internal/catalog"
)

// Server exposes the read-only game catalog over HTTP so clients can
// render race/class pickers without opening a game connection.
type Server struct {
	cat     *catalog.Catalog
	origins []string
	log     *zap.Logger
}

func NewServer(cat *catalog.Catalog, origins []string, log *zap.Logger) *Server {
	return &Server{cat: cat, origins: origins, log: log}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /config", s.handleConfig)
	mux.HandleFunc("GET /config/races", s.handleRaces)
	mux.HandleFunc("GET /config/classes", s.handleClasses)
	mux.HandleFunc("GET /config/compatibility", s.handleCompatibility)
	mux.HandleFunc("GET /config/racial-abilities", s.handleRacials)
	mux.HandleFunc("GET /config/abilities/{class}", s.handleClassAbilities)
	return s.cors(mux)
}

type raceDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type racialDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Race        string             `json:"race"`
	Usage       string             `json:"usage"`
	MaxUses     int                `json:"maxUses"`
	Effect      string             `json:"effect"`
	Params      map[string]float64 `json:"params,omitempty"`
	Description string             `json:"description,omitempty"`
}

type abilityDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Class       string             `json:"class"`
	Category    string             `json:"category"`
	Target      string             `json:"target"`
	UnlockAt    int                `json:"unlockAt"`
	Cooldown    int                `json:"cooldown"`
	Effect      string             `json:"effect"`
	Params      map[string]float64 `json:"params,omitempty"`
	Description string             `json:"description,omitempty"`
}

type classDTO struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Abilities []abilityDTO `json:"abilities"`
}

func (s *Server) races() []raceDTO {
	out := make([]raceDTO, 0)
	for _, r := range s.cat.Races() {
		out = append(out, raceDTO{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return out
}

func (s *Server) racials() []racialDTO {
	out := make([]racialDTO, 0)
	for _, r := range s.cat.Races() {
		ra := r.Racial
		if ra == nil {
			continue
		}
		out = append(out, racialDTO{
			ID:          ra.ID,
			Name:        ra.Name,
			Race:        ra.RaceID,
			Usage:       string(ra.Usage),
			MaxUses:     ra.MaxUses,
			Effect:      ra.Effect,
			Params:      ra.Params,
			Description: ra.Description,
		})
	}
	return out
}

func (s *Server) classes() []classDTO {
	out := make([]classDTO, 0)
	for _, c := range s.cat.Classes() {
		dto := classDTO{ID: c.ID, Name: c.Name, Abilities: make([]abilityDTO, 0, len(c.Abilities))}
		for _, a := range c.Abilities {
			dto.Abilities = append(dto.Abilities, abilityDTO{
				ID:          a.ID,
				Name:        a.Name,
				Class:       a.ClassID,
				Category:    string(a.Category),
				Target:      string(a.Target),
				UnlockAt:    a.UnlockAt,
				Cooldown:    a.Cooldown,
				Effect:      a.Effect,
				Params:      a.Params,
				Description: a.Description,
			})
		}
		out = append(out, dto)
	}
	return out
}

// compatibility lists, per race, the classes it may play.
func (s *Server) compatibility() map[string][]string {
	out := make(map[string][]string)
	for _, r := range s.cat.Races() {
		allowed := make([]string, 0)
		for _, c := range s.cat.Classes() {
			if s.cat.Compatible(r.ID, c.ID) {
				allowed = append(allowed, c.ID)
			}
		}
		out[r.ID] = allowed
	}
	return out
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, map[string]any{
		"races":           s.races(),
		"classes":         s.classes(),
		"compatibility":   s.compatibility(),
		"racialAbilities": s.racials(),
	})
}

func (s *Server) handleRaces(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, map[string]any{"races": s.races()})
}

func (s *Server) handleClasses(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, map[string]any{"classes": s.classes()})
}

func (s *Server) handleCompatibility(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, map[string]any{"compatibility": s.compatibility()})
}

func (s *Server) handleRacials(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, map[string]any{"racialAbilities": s.racials()})
}

func (s *Server) handleClassAbilities(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("class")
	class := s.cat.Class(classID)
	if class == nil {
		http.Error(w, `{"error":"unknown class"}`, http.StatusNotFound)
		return
	}
	for _, c := range s.classes() {
		if c.ID == classID {
			s.respond(w, map[string]any{"abilities": c.Abilities})
			return
		}
	}
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

// cors answers preflight requests and stamps allowed origins. An origin
// list of ["*"] opens the catalog to any site, which is the default since
// the data is public.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := s.allowOrigin(origin); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	for _, o := range s.origins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}
