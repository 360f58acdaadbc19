package fakegym

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type ctxKeyUser struct{}

type errorBody struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func userID(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyUser{}).(int64)
	return id
}

func (s *Server) register(mx chi.Router) {
	mx.Use(s.track)

	mx.Post("/user/login/", s.login)
	mx.Post("/token/refresh/", s.refreshToken)
	mx.Get("/user/test/", s.ping)

	mx.Group(func(mx chi.Router) {
		mx.Use(s.auth)
		mx.Post("/user/auth/", s.profile)
		mx.Get("/user/classes/", s.listClasses)
		mx.Post("/user/book-class/", s.bookClass)
		mx.Delete("/user/cancel-booking/{classID}/", s.cancelBooking)
		mx.Get("/user/events/", s.listEvents)
	})
}

// track counts the request and blocks it while its path is held.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, Prefix)

		s.mu.Lock()
		s.hits[path]++
		s.requestIDs[path] = append(s.requestIDs[path], r.Header.Get("X-Request-ID"))
		gate := s.gates[path]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		s.mu.Lock()
		s.authHeaders = append(s.authHeaders, header)
		forced := s.rejectNext > 0
		if forced {
			s.rejectNext--
		}
		s.mu.Unlock()

		token, found := strings.CutPrefix(header, "Bearer ")
		var id int64
		ok := false
		if found && !forced {
			id, ok = s.validAccess(token)
		}
		if !ok {
			s.mu.Lock()
			s.unauthorized++
			s.mu.Unlock()
			respondJSON(w, http.StatusUnauthorized, errorBody{
				Detail: "Given token not valid for any token type",
				Code:   "token_not_valid",
			})
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Detail: "malformed request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok || u.password != req.Password {
		respondJSON(w, http.StatusUnauthorized, errorBody{Detail: "No active account found with the given credentials"})
		return
	}

	access, refresh := s.issueLocked(u.id)
	respondJSON(w, http.StatusOK, models.LoginResponse{Access: access, Refresh: refresh, UserID: u.id})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Detail: "malformed request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshTokens = append(s.refreshTokens, req.Refresh)

	if s.refreshStatus != 0 {
		respondJSON(w, s.refreshStatus, errorBody{Detail: "Token is invalid or expired", Code: "token_not_valid"})
		return
	}

	id, ok := s.refresh[req.Refresh]
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorBody{Detail: "Token is invalid or expired", Code: "token_not_valid"})
		return
	}

	pair := models.TokenPair{}
	if s.rotate {
		delete(s.refresh, req.Refresh)
		pair.Access, pair.Refresh = s.issueLocked(id)
	} else {
		pair.Access, _ = s.issueLocked(id)
	}
	respondJSON(w, http.StatusOK, pair)
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	id := userID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		for _, u := range s.users {
			if u.id == id {
				p.Email = u.email
			}
		}
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) listClasses(w http.ResponseWriter, r *http.Request) {
	id := userID(r.Context())
	date := r.URL.Query().Get("date")
	if date == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "date is required"})
		return
	}
	if q := r.URL.Query().Get("userId"); q != strconv.FormatInt(id, 10) {
		respondJSON(w, http.StatusForbidden, errorBody{Detail: "You do not have permission to perform this action."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	classes := make([]models.ClassOccurrence, 0, len(s.classes[date]))
	for _, c := range s.classes[date] {
		_, c.Booked = s.bookings[id][c.ClassID]
		classes = append(classes, c)
	}
	respondJSON(w, http.StatusOK, map[string]any{"classes": classes})
}

func (s *Server) classExists(classID int64) bool {
	for _, day := range s.classes {
		for _, c := range day {
			if c.ClassID == classID {
				return true
			}
		}
	}
	return false
}

func (s *Server) bookClass(w http.ResponseWriter, r *http.Request) {
	id := userID(r.Context())

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request"})
		return
	}
	if req.UserID != id {
		respondJSON(w, http.StatusForbidden, errorBody{Detail: "You do not have permission to perform this action."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.classExists(req.ClassID) {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "Class not found"})
		return
	}
	if _, booked := s.bookings[id][req.ClassID]; booked {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "Class already booked"})
		return
	}
	if s.bookings[id] == nil {
		s.bookings[id] = map[int64]int64{}
	}
	s.bookings[id][req.ClassID] = req.MembershipID
	respondJSON(w, http.StatusCreated, errorBody{Detail: "Class booked successfully"})
}

func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id := userID(r.Context())

	classID, err := strconv.ParseInt(chi.URLParam(r, "classID"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid class id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, booked := s.bookings[id][classID]; !booked {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "Booking not found"})
		return
	}
	delete(s.bookings[id], classID)
	respondJSON(w, http.StatusOK, errorBody{Detail: "Booking cancelled"})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events
	if events == nil {
		events = []models.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}
