// Package fakegym is an in-process gym backend for tests. It issues real
// HS256 JWTs, validates bearer tokens like the production backend and
// exposes knobs to force 401s, failing refreshes and slow endpoints.
package fakegym

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Prefix is the API prefix the fake serves under.
const Prefix = "/api/v1.0"

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type user struct {
	id       int64
	email    string
	password string
}

// Server is a running fake backend.
type Server struct {
	srv    *httptest.Server
	secret []byte

	mu         sync.Mutex
	accessTTL  time.Duration
	refreshTTL time.Duration
	rotate     bool

	users    map[string]user
	refresh  map[string]int64
	issued   []string
	revoked  map[string]bool
	profiles map[int64]models.Profile
	classes  map[string][]models.ClassOccurrence
	events   []models.Event
	bookings map[int64]map[int64]int64

	refreshStatus int
	rejectNext    int
	gates         map[string]chan struct{}

	hits          map[string]int
	unauthorized  int
	authHeaders   []string
	requestIDs    map[string][]string
	refreshTokens []string
}

// New starts a fake backend that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		secret:     []byte(uuid.NewString()),
		accessTTL:  5 * time.Minute,
		refreshTTL: 24 * time.Hour,
		users:      map[string]user{},
		refresh:    map[string]int64{},
		revoked:    map[string]bool{},
		profiles:   map[int64]models.Profile{},
		classes:    map[string][]models.ClassOccurrence{},
		bookings:   map[int64]map[int64]int64{},
		gates:      map[string]chan struct{}{},
		hits:       map[string]int{},
		requestIDs: map[string][]string{},
	}

	mx := chi.NewRouter()
	mx.Route(Prefix, s.register)
	s.srv = httptest.NewServer(mx)
	t.Cleanup(s.srv.Close)

	return s
}

// URL is the base URL clients should be configured with.
func (s *Server) URL() string {
	return s.srv.URL + Prefix
}

// Close stops the server; subsequent requests fail with a connection error.
func (s *Server) Close() {
	s.srv.Close()
}

// AddUser registers credentials accepted by POST /user/login/.
func (s *Server) AddUser(id int64, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = user{id: id, email: email, password: password}
}

func (s *Server) mint(userID int64, typ string, exp time.Time) string {
	c := claims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// MintAccess issues an access token for userID expiring at exp.
func (s *Server) MintAccess(userID int64, exp time.Time) string {
	token := s.mint(userID, tokenTypeAccess, exp)
	s.mu.Lock()
	s.issued = append(s.issued, token)
	s.mu.Unlock()
	return token
}

// IssueSession returns a valid access/refresh pair for userID without going
// through login.
func (s *Server) IssueSession(userID int64) (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

func (s *Server) issueLocked(userID int64) (access, refresh string) {
	now := time.Now()
	access = s.mint(userID, tokenTypeAccess, now.Add(s.accessTTL))
	refresh = s.mint(userID, tokenTypeRefresh, now.Add(s.refreshTTL))
	s.issued = append(s.issued, access)
	s.refresh[refresh] = userID
	return access, refresh
}

func (s *Server) validAccess(raw string) (int64, bool) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || c.TokenType != tokenTypeAccess {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[raw] {
		return 0, false
	}
	return c.UserID, true
}

// RevokeAccessTokens makes every access token issued so far invalid while
// leaving their exp claims in the future.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.issued {
		s.revoked[t] = true
	}
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.refresh)
}

// SetRefreshStatus makes POST /token/refresh/ reply with status. Zero
// restores normal behaviour.
func (s *Server) SetRefreshStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshStatus = status
}

// SetRotateRefresh makes refresh replies carry a new refresh token.
func (s *Server) SetRotateRefresh(rotate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotate = rotate
}

// RejectNext answers the next n authenticated requests with 401 whatever
// token they carry.
func (s *Server) RejectNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectNext = n
}

// Hold blocks requests to path (relative to Prefix) until release is called.
// Requests are counted in Hits before they block. Holding a path again
// replaces the gate for later requests; the earlier release still frees the
// requests it blocked.
func (s *Server) Hold(path string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[path] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gates[path] == gate {
				delete(s.gates, path)
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// SetProfile sets the profile returned to userID.
func (s *Server) SetProfile(userID int64, p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = p
}

// SetClasses sets the classes scheduled on date (YYYY-MM-DD).
func (s *Server) SetClasses(date string, classes []models.ClassOccurrence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[date] = classes
}

// SetEvents sets the events in the order the server returns them.
func (s *Server) SetEvents(events []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// Bookings returns userID's bookings as classID -> membershipID.
func (s *Server) Bookings(userID int64) map[int64]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]int64{}
	for k, v := range s.bookings[userID] {
		out[k] = v
	}
	return out
}

// Hits returns how many requests reached path (relative to Prefix).
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Refreshes is the number of POST /token/refresh/ calls.
func (s *Server) Refreshes() int {
	return s.Hits("/token/refresh/")
}

// Logins is the number of POST /user/login/ calls.
func (s *Server) Logins() int {
	return s.Hits("/user/login/")
}

// Unauthorized is the number of 401 replies served to authenticated routes.
func (s *Server) Unauthorized() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unauthorized
}

// AuthHeaders returns the Authorization headers of authenticated requests in
// arrival order.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

// BearerTokens returns the tokens of AuthHeaders.
func (s *Server) BearerTokens() []string {
	headers := s.AuthHeaders()
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		out = append(out, strings.TrimPrefix(h, "Bearer "))
	}
	return out
}

// RequestIDs returns the X-Request-ID values seen on path.
func (s *Server) RequestIDs(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs[path]...)
}

// RefreshTokensSeen returns the refresh tokens posted to /token/refresh/.
func (s *Server) RefreshTokensSeen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.refreshTokens...)
}
