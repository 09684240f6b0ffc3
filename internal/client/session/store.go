// Package session keeps the client's view of who is logged in, synchronised
// with what the server reports.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// Messages shown when the server gives no reason of its own.
const (
	MsgNetwork              = "Network error. Please try again."
	MsgLoginFailed          = "Login failed"
	MsgRegistrationFailed   = "Registration failed"
	MsgUpdateFailed         = "Update failed"
	MsgPasswordChangeFailed = "Password change failed"
	MsgSuperseded           = "Session changed while the request was running"
)

// Phase is the coarse lifecycle of the session.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseLoading
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is a consistent snapshot: User is non-nil exactly when
// IsAuthenticated is true.
type State struct {
	User            *domain.UserProfile
	IsAuthenticated bool
	Loading         bool
}

// UserID returns the id of the signed-in user, or "".
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// Result is the outcome of an operation that can be refused by the server.
type Result struct {
	Success bool
	User    *domain.UserProfile
	Message string
}

// Store holds the session. All methods are safe for concurrent use.
//
// Every operation that decides who is logged in takes a new generation when
// it starts. Its response is only applied if no later such operation, logout
// included, has started in the meantime.
type Store struct {
	gw  ports.AuthGateway
	log zerolog.Logger

	mu       sync.Mutex
	user     *domain.UserProfile
	resolved bool
	inflight int
	gen      uint64
	subs     map[int]func(State)
	nextSub  int
}

// NewStore returns a store in the initial, unresolved state.
func NewStore(gw ports.AuthGateway, log zerolog.Logger) *Store {
	return &Store{
		gw:   gw,
		log:  log.With().Str("component", "session").Logger(),
		subs: make(map[int]func(State)),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Phase reports where the session is in its lifecycle.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.inflight > 0:
		return PhaseLoading
	case !s.resolved:
		return PhaseUnknown
	case s.user != nil:
		return PhaseAuthenticated
	default:
		return PhaseAnonymous
	}
}

// User returns the signed-in user or nil.
func (s *Store) User() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Subscribe registers fn to be called after every change of identity. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// CheckStatus asks the server for the current session. It never fails: any
// problem leaves the store anonymous.
func (s *Store) CheckStatus(ctx context.Context) State {
	token := s.begin(true)
	reply, err := s.gw.CurrentSession(ctx)

	var user *domain.UserProfile
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("session check failed")
	case reply.OK():
		user = reply.User
	default:
		s.log.Debug().Int("status", reply.StatusCode).Msg("no active session")
	}

	s.finish(token, true, func() bool {
		s.user = user
		return true
	})
	return s.Snapshot()
}

// Login authenticates with a username or email. On failure the state is left
// as it was.
func (s *Store) Login(ctx context.Context, usernameOrEmail, password string) Result {
	token := s.begin(true)
	reply, err := s.gw.Login(ctx, usernameOrEmail, password)
	return s.signIn(token, reply, err, MsgLoginFailed)
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, in ports.RegisterInput) Result {
	token := s.begin(true)
	reply, err := s.gw.Register(ctx, in)
	return s.signIn(token, reply, err, MsgRegistrationFailed)
}

func (s *Store) signIn(token uint64, reply *ports.AuthReply, err error, fallbackMsg string) Result {
	res := outcome(reply, err, fallbackMsg)
	if err != nil {
		s.log.Warn().Err(err).Msg("sign-in request failed")
	}

	applied := s.finish(token, true, func() bool {
		if !res.Success {
			return false
		}
		s.user = res.User
		return true
	})
	if res.Success && !applied {
		return Result{Message: MsgSuperseded}
	}
	return res
}

// Logout clears the session locally first and then tells the server. It
// always succeeds; a server failure is only logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	changed := s.user != nil || !s.resolved
	s.user = nil
	s.resolved = true
	s.inflight++
	st, subs := s.stateLocked(), s.subscribersLocked(changed)
	s.mu.Unlock()
	notify(subs, st)

	if err := s.gw.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server logout failed")
	}

	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// UpdateProfile replaces the profile on success. The user is swapped
// wholesale with what the server returned.
func (s *Store) UpdateProfile(ctx context.Context, in ports.ProfileInput) Result {
	token := s.begin(false)
	reply, err := s.gw.UpdateProfile(ctx, in)
	res := outcome(reply, err, MsgUpdateFailed)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile update failed")
	}

	applied := s.finish(token, false, func() bool {
		if !res.Success || s.user == nil {
			return false
		}
		s.user = res.User
		return true
	})
	if res.Success && !applied {
		return Result{Message: MsgSuperseded}
	}
	return res
}

// ChangePassword replaces the password. The session itself is unchanged.
func (s *Store) ChangePassword(ctx context.Context, current, next string) Result {
	s.track(1)
	defer s.track(-1)

	reply, err := s.gw.ChangePassword(ctx, current, next)
	if err != nil {
		s.log.Warn().Err(err).Msg("password change failed")
		return Result{Message: MsgNetwork}
	}
	if reply.StatusCode < 200 || reply.StatusCode >= 300 || !reply.Success {
		return Result{Message: fallback(reply.Message, MsgPasswordChangeFailed)}
	}
	return Result{Success: true, User: s.User(), Message: reply.Message}
}

// CheckUsernameAvailability reports whether username is free. Any failure
// reports it as unavailable.
func (s *Store) CheckUsernameAvailability(ctx context.Context, username string) bool {
	ok, err := s.gw.CheckUsername(ctx, username)
	if err != nil {
		s.log.Debug().Err(err).Str("username", username).Msg("username check failed")
		return false
	}
	return ok
}

// CheckEmailAvailability reports whether email is free. Any failure reports
// it as unavailable.
func (s *Store) CheckEmailAvailability(ctx context.Context, email string) bool {
	ok, err := s.gw.CheckEmail(ctx, email)
	if err != nil {
		s.log.Debug().Err(err).Str("email", email).Msg("email check failed")
		return false
	}
	return ok
}

func outcome(reply *ports.AuthReply, err error, fallbackMsg string) Result {
	if err != nil {
		return Result{Message: MsgNetwork}
	}
	if !reply.OK() {
		return Result{Message: fallback(reply.Message, fallbackMsg)}
	}
	return Result{Success: true, User: reply.User, Message: reply.Message}
}

func fallback(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

// begin marks an operation in flight and returns the generation it runs
// under. A committing operation starts a new generation.
func (s *Store) begin(committing bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	if committing {
		s.gen++
	}
	return s.gen
}

// finish ends an operation. apply runs only when token is still current and
// reports whether it changed anything; subscribers are told about changes.
// A current committing operation resolves the session even when refused.
func (s *Store) finish(token uint64, committing bool, apply func() bool) bool {
	s.mu.Lock()
	s.inflight--
	if token != s.gen {
		s.mu.Unlock()
		s.log.Debug().Uint64("generation", token).Msg("dropping superseded session response")
		return false
	}

	before := s.user
	wasResolved := s.resolved
	applied := apply()
	if applied || committing {
		s.resolved = true
	}
	changed := applied && (!wasResolved || !sameUser(before, s.user))
	st, subs := s.stateLocked(), s.subscribersLocked(changed)
	s.mu.Unlock()

	notify(subs, st)
	return applied
}

func (s *Store) track(delta int) {
	s.mu.Lock()
	s.inflight += delta
	s.mu.Unlock()
}

func (s *Store) stateLocked() State {
	return State{
		User:            s.user,
		IsAuthenticated: s.user != nil,
		Loading:         !s.resolved || s.inflight > 0,
	}
}

func (s *Store) subscribersLocked(changed bool) []func(State) {
	if !changed {
		return nil
	}
	out := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}

func sameUser(a, b *domain.UserProfile) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
