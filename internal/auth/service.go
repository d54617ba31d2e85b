package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/session"
	"github.com/Domenick1991/dirabasi/internal/utils"
)

type AuthUseCase interface {
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	Logout(ctx context.Context, sid string) error
}

// Directory is the demo user list.
type Directory interface {
	Users() []domain.User
}

type LoginInput struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
	Path      string      `json:"path"`
}

// AuthService is a login stub: no passwords, a known email picks the directory entry.
type AuthService struct {
	tokens    *Tokens
	sessions  *session.Manager
	directory Directory
}

func NewAuthService(tokens *Tokens, sessions *session.Manager, directory Directory) *AuthService {
	return &AuthService{tokens: tokens, sessions: sessions, directory: directory}
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	user, err := s.resolve(in)
	if err != nil {
		return LoginResult{}, err
	}

	sid := s.sessions.NewID()
	sel, err := s.sessions.SetUser(ctx, sid, user)
	if err != nil {
		return LoginResult{}, err
	}
	token, exp, err := s.tokens.Issue(sid, user)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "issue token", Err: err}
	}

	utils.LogCtx(ctx, "auth", "login", fmt.Sprintf("role=%s", user.Role))
	return LoginResult{Token: token, ExpiresAt: exp, User: user, Path: HomePath(user.Role, sel.Step)}, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.sessions.Logout(ctx, sid)
}

func (s *AuthService) resolve(in LoginInput) (domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email != "" {
		for _, u := range s.directory.Users() {
			if strings.ToLower(u.Email) != email {
				continue
			}
			if strings.ToLower(u.Status) == "inactive" {
				return domain.User{}, domain.ConflictError{Resource: "user", Msg: "account is inactive"}
			}
			return u, nil
		}
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.User{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	role := in.Role
	if role == "" {
		role = domain.RoleTraveler
	}
	if !role.Valid() {
		return domain.User{}, domain.ValidationError{Field: "role", Msg: "must be traveler, conductor or admin"}
	}
	return domain.User{Name: name, Email: email, Role: role, Status: "active"}, nil
}

// HomePath is where a freshly signed-in user lands.
func HomePath(role domain.Role, step domain.Step) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleConductor:
		return "/conductor"
	}
	if step == "" {
		step = domain.StepRouteChoice
	}
	return step.Path()
}

var _ AuthUseCase = (*AuthService)(nil)
