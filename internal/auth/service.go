package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/lunamarket/storefront-client/internal/api"
	"github.com/lunamarket/storefront-client/internal/session"
	"github.com/lunamarket/storefront-client/internal/tokenstore"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/lunamarket/storefront-client/pkg/validate"
)

// Service defines the authentication surface the rest of the client uses.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*User, error)
	SwitchMode(ctx context.Context, mode session.Mode) error
}

type backend interface {
	Do(ctx context.Context, req *api.Request, out any) error
}

type service struct {
	client  backend
	tokens  *tokenstore.Store
	session *session.Manager
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Client  backend
	Tokens  *tokenstore.Store
	Session *session.Manager
	Logger  *logger.Logger
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		client:  params.Client,
		tokens:  params.Tokens,
		session: params.Session,
		logg:    params.Logger,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err := s.client.Do(ctx, &api.Request{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     req,
		SkipAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, raw)
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err := s.client.Do(ctx, &api.Request{
		Method:   http.MethodPost,
		Path:     "/auth/register",
		Body:     req,
		SkipAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, raw)
}

// establish persists the parsed credentials and returns the new session. The
// order matters: tokens first, then mode, then the cached profile, so a
// partial failure never leaves a usable mode pointing at absent tokens.
func (s *service) establish(ctx context.Context, raw json.RawMessage) (*Session, error) {
	creds, err := parseCredentials(raw)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SetCustomer(ctx, creds.AccessToken, creds.RefreshToken); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting tokens")
	}
	if err := s.session.SetMode(ctx, session.ModeCustomer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "setting auth mode")
	}

	result := &Session{
		AccessToken:    creds.AccessToken,
		RefreshToken:   creds.RefreshToken,
		MerchantLinked: s.tokens.HasMerchantAccount(ctx),
	}

	if len(creds.User) > 0 {
		var user User
		if err := json.Unmarshal(creds.User, &user); err == nil {
			result.User = &user
			if err := s.tokens.SetProfile(ctx, string(creds.User)); err != nil {
				s.logg.Warn(ctx, "caching profile failed")
			}
		}
	}

	s.logg.Info(ctx, "session established")
	return result, nil
}

// Logout drops all local credentials and state. It never fails on backend
// unavailability: the signout endpoint is best effort.
func (s *service) Logout(ctx context.Context) error {
	err := s.client.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   "/auth/logout",
	}, nil)
	if err != nil {
		s.logg.Warn(ctx, "backend signout failed, clearing local session anyway")
	}

	if err := s.tokens.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing tokens")
	}
	if err := s.session.Reset(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resetting auth mode")
	}
	s.logg.Info(ctx, "session cleared")
	return nil
}

// CurrentUser returns the cached profile when present, falling back to a
// backend fetch that repopulates the cache.
func (s *service) CurrentUser(ctx context.Context) (*User, error) {
	cached, err := s.tokens.Profile(ctx)
	if err == nil && cached != "" {
		var user User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	}

	var user User
	if err := s.client.Do(ctx, &api.Request{Path: "/users/me"}, &user); err != nil {
		return nil, err
	}
	if blob, err := json.Marshal(user); err == nil {
		if err := s.tokens.SetProfile(ctx, string(blob)); err != nil {
			s.logg.Warn(ctx, "caching profile failed")
		}
	}
	return &user, nil
}

// SwitchMode flips the active identity. Switching to merchant without a
// linked merchant account is a silent no-op.
func (s *service) SwitchMode(ctx context.Context, mode session.Mode) error {
	return s.session.SetMode(ctx, mode)
}
