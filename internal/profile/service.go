package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lunamarket/storefront-client/internal/api"
	"github.com/lunamarket/storefront-client/internal/tokenstore"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/lunamarket/storefront-client/pkg/types"
	"github.com/lunamarket/storefront-client/pkg/validate"
)

// Service exposes authenticated profile and address management.
type Service interface {
	Get(ctx context.Context) (*Profile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
	ListAddresses(ctx context.Context) ([]Address, error)
	CreateAddress(ctx context.Context, req AddressRequest) (*Address, error)
	UpdateAddress(ctx context.Context, id any, req AddressRequest) (*Address, error)
	DeleteAddress(ctx context.Context, id any) error
}

type backend interface {
	Do(ctx context.Context, req *api.Request, out any) error
}

type service struct {
	client backend
	tokens *tokenstore.Store
	logg   *logger.Logger
}

// ServiceParams bundles the dependencies required to build a profile service.
type ServiceParams struct {
	Client backend
	Tokens *tokenstore.Store
	Logger *logger.Logger
}

// NewService constructs the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{client: params.Client, tokens: params.Tokens, logg: params.Logger}, nil
}

func (s *service) Get(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := s.client.Do(ctx, &api.Request{Path: "/users/me"}, &profile); err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, &profile)
	return &profile, nil
}

func (s *service) Update(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var profile Profile
	err := s.client.Do(ctx, &api.Request{
		Method: http.MethodPut,
		Path:   "/users/me",
		Body:   req,
	}, &profile)
	if err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, &profile)
	return &profile, nil
}

func (s *service) ListAddresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := s.client.Do(ctx, &api.Request{Path: "/users/me/addresses"}, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (s *service) CreateAddress(ctx context.Context, req AddressRequest) (*Address, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var address Address
	err := s.client.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   "/users/me/addresses",
		Body:   req,
	}, &address)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *service) UpdateAddress(ctx context.Context, id any, req AddressRequest) (*Address, error) {
	normalized := types.NormalizeID(id)
	if normalized.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var address Address
	err := s.client.Do(ctx, &api.Request{
		Method: http.MethodPut,
		Path:   "/users/me/addresses/" + url.PathEscape(string(normalized)),
		Body:   req,
	}, &address)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *service) DeleteAddress(ctx context.Context, id any) error {
	normalized := types.NormalizeID(id)
	if normalized.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	return s.client.Do(ctx, &api.Request{
		Method: http.MethodDelete,
		Path:   "/users/me/addresses/" + url.PathEscape(string(normalized)),
	}, nil)
}

// cacheProfile keeps the locally persisted profile blob in step with the
// latest confirmed server state.
func (s *service) cacheProfile(ctx context.Context, profile *Profile) {
	blob, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.tokens.SetProfile(ctx, string(blob)); err != nil {
		s.logg.Warn(ctx, "caching profile failed")
	}
}
