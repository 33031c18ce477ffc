package profile

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/lunamarket/storefront-client/internal/api"
	"github.com/lunamarket/storefront-client/internal/kvstore"
	"github.com/lunamarket/storefront-client/internal/tokenstore"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	calls   []*api.Request
	handler func(req *api.Request, out any) error
}

func (s *stubBackend) Do(_ context.Context, req *api.Request, out any) error {
	s.calls = append(s.calls, req)
	if s.handler == nil {
		return nil
	}
	return s.handler(req, out)
}

func newFixture(t *testing.T) (Service, *stubBackend, *tokenstore.Store) {
	t.Helper()
	kv, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	tokens, err := tokenstore.New(kv, tokenstore.Options{})
	require.NoError(t, err)

	backend := &stubBackend{}
	svc, err := NewService(ServiceParams{
		Client: backend,
		Tokens: tokens,
		Logger: logger.New(logger.Options{ClientName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, backend, tokens
}

func TestGetCachesProfile(t *testing.T) {
	svc, backend, tokens := newFixture(t)
	ctx := context.Background()

	backend.handler = func(req *api.Request, out any) error {
		require.Equal(t, "/users/me", req.Path)
		profile, ok := out.(*Profile)
		require.True(t, ok)
		profile.ID = "1"
		profile.Email = "jo@example.com"
		return nil
	}

	profile, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "jo@example.com", profile.Email)

	cached, err := tokens.Profile(ctx)
	require.NoError(t, err)
	require.Contains(t, cached, "jo@example.com")
}

func TestUpdateValidatesBeforeDispatch(t *testing.T) {
	svc, backend, _ := newFixture(t)

	_, err := svc.Update(context.Background(), UpdateProfileRequest{FirstName: "", LastName: "Doe"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	require.Empty(t, backend.calls)
}

func TestUpdateSendsPut(t *testing.T) {
	svc, backend, _ := newFixture(t)

	backend.handler = func(req *api.Request, out any) error {
		require.Equal(t, http.MethodPut, req.Method)
		require.Equal(t, "/users/me", req.Path)
		profile, ok := out.(*Profile)
		require.True(t, ok)
		profile.FirstName = "Jo"
		return nil
	}

	profile, err := svc.Update(context.Background(), UpdateProfileRequest{FirstName: "Jo", LastName: "Doe"})
	require.NoError(t, err)
	require.Equal(t, "Jo", profile.FirstName)
}

func TestCreateAddressValidation(t *testing.T) {
	svc, backend, _ := newFixture(t)

	_, err := svc.CreateAddress(context.Background(), AddressRequest{Line1: "1 Main St"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	require.Empty(t, backend.calls)

	_, err = svc.CreateAddress(context.Background(), AddressRequest{
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "USA",
	})
	require.Error(t, err, "country must be a two-letter code")
	require.Empty(t, backend.calls)
}

func TestAddressLifecycle(t *testing.T) {
	svc, backend, _ := newFixture(t)
	ctx := context.Background()

	valid := AddressRequest{
		Label:      "Home",
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}

	backend.handler = func(req *api.Request, out any) error {
		switch {
		case req.Method == http.MethodPost && req.Path == "/users/me/addresses":
			address, ok := out.(*Address)
			require.True(t, ok)
			address.ID = "a1"
			address.Line1 = valid.Line1
			return nil
		case req.Method == http.MethodPut && req.Path == "/users/me/addresses/a1":
			address, ok := out.(*Address)
			require.True(t, ok)
			address.ID = "a1"
			address.Label = "Office"
			return nil
		case req.Method == http.MethodDelete && req.Path == "/users/me/addresses/a1":
			return nil
		default:
			t.Fatalf("unexpected call %s %s", req.Method, req.Path)
			return nil
		}
	}

	created, err := svc.CreateAddress(ctx, valid)
	require.NoError(t, err)
	require.Equal(t, "a1", string(created.ID))

	updated := valid
	updated.Label = "Office"
	address, err := svc.UpdateAddress(ctx, "a1", updated)
	require.NoError(t, err)
	require.Equal(t, "Office", address.Label)

	require.NoError(t, svc.DeleteAddress(ctx, "a1"))
	require.Len(t, backend.calls, 3)
}

func TestDeleteAddressRequiresID(t *testing.T) {
	svc, backend, _ := newFixture(t)

	err := svc.DeleteAddress(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	require.Empty(t, backend.calls)
}
