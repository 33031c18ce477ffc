package catalog

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/lunamarket/storefront-client/internal/api"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/lunamarket/storefront-client/pkg/types"
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

type recordingCache struct {
	snapshots []*types.ProductSnapshot
}

func (r *recordingCache) CacheSnapshot(_ context.Context, snapshot *types.ProductSnapshot) {
	r.snapshots = append(r.snapshots, snapshot)
}

func respondRaw(t *testing.T, out any, payload string) {
	t.Helper()
	raw, ok := out.(*json.RawMessage)
	require.True(t, ok, "expected a raw message sink")
	*raw = json.RawMessage(payload)
}

func newFixture(t *testing.T) (Service, *stubBackend, *recordingCache) {
	t.Helper()
	backend := &stubBackend{}
	cache := &recordingCache{}
	svc, err := NewService(ServiceParams{
		Client: backend,
		Cache:  cache,
		Logger: logger.New(logger.Options{ClientName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, backend, cache
}

func TestListProductsWrappedShape(t *testing.T) {
	svc, backend, cache := newFixture(t)

	backend.handler = func(req *api.Request, out any) error {
		require.Equal(t, "/products", req.Path)
		require.Equal(t, "1", req.Query.Get("page"))
		require.Equal(t, "25", req.Query.Get("limit"))
		require.Equal(t, "tea", req.Query.Get("category"))
		respondRaw(t, out, `{
			"items": [{"id": 1, "name": "Sencha", "price": "12.50"}, {"id": 2, "name": "Matcha", "price": 24}],
			"total": 2,
			"page": 1
		}`)
		return nil
	}

	list, err := svc.ListProducts(context.Background(), ListOptions{Category: "tea"})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	require.Equal(t, 2, list.Total)
	require.Equal(t, types.ID("1"), list.Items[0].ID)
	require.Equal(t, "12.5", list.Items[0].Price.String())

	require.Len(t, cache.snapshots, 2, "every listed product primes the cart cache")
	require.Equal(t, "Sencha", cache.snapshots[0].Name)
}

func TestListProductsBareArrayShape(t *testing.T) {
	svc, backend, _ := newFixture(t)

	backend.handler = func(req *api.Request, out any) error {
		respondRaw(t, out, `[{"id": "p1", "name": "Solo"}]`)
		return nil
	}

	list, err := svc.ListProducts(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, "Solo", list.Items[0].Name)
}

func TestGetProductPrimesCache(t *testing.T) {
	svc, backend, cache := newFixture(t)

	backend.handler = func(req *api.Request, out any) error {
		require.Equal(t, "/products/42", req.Path)
		product, ok := out.(*Product)
		require.True(t, ok)
		product.ID = "42"
		product.Name = "Numeric"
		product.Images = []string{"first.jpg", "second.jpg"}
		return nil
	}

	product, err := svc.GetProduct(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "Numeric", product.Name)

	require.Len(t, cache.snapshots, 1)
	require.Equal(t, "first.jpg", cache.snapshots[0].Image)
}

func TestGetProductRejectsEmptyID(t *testing.T) {
	svc, backend, _ := newFixture(t)

	_, err := svc.GetProduct(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	require.Empty(t, backend.calls)
}

func TestListShopsAlternateKey(t *testing.T) {
	svc, backend, _ := newFixture(t)

	backend.handler = func(req *api.Request, out any) error {
		require.Equal(t, "/shops", req.Path)
		respondRaw(t, out, `{"shops": [{"id": "s1", "name": "Corner Shop"}], "total": 1}`)
		return nil
	}

	list, err := svc.ListShops(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, "Corner Shop", list.Items[0].Name)
	require.Equal(t, 1, list.Total)
}

func TestListBlogPosts(t *testing.T) {
	svc, backend, _ := newFixture(t)

	backend.handler = func(req *api.Request, out any) error {
		require.Equal(t, "/blogs", req.Path)
		respondRaw(t, out, `{"posts": [{"id": "b1", "title": "Hello"}]}`)
		return nil
	}

	list, err := svc.ListBlogPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, "Hello", list.Items[0].Title)
}

func TestListingDecodeFailureIsTyped(t *testing.T) {
	svc, backend, _ := newFixture(t)

	backend.handler = func(req *api.Request, out any) error {
		respondRaw(t, out, `{"items": "not an array"}`)
		return nil
	}

	_, err := svc.ListProducts(context.Background(), ListOptions{})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeDecode, pkgerrors.As(err).Code())
}
