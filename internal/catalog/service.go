package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lunamarket/storefront-client/internal/api"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/lunamarket/storefront-client/pkg/pagination"
	"github.com/lunamarket/storefront-client/pkg/types"
)

// Service exposes the read-only catalog surface: products, shops, and blog
// posts. Every product that passes through it primes the cart enrichment
// cache so lines added later resolve display data without another fetch.
type Service interface {
	ListProducts(ctx context.Context, opts ListOptions) (*ProductList, error)
	GetProduct(ctx context.Context, id any) (*Product, error)
	ListShops(ctx context.Context, opts ListOptions) (*ShopList, error)
	GetShop(ctx context.Context, id any) (*Shop, error)
	ListBlogPosts(ctx context.Context, opts ListOptions) (*BlogList, error)
	GetBlogPost(ctx context.Context, id any) (*BlogPost, error)
}

// ListOptions filters and pages a listing call.
type ListOptions struct {
	pagination.Params
	Search   string
	Category string
	ShopID   string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	o.Params.Apply(q)
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.ShopID != "" {
		q.Set("shopId", o.ShopID)
	}
	return q
}

type backend interface {
	Do(ctx context.Context, req *api.Request, out any) error
}

// snapshotCache receives product snapshots for cart enrichment.
type snapshotCache interface {
	CacheSnapshot(ctx context.Context, snapshot *types.ProductSnapshot)
}

type service struct {
	client backend
	cache  snapshotCache
	logg   *logger.Logger
}

// ServiceParams bundles the dependencies required to build a catalog service.
// Cache is optional; without it products are simply not primed.
type ServiceParams struct {
	Client backend
	Cache  snapshotCache
	Logger *logger.Logger
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{client: params.Client, cache: params.Cache, logg: params.Logger}, nil
}

func (s *service) ListProducts(ctx context.Context, opts ListOptions) (*ProductList, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, &api.Request{Path: "/products", Query: opts.query()}, &raw)
	if err != nil {
		return nil, err
	}

	list := &ProductList{}
	if err := decodeListing(raw, &list.Items, &list.Total, &list.Page, "items", "products"); err != nil {
		return nil, err
	}
	for i := range list.Items {
		s.prime(ctx, &list.Items[i])
	}
	return list, nil
}

func (s *service) GetProduct(ctx context.Context, id any) (*Product, error) {
	normalized := types.NormalizeID(id)
	if normalized.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product Product
	err := s.client.Do(ctx, &api.Request{Path: "/products/" + url.PathEscape(string(normalized))}, &product)
	if err != nil {
		return nil, err
	}
	s.prime(ctx, &product)
	return &product, nil
}

func (s *service) ListShops(ctx context.Context, opts ListOptions) (*ShopList, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, &api.Request{Path: "/shops", Query: opts.query()}, &raw)
	if err != nil {
		return nil, err
	}

	list := &ShopList{}
	var page int
	if err := decodeListing(raw, &list.Items, &list.Total, &page, "items", "shops"); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) GetShop(ctx context.Context, id any) (*Shop, error) {
	normalized := types.NormalizeID(id)
	if normalized.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}

	var shop Shop
	err := s.client.Do(ctx, &api.Request{Path: "/shops/" + url.PathEscape(string(normalized))}, &shop)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *service) ListBlogPosts(ctx context.Context, opts ListOptions) (*BlogList, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, &api.Request{Path: "/blogs", Query: opts.query()}, &raw)
	if err != nil {
		return nil, err
	}

	list := &BlogList{}
	var page int
	if err := decodeListing(raw, &list.Items, &list.Total, &page, "items", "blogs", "posts"); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) GetBlogPost(ctx context.Context, id any) (*BlogPost, error) {
	normalized := types.NormalizeID(id)
	if normalized.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "blog post id is required")
	}

	var post BlogPost
	err := s.client.Do(ctx, &api.Request{Path: "/blogs/" + url.PathEscape(string(normalized))}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *service) prime(ctx context.Context, product *Product) {
	if s.cache == nil || product == nil {
		return
	}
	s.cache.CacheSnapshot(ctx, product.Snapshot())
}
