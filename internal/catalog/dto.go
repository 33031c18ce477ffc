package catalog

import (
	"github.com/lunamarket/storefront-client/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is the storefront's read model of a catalog product.
type Product struct {
	ID          types.ID         `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       string           `json:"image,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Category    string           `json:"category,omitempty"`
	ShopID      types.ID         `json:"shopId,omitempty"`
	InStock     *bool            `json:"inStock,omitempty"`
}

// Snapshot projects the product onto the denormalized fields cart lines need.
func (p *Product) Snapshot() *types.ProductSnapshot {
	if p == nil {
		return nil
	}
	image := p.Image
	if image == "" {
		image = p.ImageURL
	}
	if image == "" && len(p.Images) > 0 {
		image = p.Images[0]
	}
	return &types.ProductSnapshot{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    image,
		Category: p.Category,
	}
}

// Shop is a merchant storefront as listed publicly.
type Shop struct {
	ID          types.ID `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	LogoURL     string   `json:"logoUrl,omitempty"`
	BannerURL   string   `json:"bannerUrl,omitempty"`
}

// BlogPost is one published storefront article.
type BlogPost struct {
	ID          types.ID `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Body        string   `json:"body,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
	PublishedAt string   `json:"publishedAt,omitempty"`
}

// ProductList is one page of products with whatever paging metadata the
// backend chose to include.
type ProductList struct {
	Items []Product `json:"items"`
	Total int       `json:"total,omitempty"`
	Page  int       `json:"page,omitempty"`
}

// ShopList is one page of shops.
type ShopList struct {
	Items []Shop `json:"items"`
	Total int    `json:"total,omitempty"`
}

// BlogList is one page of blog posts.
type BlogList struct {
	Items []BlogPost `json:"items"`
	Total int        `json:"total,omitempty"`
}
