package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lunamarket/storefront-client/internal/api"
	"github.com/lunamarket/storefront-client/internal/auth"
	"github.com/lunamarket/storefront-client/internal/cart"
	"github.com/lunamarket/storefront-client/internal/catalog"
	"github.com/lunamarket/storefront-client/internal/kvstore"
	"github.com/lunamarket/storefront-client/internal/session"
	"github.com/lunamarket/storefront-client/internal/tokenstore"
	"github.com/lunamarket/storefront-client/pkg/config"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/lunamarket/storefront-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ClientName: "storefront"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ClientName: "storefront",
		Level:      logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:  cfg.App.LogWarnStack,
	})

	kv, err := newStateStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap state store", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logg.Error(ctx, "error closing state store", err)
		}
	}()

	tokens, err := tokenstore.New(kv, tokenstore.Options{ExpirySkew: cfg.Auth.ExpirySkew})
	if err != nil {
		logg.Error(ctx, "failed to create token store", err)
		os.Exit(1)
	}
	sess, err := session.NewManager(kv, tokens)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	clientMetrics := metrics.NewClientMetrics(prometheus.DefaultRegisterer)

	client, err := api.New(api.Params{
		Config:  cfg.API,
		Auth:    cfg.Auth,
		Tokens:  tokens,
		Session: sess,
		Logger:  logg,
		Metrics: clientMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create api client", err)
		os.Exit(1)
	}

	cartService, err := cart.New(ctx, cart.Params{
		Client:  client,
		Session: sess,
		KV:      kv,
		Logger:  logg,
		Metrics: clientMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Client: client,
		Cache:  cartService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Client:  client,
		Tokens:  tokens,
		Session: sess,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"base_url": cfg.API.BaseURL,
	})
	logg.Info(ctx, "storefront client ready")

	if user, err := authService.CurrentUser(ctx); err == nil {
		fmt.Printf("signed in as %s (%s mode)\n", user.Email, sess.Mode(ctx))
	} else {
		fmt.Println("browsing as guest")
	}

	products, err := catalogService.ListProducts(ctx, catalog.ListOptions{})
	if err != nil {
		logg.Error(ctx, "listing products failed", err)
		os.Exit(1)
	}
	for _, product := range products.Items {
		price := "-"
		if product.Price != nil {
			price = product.Price.StringFixed(2)
		}
		fmt.Printf("%s\t%s\t%s\n", product.ID, product.Name, price)
	}

	if len(products.Items) > 0 {
		first := products.Items[0]
		cartService.AddToCart(ctx, cart.AddInput{ProductID: first.ID, Snapshot: first.Snapshot()})
		fmt.Printf("cart: %d item(s), total %s (%s mode)\n",
			cartService.ItemCount(), cartService.Total().StringFixed(2), cartService.Mode())
	}
}

func newStateStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	if cfg.State.Backend == config.StateBackendRedis {
		return kvstore.NewRedisStore(ctx, cfg.Redis)
	}
	return kvstore.NewFileStore(cfg.State.FilePath)
}
