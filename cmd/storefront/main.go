package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopexplorer/storefront/internal/alerts"
	"github.com/shopexplorer/storefront/internal/cart"
	"github.com/shopexplorer/storefront/internal/catalog"
	"github.com/shopexplorer/storefront/internal/checkout"
	"github.com/shopexplorer/storefront/pkg/config"
	"github.com/shopexplorer/storefront/pkg/db"
	pkgerrors "github.com/shopexplorer/storefront/pkg/errors"
	"github.com/shopexplorer/storefront/pkg/logger"
	"github.com/shopexplorer/storefront/pkg/redis"
	"go.uber.org/multierr"
)

const usage = `usage: storefront <command> [args]

commands:
  products [query] [categoryId]  browse the catalog (query "" matches all)
  product <id>                   show a single product
  categories                     list categories
  add <id>                       add a product to the cart (optimistic)
  cart                           show the cart and totals
  set <id> <quantity>            set a cart line's quantity (0 removes)
  remove <id>                    remove a cart line
  clear                          empty the cart
`

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	app, cleanup, err := bootstrap(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap", err)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logg.Error(context.Background(), "error during shutdown", err)
		}
	}()

	if err := app.run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type application struct {
	catalog     *catalog.Client
	store       *cart.Store
	coordinator *checkout.Coordinator
	alerts      *alerts.Recorder
	stdin       *bufio.Reader
}

func bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*application, func() error, error) {
	dbClient, err := db.New(ctx, cfg.Storage, logg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening local store: %w", err)
	}

	var cacheClient *redis.Client
	if cfg.Cache.Enabled() {
		cacheClient, err = redis.New(ctx, cfg.Cache, logg)
		if err != nil {
			// The cache is an accelerant, not a dependency.
			logg.Warn(ctx, "catalog cache unavailable, continuing without it")
			cacheClient = nil
		}
	}

	cleanup := func() error {
		err := dbClient.Close()
		if cacheClient != nil {
			err = multierr.Append(err, cacheClient.Close())
		}
		return err
	}

	params := catalog.ClientParams{
		Config:   cfg.Catalog,
		Logger:   logg,
		CacheTTL: cfg.Cache.TTL,
	}
	if cacheClient != nil {
		params.Cache = cacheClient
		params.CacheKey = redis.CatalogKey
	}
	catalogClient, err := catalog.NewClient(params)
	if err != nil {
		return nil, cleanup, err
	}

	repo, err := cart.NewGormRepository(dbClient.DB(), cfg.Storage.Key)
	if err != nil {
		return nil, cleanup, err
	}
	store, err := cart.NewStore(ctx, cart.StoreParams{Repo: repo, Logger: logg})
	if err != nil {
		return nil, cleanup, err
	}

	confirmer, err := catalog.NewConfirmer(catalog.ConfirmerParams{Config: cfg.Confirm, Logger: logg})
	if err != nil {
		return nil, cleanup, err
	}

	recorder := &alerts.Recorder{}
	coordinator, err := checkout.NewCoordinator(checkout.CoordinatorParams{
		Store:     store,
		Confirmer: confirmer,
		Notifier:  recorder,
		Logger:    logg,
	})
	if err != nil {
		return nil, cleanup, err
	}

	return &application{
		catalog:     catalogClient,
		store:       store,
		coordinator: coordinator,
		alerts:      recorder,
		stdin:       bufio.NewReader(os.Stdin),
	}, cleanup, nil
}

func (a *application) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "products":
		return a.cmdProducts(ctx, args[1:])
	case "product":
		return a.cmdProduct(ctx, args[1:])
	case "categories":
		return a.cmdCategories(ctx)
	case "add":
		return a.cmdAdd(ctx, args[1:])
	case "cart":
		return a.cmdCart()
	case "set":
		return a.cmdSet(ctx, args[1:])
	case "remove":
		return a.cmdRemove(ctx, args[1:])
	case "clear":
		a.store.ClearCart(ctx)
		fmt.Println("cart cleared")
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *application) cmdProducts(ctx context.Context, args []string) error {
	filter := catalog.ListFilter{}
	if len(args) > 0 {
		filter.Title = args[0]
	}
	if len(args) > 1 {
		categoryID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("category id must be a number: %q", args[1])
		}
		filter.CategoryID = categoryID
	}

	return a.withRetry(func() error {
		products, err := a.catalog.ListProducts(ctx, filter)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("No products found. Try adjusting your search or filters.")
			return nil
		}
		fmt.Printf("Showing %d product(s)\n", len(products))
		for _, p := range products {
			fmt.Printf("  #%-5d %-40s %10s  [%s]\n", p.ID, truncate(p.Title, 40), p.DisplayPrice(), p.Category.Name)
		}
		return nil
	})
}

func (a *application) cmdProduct(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	return a.withRetry(func() error {
		product, err := a.catalog.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n%s\n", product.ID, product.Title, product.DisplayPrice())
		fmt.Printf("Category: %s\n", product.Category.Name)
		if product.Description != "" {
			fmt.Println(product.Description)
		}
		for _, img := range product.SanitizedImages() {
			fmt.Printf("  image: %s\n", img)
		}
		fmt.Printf("In cart: %d\n", a.store.GetItemQuantity(product.ID))
		return nil
	})
}

func (a *application) cmdCategories(ctx context.Context) error {
	return a.withRetry(func() error {
		categories, err := a.catalog.ListCategories(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("  #%-5d %s\n", c.ID, c.Name)
		}
		return nil
	})
}

func (a *application) cmdAdd(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	var fetched bool
	err = a.withRetry(func() error {
		product, err := a.catalog.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		fetched = true
		_ = a.coordinator.AddToCart(ctx, *product)
		return nil
	})
	if err != nil || !fetched {
		return err
	}

	if alert, ok := a.alerts.Last(); ok {
		fmt.Printf("[%s] %s\n", alert.Level, alert.Message)
	}
	return nil
}

func (a *application) cmdCart() error {
	items := a.store.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, item := range items {
		fmt.Printf("  #%-5d %-40s x%-3d %10s\n",
			item.Product.ID, truncate(item.Product.Title, 40), item.Quantity, "$"+item.LineTotal().StringFixed(2))
	}
	fmt.Printf("items: %d  subtotal: $%s  total: $%s\n",
		a.store.ItemCount(), a.store.Subtotal().StringFixed(2), a.store.Total().StringFixed(2))
	return nil
}

func (a *application) cmdSet(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: storefront set <id> <quantity>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("product id must be a number: %q", args[0])
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number: %q", args[1])
	}
	a.store.UpdateQuantity(ctx, id, quantity)
	return a.cmdCart()
}

func (a *application) cmdRemove(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	a.store.RemoveItem(ctx, id)
	return a.cmdCart()
}

// withRetry runs fn, offering a retry prompt whenever it fails with a
// retryable catalog error. Non-retryable errors propagate immediately.
func (a *application) withRetry(fn func() error) error {
	for {
		err := fn()
		if err == nil || !pkgerrors.Retryable(err) {
			return err
		}
		fmt.Fprintf(os.Stderr, "error: %v\nretry? [y/N] ", err)
		answer, readErr := a.stdin.ReadString('\n')
		if readErr != nil || !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return err
		}
	}
}

func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("a product id is required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("product id must be a number: %q", args[0])
	}
	return id, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
