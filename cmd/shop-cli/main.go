// Command shop-cli is a terminal storefront client. It lists products,
// keeps a local cart of product snapshots that survives between runs, and
// starts checkout by handing off to the payment processor's hosted page.
//
// The cart is re-read from its file before every command, so edits made by
// another process between runs are picked up.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/dsoler/futurshop/internal/domain/catalog"
	"github.com/dsoler/futurshop/internal/storage/cartfile"
)

const usage = `usage: shop-cli [flags] <command>

commands:
  products           list the catalog
  cart               show the cart
  cart-add <id>      add a product snapshot to the cart
  cart-rm <index>    remove the cart entry at index
  buy <id>           start checkout for one product
`

type cli struct {
	client  *http.Client
	baseURL string
	carts   *cartfile.Store
}

func main() {
	var (
		serverURL string
		cartPath  string
	)

	flag.StringVar(&serverURL, "server", "http://localhost:8080", "storefront API base URL")
	flag.StringVar(&cartPath, "cart-file", "", "cart file path (default <user config dir>/futurshop/cart.json)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if cartPath == "" {
		confDir, err := os.UserConfigDir()
		if err != nil {
			slog.Error("resolve config dir", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cartPath = filepath.Join(confDir, "futurshop", "cart.json")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	c := &cli{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: serverURL,
		carts:   cartfile.New(cartPath),
	}

	if err := c.run(ctx, flag.Args()); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	switch cmd := args[0]; cmd {
	case "products":
		return c.listProducts(ctx)
	case "cart":
		return c.showCart()
	case "cart-add":
		if len(args) < 2 {
			return errors.New("cart-add requires a product id")
		}
		return c.addToCart(ctx, args[1])
	case "cart-rm":
		if len(args) < 2 {
			return errors.New("cart-rm requires an index")
		}
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrap(err, "parse index")
		}
		return c.removeFromCart(idx)
	case "buy":
		if len(args) < 2 {
			return errors.New("buy requires a product id")
		}
		return c.buy(ctx, args[1])
	default:
		flag.Usage()
		return errors.Errorf("unknown command %q", cmd)
	}
}

func (c *cli) listProducts(ctx context.Context) error {
	products, err := c.fetchProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("no products to show")
		return nil
	}
	for _, p := range products {
		fmt.Printf("%s  %-24s %-12s %8s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2))
	}
	return nil
}

func (c *cli) showCart() error {
	crt, err := c.carts.Load()
	if err != nil {
		return err
	}
	entries := crt.Entries()
	if len(entries) == 0 {
		fmt.Println("your cart is empty")
		return nil
	}
	for i, p := range entries {
		fmt.Printf("[%d] %-24s %8s\n", i, p.Name, p.Price.StringFixed(2))
	}
	fmt.Printf("total: %s (%d items)\n", crt.Total().StringFixed(2), crt.Count())
	return nil
}

func (c *cli) addToCart(ctx context.Context, id string) error {
	products, err := c.fetchProducts(ctx)
	if err != nil {
		return err
	}

	crt, err := c.carts.Load()
	if err != nil {
		return err
	}

	// Unknown ids are ignored without failing, same as the storefront UI.
	if crt.AddFromCatalog(products, id) {
		fmt.Println("added to cart")
	} else {
		fmt.Println("product not found, cart unchanged")
	}
	return c.carts.Save(crt)
}

func (c *cli) removeFromCart(idx int) error {
	crt, err := c.carts.Load()
	if err != nil {
		return err
	}
	crt.Remove(idx)
	return c.carts.Save(crt)
}

func (c *cli) buy(ctx context.Context, id string) error {
	products, err := c.fetchProducts(ctx)
	if err != nil {
		return err
	}

	var product *catalog.Product
	for i := range products {
		if products[i].ID == id {
			product = &products[i]
			break
		}
	}
	if product == nil {
		return errors.Errorf("product %q not found", id)
	}

	url, err := c.startCheckout(ctx, *product)
	if err != nil {
		return err
	}
	fmt.Printf("pay here: %s\n", url)
	return nil
}

func (c *cli) fetchProducts(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("server returned %d", resp.StatusCode)
	}

	return catalog.DecodeProducts(jx.DecodeBytes(body))
}
