// catalogctl 目录数据库运维命令：建表、演示数据、创建账号
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/apps/catalog/store"
	"go-modelsdemo/pkg/config"
	"go-modelsdemo/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var configPath string

func openStore() (*store.Store, error) {
	c, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(c.Database)
	if err != nil {
		return nil, err
	}
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Maintenance commands for the catalog service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yaml and .env")
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newCreateUserCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openStore(); err != nil {
				return err
			}
			log.Println("[catalogctl] migration complete")
			return nil
		},
	}
}

func newCreateUserCmd() *cobra.Command {
	var password string
	var staff bool
	cmd := &cobra.Command{
		Use:   "create-user USERNAME",
		Short: "Create an account; --staff grants admin access",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			u, err := st.CreateUser(cmd.Context(), args[0], password, staff)
			if err != nil {
				return err
			}
			log.Printf("[catalogctl] created user %s (id=%d, staff=%t)", u.Username, u.ID, u.IsStaff)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&staff, "staff", false, "grant staff access")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small demo catalog into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return seed(cmd.Context(), st)
		},
	}
}

func seed(ctx context.Context, st *store.Store) error {
	books := &model.Category{Name: "Books", IsActive: true}
	games := &model.Category{Name: "Games", IsActive: true}
	for _, c := range []*model.Category{books, games} {
		if err := st.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("category %s: %w", c.Name, err)
		}
	}

	classic := &model.Tag{Name: "Classic"}
	sale := &model.Tag{Name: "On Sale", Color: "#dc3545"}
	for _, t := range []*model.Tag{classic, sale} {
		if err := st.SaveTag(ctx, t); err != nil {
			return fmt.Errorf("tag %s: %w", t.Name, err)
		}
	}

	products := []*model.Product{
		{Name: "Novel", CategoryID: books.ID, Description: "A page turner.", Price: decimal.RequireFromString("10.00"),
			DiscountPrice: decimal.NewNullDecimal(decimal.RequireFromString("8.00")), StockQuantity: 12,
			Status: model.ProductPublished, IsFeatured: true},
		{Name: "Atlas", CategoryID: books.ID, Description: "Maps of the world.", Price: decimal.RequireFromString("35.00"),
			StockQuantity: 4, Status: model.ProductPublished},
		{Name: "Chess Set", CategoryID: games.ID, Description: "Wooden pieces and board.", Price: decimal.RequireFromString("49.90"),
			StockQuantity: 0, Status: model.ProductPublished, IsFeatured: true},
		{Name: "Card Game", CategoryID: games.ID, Description: "Coming soon.", Price: decimal.RequireFromString("15.00"),
			Status: model.ProductDraft},
	}
	for _, p := range products {
		if err := st.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}
		img := &model.ProductImage{ProductID: p.ID, Image: "products/" + p.Slug + ".jpg", AltText: p.Name, IsPrimary: true}
		if err := st.SaveImage(ctx, img); err != nil {
			return fmt.Errorf("image %s: %w", p.Name, err)
		}
	}
	if _, err := st.SetProductTags(ctx, products[0].ID, []uint{classic.ID, sale.ID}); err != nil {
		return err
	}

	customer, err := st.CreateUser(ctx, "customer", "customer", false)
	if err != nil {
		return err
	}
	reviews := []*model.Review{
		{ProductID: products[0].ID, UserID: customer.ID, Rating: 5, Title: "Loved it", IsVerifiedPurchase: true},
		{ProductID: products[2].ID, UserID: customer.ID, Rating: 4, Title: "Nice set"},
	}
	for _, r := range reviews {
		if err := st.SaveReview(ctx, r); err != nil {
			return fmt.Errorf("review %s: %w", r.Title, err)
		}
	}

	order := &model.Order{
		UserID:          customer.ID,
		ShippingAddress: "221B Baker Street, London",
		Items: []model.OrderItem{
			{ProductID: products[0].ID, Quantity: 2, UnitPrice: products[0].FinalPrice()},
			{ProductID: products[1].ID, Quantity: 1, UnitPrice: products[1].FinalPrice()},
		},
	}
	if err := st.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("order: %w", err)
	}

	log.Printf("[catalogctl] seeded %d products, order %s total %s", len(products), order.OrderNumber, order.TotalAmount.StringFixed(2))
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
