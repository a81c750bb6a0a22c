// Command seed loads a starter catalog into the products collection so a
// fresh deployment has something to sell. Existing products are dropped
// first unless -keep is given; -dry-run prints the catalog without touching
// the database.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/timelessthreads/storefront/config"
	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
)

var (
	defaultSizes  = []string{"S", "M", "L", "XL"}
	defaultColors = []string{"Red", "Blue", "Black"}
)

func catalog() []models.Product {
	return []models.Product{
		{
			Name:        "Embroidered Kurti Set",
			Description: "Beautiful embroidered kurti with matching palazzo pants.",
			Category:    "ethnic",
			Price:       1499,
			Discount:    10,
			Sizes:       defaultSizes,
			Colors:      defaultColors,
			Images:      []string{"kurti_set.jpg", "kurti_set_2.jpg", "kurti_set_3.jpg"},
		},
		{
			Name:        "Lehenga Choli",
			Description: "Traditional lehenga choli set with zari embroidery.",
			Category:    "ethnic",
			Price:       3499,
			Discount:    20,
			Sizes:       defaultSizes,
			Colors:      []string{"Red", "Maroon"},
			Images:      []string{"lehenga_red.jpg", "lehenga_red_2.jpg", "lehenga_red_3.jpg"},
		},
		{
			Name:        "Anarkali Dress",
			Description: "Flowing anarkali dress for festive occasions.",
			Category:    "ethnic",
			Price:       2299,
			Discount:    15,
			Sizes:       defaultSizes,
			Colors:      defaultColors,
			Images:      []string{"anarkali.jpg", "anarkali_2.jpg", "anarkali_3.jpg"},
		},
		{
			Name:        "Banarasi Silk Saree",
			Description: "Handwoven Banarasi silk saree with rich zari border.",
			Category:    "sarees",
			Price:       4599,
			Discount:    20,
			Sizes:       nil,
			Colors:      []string{"Peach", "Gold"},
			Images:      []string{"banarasi_saree.jpg", "banarasi_saree_2.jpg"},
		},
		{
			Name:        "Cotton Printed Saree",
			Description: "Lightweight cotton saree for everyday wear.",
			Category:    "sarees",
			Price:       899,
			Discount:    5,
			Sizes:       nil,
			Colors:      []string{"Blue", "Green"},
			Images:      []string{"cotton_saree.jpg"},
		},
		{
			Name:        "Denim Jacket",
			Description: "Classic denim jacket with a relaxed fit.",
			Category:    "casual",
			Price:       1799,
			Discount:    12,
			Sizes:       defaultSizes,
			Colors:      []string{"Blue", "Black"},
			Images:      []string{"denim_jacket.jpg", "denim_jacket_2.jpg"},
		},
		{
			Name:        "Striped Cotton Top",
			Description: "Breathable striped top for daily wear.",
			Category:    "casual",
			Price:       599,
			Discount:    0,
			Sizes:       defaultSizes,
			Colors:      defaultColors,
			Images:      []string{"striped_top.jpg"},
		},
		{
			Name:        "Matte Lipstick",
			Description: "Long-stay matte lipstick, crimson shade.",
			Category:    "cosmetics",
			Price:       449,
			Discount:    10,
			Images:      []string{"lipstick_crimson.jpg"},
		},
		{
			Name:        "Kajal Pencil",
			Description: "Smudge-proof kajal with deep black finish.",
			Category:    "cosmetics",
			Price:       199,
			Discount:    0,
			Images:      []string{"kajal.jpg"},
		},
	}
}

func main() {
	dryRun := flag.Bool("dry-run", false, "print the catalog without writing to the database")
	keep := flag.Bool("keep", false, "keep existing products instead of dropping them")
	flag.Parse()

	config.LoadConfig()
	utils.InitLogger(config.Environment, config.LogLevel)
	defer utils.SyncLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var products store.ProductStore
	if *dryRun {
		products = store.NewMemoryProductStore()
	} else {
		if err := utils.ConnectMongo(config.MongoURI); err != nil {
			utils.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		db := utils.Client.Database(config.MongoDB)
		if !*keep {
			if err := db.Collection("products").Drop(ctx); err != nil {
				utils.Fatal("Failed to drop products collection", zap.Error(err))
			}
			utils.Info("Dropped existing products")
		}
		products = store.NewMongoProductStore(db)
	}

	inserted := 0
	for _, p := range catalog() {
		product := p
		if err := products.Insert(ctx, &product); err != nil {
			utils.Fatal("Failed to insert product", zap.String("name", product.Name), zap.Error(err))
		}
		utils.Info("Seeded product",
			zap.String("id", product.ID.Hex()),
			zap.String("name", product.Name),
			zap.String("category", product.Category))
		inserted++
	}

	utils.Info("Seed complete", zap.Int("products", inserted), zap.Bool("dry_run", *dryRun))
}
