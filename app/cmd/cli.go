package cmd

import (
	"context"
	"log"
	"os"

	"github.com/cetak3d/go-printshop/app/configs"
	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/models/migrations"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed-prices",
				Usage: "Seed the price table with the default material rates",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					priceRepo := repositories.NewPriceRuleRepository(db)
					for _, rule := range defaultPriceRules() {
						var count int64
						db.Model(&models.PriceRule{}).
							Where("material = ? AND layer_height = ?", rule.Material, rule.LayerHeight).
							Count(&count)
						if count > 0 {
							continue
						}
						if err := priceRepo.Create(ctx, &rule); err != nil {
							return err
						}
						log.Printf("Seeded price rule %s @ %.3f mm", rule.Material, rule.LayerHeight)
					}
					log.Println("✅ Price seeding complete")
					return nil
				},
			},
			{
				Name:  "list-prices",
				Usage: "Print every price rule, including inactive ones",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					rules, err := repositories.NewPriceRuleRepository(db).GetAll(ctx)
					if err != nil {
						return err
					}
					for _, rule := range rules {
						active := "active"
						if !rule.IsActive {
							active = "inactive"
						}
						log.Printf("%-6s %.3f mm  Rp %s/g  (%s)", rule.Material, rule.LayerHeight, rule.PricePerGram.String(), active)
					}
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func defaultPriceRules() []models.PriceRule {
	return []models.PriceRule{
		{Material: "PLA", LayerHeight: 0.10, PricePerGram: decimal.NewFromInt(1000), IsActive: true},
		{Material: "PLA", LayerHeight: 0.20, PricePerGram: decimal.NewFromInt(800), IsActive: true},
		{Material: "PLA", LayerHeight: 0.30, PricePerGram: decimal.NewFromInt(700), IsActive: true},
		{Material: "PETG", LayerHeight: 0.20, PricePerGram: decimal.NewFromInt(1100), IsActive: true},
		{Material: "PETG", LayerHeight: 0.30, PricePerGram: decimal.NewFromInt(950), IsActive: true},
		{Material: "ABS", LayerHeight: 0.20, PricePerGram: decimal.NewFromInt(1200), IsActive: true},
		{Material: "TPU", LayerHeight: 0.20, PricePerGram: decimal.NewFromInt(1500), IsActive: true},
	}
}
