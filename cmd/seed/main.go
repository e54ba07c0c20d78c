package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"sparkmart-ai-be/internal/repository/implementation"
	"sparkmart-ai-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Seeds a small demo catalog so the chatbot works out of the box.
var (
	seedColumns = []string{"Product_Name", "Category", "Price", "Description"}
	seedRows    = [][]string{
		{"Wireless Earbuds Pro", "Electronics", "79.99", "Noise-cancelling earbuds with 24h battery"},
		{"Smart Watch Lite", "Electronics", "129.00", "Fitness tracking and notifications"},
		{"Leather Wallet", "Accessories", "34.50", "Slim bifold wallet, genuine leather"},
		{"Canvas Tote Bag", "Accessories", "18.00", "Everyday tote with inner pocket"},
		{"Thermal Jacket", "Clothing", "89.90", "Insulated jacket for cold weather"},
		{"Wool Beanie", "Clothing", "14.99", "Warm knit beanie, one size"},
		{"Stainless Bottle 1L", "Home", "24.00", "Keeps drinks cold 24h, hot 12h"},
		{"Ceramic Mug Set", "Home", "29.99", "Set of 4 stoneware mugs"},
		{"Yoga Mat", "Sports", "39.00", "Non-slip 6mm exercise mat"},
		{"Running Shoes", "Sports", "99.95", "Lightweight cushioned trainers"},
	}
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	table := os.Getenv("CATALOG_TABLE")
	if table == "" {
		table = "Ecommerce_Data"
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding demo catalog into %q...", table)

	catalogRepo := implementation.NewCatalogRepository(db)
	if err := catalogRepo.ReplaceTable(context.Background(), table, seedColumns, seedRows); err != nil {
		color.Red("Error: Failed to seed catalog: %v", err)
		os.Exit(1)
	}

	color.Green("Seeded %d products across %d columns.", len(seedRows), len(seedColumns))
	for _, row := range seedRows {
		fmt.Printf("  - %s (%s) $%s\n", row[0], row[1], row[2])
	}
}
