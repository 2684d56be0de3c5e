package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/tene-backend/config"
	"github.com/ikkim/tene-backend/internal/app/repository"
	"github.com/ikkim/tene-backend/internal/app/service"
	"github.com/ikkim/tene-backend/internal/catalog"
	"github.com/ikkim/tene-backend/internal/db"
	"github.com/ikkim/tene-backend/pkg/logger"
)

func main() {
	assumeYes := flag.Bool("y", false, "import without asking for confirmation")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/seed [-y] <xlsx_file_path>")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
	})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := catalog.ReadXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	for _, rowErr := range skipped {
		fmt.Printf("  skipped %s\n", rowErr.Error())
	}
	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(products), len(skipped))
	if len(products) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !*assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productService := service.NewProductService(repository.NewProductRepository(db.GetDB()))
	if err := productService.ImportProducts(products); err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}
