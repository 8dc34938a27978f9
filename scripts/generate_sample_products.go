package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleProducts creates the product fixture files the API seeds
// from: a plain JSON file for local runs and a gzipped copy in the layout
// the S3 loader expects.
func main() {
	dataDir := "fixtures"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []map[string]interface{}{
		{
			"id":          "P001",
			"name":        "Butter Croissant",
			"description": "Flaky, all-butter croissant laminated over two days.",
			"price":       3.50,
			"image":       "/img/croissant.jpg",
			"category":    []string{"pastries"},
			"featured":    true,
			"ingredients": []string{"flour", "butter", "yeast", "sugar", "salt"},
			"nutrition": map[string]float64{
				"calories": 310, "fat": 17, "carbs": 33, "protein": 6,
			},
			"countInStock": 40,
		},
		{
			"id":          "P002",
			"name":        "Sourdough Loaf",
			"description": "Naturally leavened country loaf with a 24-hour ferment.",
			"price":       6.00,
			"image":       "/img/sourdough.jpg",
			"category":    []string{"bread"},
			"ingredients": []string{"flour", "water", "salt", "sourdough culture"},
			"nutrition": map[string]float64{
				"calories": 180, "fat": 1, "carbs": 36, "protein": 7,
			},
			"countInStock": 20,
		},
		{
			"id":          "P003",
			"name":        "Carrot Cake",
			"description": "Three-layer carrot cake with cream cheese frosting.",
			"price":       24.00,
			"image":       "/img/carrot.jpg",
			"category":    []string{"cakes"},
			"featured":    true,
			"nutrition": map[string]float64{
				"calories": 420, "fat": 22, "carbs": 52, "protein": 5,
			},
			"countInStock": 5,
		},
		{
			"id":          "P004",
			"name":        "Cinnamon Roll",
			"description": "Soft brioche roll with cinnamon sugar and vanilla glaze.",
			"price":       4.25,
			"image":       "/img/cinnamon.jpg",
			"category":    []string{"pastries"},
			"countInStock": 30,
		},
		{
			"id":          "P005",
			"name":        "Rye Bread",
			"description": "Dense dark rye with caraway seeds.",
			"price":       5.50,
			"image":       "/img/rye.jpg",
			"category":    []string{"bread"},
			"countInStock": 15,
		},
		{
			"id":          "P006",
			"name":        "Lemon Tart",
			"description": "Sharp lemon curd in a sweet shortcrust shell.",
			"price":       5.75,
			"image":       "/img/lemon-tart.jpg",
			"category":    []string{"cakes", "pastries"},
			"countInStock": 12,
		},
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal products: %v", err)
	}

	jsonPath := filepath.Join(dataDir, "products.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", jsonPath, err)
	}
	fmt.Printf("Created %s with %d products\n", jsonPath, len(products))

	gzPath := filepath.Join(dataDir, "products.json.gz")
	if err := writeGzipped(gzPath, data); err != nil {
		log.Fatalf("Failed to write %s: %v", gzPath, err)
	}
	fmt.Printf("Created %s (upload this object for S3 seeding)\n", gzPath)
}

func writeGzipped(path string, data []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	if _, err := gzipWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write gzip data: %w", err)
	}

	return nil
}
