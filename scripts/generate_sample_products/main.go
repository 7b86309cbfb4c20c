package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"item-compare/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// sampleProduct is the seed for one catalog entry. IDs are derived from the
// slug so regenerating the file keeps them stable.
type sampleProduct struct {
	slug        string
	name        string
	description string
	price       string
	rating      float64
	specs       map[string]string
}

var samples = []sampleProduct{
	{
		slug:        "aurora-wireless-headphones",
		name:        "Aurora Wireless Headphones",
		description: "Over-ear noise cancelling headphones with 30 hour battery life.",
		price:       "249.99",
		rating:      4.6,
		specs:       map[string]string{"battery_life": "30h", "connectivity": "Bluetooth 5.3", "weight": "250g"},
	},
	{
		slug:        "nimbus-ultrabook-14",
		name:        "Nimbus Ultrabook 14",
		description: "Lightweight 14 inch laptop for work and travel.",
		price:       "1299.00",
		rating:      4.7,
		specs:       map[string]string{"cpu": "8-core", "ram": "16GB", "storage": "512GB SSD", "weight": "1.2kg"},
	},
	{
		slug:        "pixel-pro-smartphone",
		name:        "Pixel Pro Smartphone",
		description: "6.7 inch smartphone with a triple camera system.",
		price:       "899.00",
		rating:      4.5,
		specs:       map[string]string{"battery": "5000mAh", "camera": "50MP", "screen": "6.7in OLED", "storage": "256GB"},
	},
	{
		slug:        "terra-smartwatch-s2",
		name:        "Terra Smartwatch S2",
		description: "Fitness focused smartwatch with GPS and heart rate tracking.",
		price:       "199.50",
		rating:      4.2,
		specs:       map[string]string{"battery_life": "7 days", "gps": "true", "water_resistance": "5ATM"},
	},
	{
		slug:        "echo-mini-speaker",
		name:        "Echo Mini Speaker",
		description: "Compact portable speaker with deep bass.",
		price:       "59.99",
		rating:      4.1,
		specs:       map[string]string{"battery_life": "12h", "connectivity": "Bluetooth 5.0", "waterproof": "IPX7"},
	},
	{
		slug:        "vista-4k-monitor-27",
		name:        "Vista 4K Monitor 27",
		description: "27 inch 4K IPS monitor with USB-C power delivery.",
		price:       "429.00",
		rating:      4.4,
		specs:       map[string]string{"panel": "IPS", "refresh_rate": "60Hz", "resolution": "3840x2160", "size": "27in"},
	},
	{
		slug:        "swift-mechanical-keyboard",
		name:        "Swift Mechanical Keyboard",
		description: "Tenkeyless mechanical keyboard with hot-swappable switches.",
		price:       "129.00",
		rating:      4.8,
		specs:       map[string]string{"layout": "TKL", "switches": "Tactile", "backlight": "RGB"},
	},
	{
		slug:        "glide-wireless-mouse",
		name:        "Glide Wireless Mouse",
		description: "Ergonomic wireless mouse with silent clicks.",
		price:       "39.90",
		rating:      3.9,
		specs:       map[string]string{"dpi": "4000", "buttons": "6", "connectivity": "2.4GHz"},
	},
	{
		slug:        "orbit-tablet-11",
		name:        "Orbit Tablet 11",
		description: "11 inch tablet with stylus support.",
		price:       "549.00",
		rating:      4.3,
		specs:       map[string]string{"screen": "11in LCD", "storage": "128GB", "stylus": "supported"},
	},
	{
		slug:        "pulse-fitness-band",
		name:        "Pulse Fitness Band",
		description: "Slim activity tracker with sleep monitoring.",
		price:       "49.00",
		rating:      3.8,
		specs:       map[string]string{},
	},
}

// Writes data/products.json and a gzipped copy for the S3 source.
func main() {
	dataDir := "data"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	doc := struct {
		Products []model.Product `json:"products"`
	}{}

	for _, s := range samples {
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("item-compare/"+s.slug))
		doc.Products = append(doc.Products, model.Product{
			ID:             id,
			Name:           s.name,
			ImageURL:       "https://images.example.com/products/" + s.slug + ".jpg",
			Description:    s.description,
			Price:          decimal.RequireFromString(s.price),
			Rating:         s.rating,
			Specifications: s.specs,
			Currency:       "USD",
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode products: %v", err)
	}
	data = append(data, '\n')

	jsonPath := filepath.Join(dataDir, "products.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", jsonPath, err)
	}
	fmt.Printf("Created %s with %d products\n", jsonPath, len(doc.Products))

	gzPath := jsonPath + ".gz"
	if err := writeGzip(gzPath, data); err != nil {
		log.Fatalf("Failed to write %s: %v", gzPath, err)
	}
	fmt.Printf("Created %s\n", gzPath)
}

func writeGzip(filePath string, data []byte) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write products: %w", err)
	}

	return gzipWriter.Close()
}
