package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localpass/localpass/models"
)

type seedLocation struct {
	Name     string
	Address  string
	Category string
}

// One seed business per board cell minus the free space, minimum for a season.
var sampleLocations = []seedLocation{
	{"Harbor Bean Coffee", "123 Main St, Ventura, CA", "Cafe"},
	{"Coastal Threads", "45 Oak Ave, Ventura, CA", "Apparel"},
	{"Seaside Book Nook", "78 Harbor Blvd, Ventura, CA", "Books"},
	{"Ventura Vinyl", "210 Palm St, Ventura, CA", "Music"},
	{"Citrus Bowl Eatery", "15 Citrus Dr, Ventura, CA", "Food"},
	{"Downtown Craft Co.", "98 Santa Clara St, Ventura, CA", "Gifts"},
	{"Pierview Florals", "6 Pier Ave, Ventura, CA", "Florist"},
	{"Channel Island Outfitters", "300 Coast Hwy, Ventura, CA", "Outdoor"},
	{"Mission Bicycle", "52 Mission Ave, Ventura, CA", "Bikes"},
	{"Sunset Smoothies", "19 Sunset Blvd, Ventura, CA", "Juice"},
	{"Starlight Toy Box", "87 California St, Ventura, CA", "Toys"},
	{"Pacific Plant Shop", "12 Thompson Blvd, Ventura, CA", "Plants"},
	{"Boardwalk Bakes", "201 Seaward Ave, Ventura, CA", "Bakery"},
	{"Surfside Gallery", "33 Figueroa St, Ventura, CA", "Art"},
	{"Lighthouse Leather", "9 Ventura Ave, Ventura, CA", "Accessories"},
	{"Marina Pet Supply", "1410 Harbor Blvd, Ventura, CA", "Pets"},
	{"Rincon Roasters", "77 Rincon St, Ventura, CA", "Cafe"},
	{"Seaside Soapery", "65 Poli St, Ventura, CA", "Bath"},
	{"Ventura Vintage", "220 Chestnut St, Ventura, CA", "Vintage"},
	{"Channel Chocolates", "5 Thompson Blvd, Ventura, CA", "Sweets"},
	{"Harbor Hardware", "410 East Main St, Ventura, CA", "Hardware"},
	{"Oceanview Yoga", "27 Cedar St, Ventura, CA", "Wellness"},
	{"Downtown Deli Co.", "18 Oak St, Ventura, CA", "Deli"},
	{"Ventura Game Loft", "70 Santa Clara St, Ventura, CA", "Games"},
}

// SeedLocations inserts the sample businesses when the locations table is
// empty. Returns how many locations were created.
func SeedLocations(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Location{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now()
	locations := make([]models.Location, 0, len(sampleLocations))
	for _, s := range sampleLocations {
		locations = append(locations, models.Location{
			ID:        uuid.NewString(),
			Name:      s.Name,
			Address:   s.Address,
			Category:  s.Category,
			Active:    true,
			CreatedAt: now,
		})
	}
	if err := db.WithContext(ctx).Create(&locations).Error; err != nil {
		return 0, err
	}
	return len(locations), nil
}
