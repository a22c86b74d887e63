package database

import (
	"log"
	"os"

	"fieldops/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type catalogFile struct {
	Items []catalogItem `yaml:"items"`
}

type catalogItem struct {
	Name      string  `yaml:"name"`
	Unit      string  `yaml:"unit"`
	UnitPrice float64 `yaml:"unit_price"`
}

// SeedCatalog наполняет прайс-лист из yaml. Идемпотентно:
// уже существующие позиции (по имени) не трогаем.
func SeedCatalog(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("catalog file %s not found, skipping seed", path)
			return nil
		}
		return err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	for _, item := range file.Items {
		if item.Name == "" || item.UnitPrice <= 0 {
			continue
		}

		var count int64
		if err := db.Model(&models.PriceListItem{}).
			Where("name = ?", item.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		entry := models.PriceListItem{
			Name:      item.Name,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
		}
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
	}

	return nil
}
