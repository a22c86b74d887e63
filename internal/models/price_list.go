package models

import "gorm.io/gorm"

// Справочник услуг и расценок. Наполняется из configs/catalog.yaml
// при старте, дальше правится через админку.
type PriceListItem struct {
	gorm.Model
	Name      string  `gorm:"size:255;not null;uniqueIndex"`
	Unit      string  `gorm:"size:32"` // час, шт, м² и т.п.
	UnitPrice float64 `gorm:"not null"`
}
