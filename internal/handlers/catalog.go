package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/gin-gonic/gin"
)

//
// ПРАЙС-ЛИСТ УСЛУГ
//

func ListCatalog(c *gin.Context) {
	var items []models.PriceListItem
	database.DB.Order("name asc").Find(&items)

	render(c, http.StatusOK, "catalog_list.html", gin.H{
		"items": items,
		"error": "",
	})
}

func CreateCatalogItem(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	unit := strings.TrimSpace(c.PostForm("unit"))
	priceStr := c.PostForm("unit_price")

	if name == "" {
		renderCatalogError(c, "Укажите название услуги")
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		renderCatalogError(c, "Некорректная цена")
		return
	}

	var count int64
	database.DB.Model(&models.PriceListItem{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count)
	if count > 0 {
		renderCatalogError(c, "Такая услуга уже есть в прайс-листе")
		return
	}

	item := models.PriceListItem{
		Name:      name,
		Unit:      unit,
		UnitPrice: price,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		renderCatalogError(c, "Ошибка сохранения услуги")
		return
	}

	c.Redirect(http.StatusFound, "/catalog")
}

func DeleteCatalogItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	if err := database.DB.Delete(&models.PriceListItem{}, id).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	c.Redirect(http.StatusFound, "/catalog")
}

func renderCatalogError(c *gin.Context, msg string) {
	var items []models.PriceListItem
	database.DB.Order("name asc").Find(&items)

	render(c, http.StatusBadRequest, "catalog_list.html", gin.H{
		"items": items,
		"error": msg,
	})
}
