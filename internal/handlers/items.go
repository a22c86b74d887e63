package handlers

import (
	"strconv"
	"strings"

	"fieldops/internal/billing"

	"github.com/gin-gonic/gin"
)

// parseLines собирает позиции из параллельных массивов формы.
// Пустые строки пропускаем — форма присылает и незаполненные ряды.
func parseLines(c *gin.Context) []billing.Line {
	descs := c.PostFormArray("item_description")
	qtys := c.PostFormArray("item_quantity")
	prices := c.PostFormArray("item_price")

	var lines []billing.Line
	for i := range descs {
		desc := strings.TrimSpace(descs[i])
		if desc == "" {
			continue
		}

		qty := 1.0
		if i < len(qtys) {
			if q, err := strconv.ParseFloat(qtys[i], 64); err == nil && q > 0 {
				qty = q
			}
		}

		var price float64
		if i < len(prices) {
			if p, err := strconv.ParseFloat(prices[i], 64); err == nil && p >= 0 {
				price = p
			}
		}

		lines = append(lines, billing.Line{
			Description: desc,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}
	return lines
}
