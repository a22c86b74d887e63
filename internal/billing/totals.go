package billing

import "math"

// Позиция документа (сметы или счёта).
type Line struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// Total — единственный источник правды для суммы документа:
// Σ(количество × цена), округлённая до копеек. Поле amount в БД
// выставляется только отсюда, кроме ручной корректировки руководителя.
func Total(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Quantity * l.UnitPrice
	}
	return Round2(sum)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
