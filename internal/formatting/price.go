package formatting

import "fmt"

// FormatPrice форматирует цену в рублях
func FormatPrice(rubles int) string {
	if rubles == 0 {
		return "бесплатно"
	}
	return fmt.Sprintf("%d ₽", rubles)
}
