package risk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

// CategoryPrefix — первые 5 символов категории без пробелов, в верхнем регистре.
// "Performance Management" → "PERFO"
func CategoryPrefix(category string) string {
	runes := []rune(category)
	if len(runes) > 5 {
		runes = runes[:5]
	}
	prefix := strings.ReplaceAll(string(runes), " ", "")
	return strings.ToUpper(prefix)
}

// NextID выдает следующий идентификатор вида <PREFIX>-<NNN> для категории.
// Сканирует максимальный числовой суффикс среди существующих записей префикса.
// Битый суффикс (импортированные извне данные) трактуется как 0, а не как ошибка.
// Уникальность — следствие корректного max-скана; ручное присвоение ID в обход
// аллокатора остается на совести вызывающей стороны.
func NextID(existing []domain.RiskItem, category string) string {
	prefix := CategoryPrefix(category)

	maxSuffix := 0
	for _, item := range existing {
		if !strings.HasPrefix(item.ID, prefix+"-") {
			continue
		}
		raw := strings.TrimPrefix(item.ID, prefix+"-")
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		if n > maxSuffix {
			maxSuffix = n
		}
	}

	return fmt.Sprintf("%s-%03d", prefix, maxSuffix+1)
}
