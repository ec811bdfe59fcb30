package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice нормализует «сырую» цену (строка, число, nil). Запятая
// принимается как десятичный разделитель. Всё, что не парсится в конечное
// неотрицательное число, превращается в nil («без цены»), а не в ошибку.
func ParsePrice(raw interface{}) *float64 {
	if raw == nil {
		return nil
	}

	var s string
	switch v := raw.(type) {
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		s = v
	default:
		s = fmt.Sprintf("%v", v)
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return nil
	}
	return &parsed
}
