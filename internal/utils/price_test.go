package utils

import "testing"

func TestParsePrice(t *testing.T) {
	want := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		raw  interface{}
		want *float64
	}{
		{"nil", nil, nil},
		{"пустая строка", "", nil},
		{"пробелы", "   ", nil},
		{"точка", "12.50", want(12.5)},
		{"запятая", "12,50", want(12.5)},
		{"запятая с пробелами", " 10,00 ", want(10)},
		{"число", float64(7), want(7)},
		{"целое", 5, want(5)},
		{"ноль", "0", want(0)},
		{"мусор", "abc", nil},
		{"отрицательная", "-3", nil},
		{"NaN", "NaN", nil},
		{"бесконечность", "Inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParsePrice(%v) = %v, ожидали nil", tt.raw, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ParsePrice(%v) = nil, ожидали %v", tt.raw, *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("ParsePrice(%v) = %v, ожидали %v", tt.raw, *got, *tt.want)
			}
		})
	}
}
