package utils

import "github.com/shopspring/decimal"

// RoundTo rounds v to places decimal digits using banker-free (half-up)
// rounding via shopspring/decimal, avoiding the float-formatting drift
// strconv.FormatFloat can introduce across platforms.
func RoundTo(v float64, places int32) float64 {
	out, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return out
}

// RoundToPtr rounds an optional value in place, returning nil untouched.
func RoundToPtr(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r := RoundTo(*v, places)
	return &r
}
