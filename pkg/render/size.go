package render

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// HumanSize formats n bytes with binary multiples rounded to a whole
// number, e.g. "0 B", "512 B", "12 KB", "3 MB".
func HumanSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	exp := min(int(math.Floor(math.Log(float64(n))/math.Log(1024))), len(sizeUnits)-1)
	v := math.Round(float64(n) / math.Pow(1024, float64(exp)))
	if v == 1024 && exp < len(sizeUnits)-1 {
		v, exp = 1, exp+1
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[exp]
}
