// Package robust 穩健統計量：中位數與中位數絕對偏差（MAD）
package robust

import (
	"math"

	"github.com/montanaflynn/stats"
)

// MADConstant 常態一致性係數：對常態分布資料 MAD*1.4826 約等於標準差
const MADConstant = 1.4826

// Median 回傳中位數；偶數長度取中間兩數平均。空輸入回傳 NaN。
//
// 不會修改 xs。
func Median(xs []float64) float64 {
	m, err := stats.Median(xs)
	return orNaN(m, err)
}

// MADRaw 未乘係數的 median(|x - median(x)|)
func MADRaw(xs []float64) float64 {
	m, err := stats.MedianAbsoluteDeviation(xs)
	return orNaN(m, err)
}

// MAD 乘上 MADConstant 的中位數絕對偏差
func MAD(xs []float64) float64 {
	return MADConstant * MADRaw(xs)
}

// orNaN 把 stats.ErrEmptyInput（兩個函數唯一會回傳的錯誤）映射成 NaN
func orNaN(v float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return v
}
