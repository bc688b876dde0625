// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bincorr 修正成對適應度量測中，因兩組實驗有效時長不同而造成的系統性偏差。
//
// 當 reference 與 test 兩個條件的實驗長度不同時，突變株在 test 條件下量到的變化量
// 會和它的 reference 適應度產生假相關。本包沿 reference 軸把突變株排序分箱（bin），
// 再把每個 bin 內 test 值的差值中位數移回 0，以去除這個相關。
//
// 兩種錨定模式：
//   - normalizeTo 缺值：兩組序列錨定在同一基準，差值 = test - reference。
//   - normalizeTo = c：test 錨定在 reference 終點，差值 = test - c。
//
// Correct 為純函數：不持有任何共享狀態，可在多個 goroutine 中對不同條件同時呼叫。
package bincorr

import (
	"sort"

	"github.com/zintix-labs/fitcorr/errs"
	"github.com/zintix-labs/fitcorr/na"
	"github.com/zintix-labs/fitcorr/robust"
)

// DefaultBinSize 預設每個 bin 的突變株數。稀疏或雜訊高的資料庫應改用較小的值。
const DefaultBinSize int = 1000

// BinRecord 單一 bin 的統計
type BinRecord struct {
	RefMedian  float64 `json:"RefMedian"  yaml:"ref_median"`
	TestMedian float64 `json:"TestMedian" yaml:"test_median"`
	DiffMedian float64 `json:"DiffMedian" yaml:"diff_median"` // 即此 bin 的修正量
	Count      int     `json:"Count"      yaml:"count"`
	DiffMAD    float64 `json:"DiffMAD"    yaml:"diff_mad"`    // 已乘 robust.MADConstant
}

// Result 一次修正的完整輸出
//
// Bins、TestGroups、RefGroups、Members 皆依 reference 由小到大的 bin 順序排列；
// 每個 bin 內的元素依排序後的秩（rank）排列。
type Result struct {
	Bins       []BinRecord
	Corrected  []na.Float  // 與輸入 test 等長、同位置；不在有效集合中的位置為缺值
	TestGroups [][]float64 // 每個 bin 的原始 test 值
	RefGroups  [][]float64 // 每個 bin 的原始 reference 值
	Members    [][]int     // 每個 bin 成員在原始輸入中的位置
}

// Empty 回報是否沒有任何有效配對（退化但合法的結果）
func (r *Result) Empty() bool { return len(r.Bins) == 0 }

// Valid 有效配對數 |V|
func (r *Result) Valid() int {
	n := 0
	for _, b := range r.Bins {
		n += b.Count
	}
	return n
}

// Offsets 回傳每個 bin 的修正量（DiffMedian）
func (r *Result) Offsets() []float64 {
	out := make([]float64, len(r.Bins))
	for i, b := range r.Bins {
		out[i] = b.DiffMedian
	}
	return out
}

// Correct 依 reference 分箱並修正 test。
//
// 錯誤（皆為 errs.CodeInvalidArgument）：
//   - reference 與 test 長度不同
//   - binSize < 1
//   - 有值但非有限（NaN / ±Inf）的輸入或 normalizeTo
//
// 沒有任何有效配對時回傳 0 個 bin、全缺值的 Corrected，不視為錯誤。
func Correct(reference, test []na.Float, binSize int, normalizeTo na.Float) (*Result, error) {
	if err := validate(reference, test, binSize, normalizeTo); err != nil {
		return nil, err
	}

	n := len(test)
	res := &Result{Corrected: make([]na.Float, n)}

	// 1. 有效集合 V
	valid := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if reference[i].Valid && test[i].Valid {
			valid = append(valid, i)
		}
	}
	if len(valid) == 0 {
		return res, nil
	}

	// 2. 依 reference 升冪排序；同值保持原始位置順序
	sort.SliceStable(valid, func(a, b int) bool {
		return reference[valid[a]].Value < reference[valid[b]].Value
	})

	// 3. 切成 [lo, hi) 的連續區段，最後一段取餘數
	nBins := (len(valid) + binSize - 1) / binSize
	res.Bins = make([]BinRecord, 0, nBins)
	res.TestGroups = make([][]float64, 0, nBins)
	res.RefGroups = make([][]float64, 0, nBins)
	res.Members = make([][]int, 0, nBins)

	for lo := 0; lo < len(valid); lo += binSize {
		hi := min(lo+binSize, len(valid))
		members := valid[lo:hi:hi]

		refs := make([]float64, len(members))
		tests := make([]float64, len(members))
		diffs := make([]float64, len(members))
		for j, idx := range members {
			refs[j] = reference[idx].Value
			tests[j] = test[idx].Value
			if normalizeTo.Valid {
				diffs[j] = tests[j] - normalizeTo.Value
			} else {
				diffs[j] = tests[j] - refs[j]
			}
		}

		offset := robust.Median(diffs)
		res.Bins = append(res.Bins, BinRecord{
			RefMedian:  robust.Median(refs),
			TestMedian: robust.Median(tests),
			DiffMedian: offset,
			Count:      len(diffs),
			DiffMAD:    robust.MAD(diffs),
		})

		// 寫回原始位置，而非排序後的位置
		for j, idx := range members {
			res.Corrected[idx] = na.Of(tests[j] - offset)
		}

		res.TestGroups = append(res.TestGroups, tests)
		res.RefGroups = append(res.RefGroups, refs)
		res.Members = append(res.Members, append([]int(nil), members...))
	}

	return res, nil
}

func validate(reference, test []na.Float, binSize int, normalizeTo na.Float) error {
	if len(reference) != len(test) {
		return errs.InvalidArgumentf("reference and test length mismatch: %d != %d", len(reference), len(test))
	}
	if binSize < 1 {
		return errs.InvalidArgumentf("bin size must be >= 1, got %d", binSize)
	}
	if normalizeTo.Valid && !normalizeTo.Finite() {
		return errs.InvalidArgumentf("normalize-to anchor must be finite, got %v", normalizeTo.Value)
	}
	for i := range reference {
		if reference[i].Valid && !reference[i].Finite() {
			return errs.InvalidArgumentf("reference[%d] is not a finite number: %v", i, reference[i].Value)
		}
		if test[i].Valid && !test[i].Finite() {
			return errs.InvalidArgumentf("test[%d] is not a finite number: %v", i, test[i].Value)
		}
	}
	return nil
}
