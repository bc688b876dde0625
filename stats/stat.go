package stats

import (
	"math"

	"github.com/zintix-labs/fitcorr/bincorr"
	"github.com/zintix-labs/fitcorr/errs"
	"github.com/zintix-labs/fitcorr/na"
	"github.com/zintix-labs/fitcorr/spec"
	"gonum.org/v1/gonum/stat"
)

// Report 一次修正的診斷報告
type Report struct {
	Summary *SummaryReport      `json:"Summary" yaml:"summary"`
	Bins    []bincorr.BinRecord `json:"Bins"    yaml:"bins"`
}

// SummaryReport 修正前後的偏差摘要
//
// CorrBefore / CorrAfter 為 reference 與差值（test - reference 或 test - c）之間的 Pearson 相關係數。
// 修正的目的就是讓 CorrAfter 趨近 0；有效點少於 2 或變異數為 0 時為缺值。
type SummaryReport struct {
	Name         string   `json:"Name"         yaml:"name"`
	Mode         string   `json:"Mode"         yaml:"mode"`
	N            int      `json:"N"            yaml:"n"`
	Valid        int      `json:"Valid"        yaml:"valid"`
	Bins         int      `json:"Bins"         yaml:"bins"`
	CorrBefore   na.Float `json:"CorrBefore"   yaml:"corr_before"`
	CorrAfter    na.Float `json:"CorrAfter"    yaml:"corr_after"`
	OffsetMean   float64  `json:"OffsetMean"   yaml:"offset_mean"`
	OffsetStd    float64  `json:"OffsetStd"    yaml:"offset_std"`
	MaxAbsOffset float64  `json:"MaxAbsOffset" yaml:"max_abs_offset"`
}

// Diagnose 由修正結果建立報告。
//
// reference、test 必須是產生 res 的同一組輸入，anchor 必須與呼叫 bincorr.Correct 時相同；
// 長度與 res.Corrected 不符時回傳 CodeInvalidArgument。
func Diagnose(reference, test []na.Float, res *bincorr.Result, anchor na.Float) (*Report, error) {
	if res == nil {
		return nil, errs.InvalidArgumentf("diagnose: nil result")
	}
	if len(reference) != len(res.Corrected) || len(test) != len(res.Corrected) {
		return nil, errs.InvalidArgumentf("diagnose: input length %d/%d does not match result length %d",
			len(reference), len(test), len(res.Corrected))
	}
	rep := &Report{
		Summary: &SummaryReport{
			Mode: spec.ModeName(anchor),
			N:    len(test),
		},
		Bins: res.Bins,
	}
	if res.Empty() {
		return rep, nil
	}

	valid := res.Valid()
	refs := make([]float64, 0, valid)
	before := make([]float64, 0, valid)
	after := make([]float64, 0, valid)
	for _, members := range res.Members {
		for _, idx := range members {
			base := reference[idx].Value
			if anchor.Valid {
				base = anchor.Value
			}
			refs = append(refs, reference[idx].Value)
			before = append(before, test[idx].Value-base)
			after = append(after, res.Corrected[idx].Value-base)
		}
	}

	s := rep.Summary
	s.Valid = valid
	s.Bins = len(res.Bins)
	s.CorrBefore = correlation(refs, before)
	s.CorrAfter = correlation(refs, after)

	offsets := res.Offsets()
	if len(offsets) > 1 {
		s.OffsetMean, s.OffsetStd = stat.MeanStdDev(offsets, nil)
	} else {
		s.OffsetMean = offsets[0]
	}
	for _, o := range offsets {
		s.MaxAbsOffset = max(s.MaxAbsOffset, math.Abs(o))
	}
	return rep, nil
}

func correlation(x, y []float64) na.Float {
	if len(x) < 2 {
		return na.Missing()
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return na.Missing()
	}
	return na.Of(c)
}
