package spec

import (
	"fmt"
	"math"

	"github.com/zintix-labs/fitcorr/bincorr"
	"github.com/zintix-labs/fitcorr/errs"
	"github.com/zintix-labs/fitcorr/na"
)

// CorrectionSetting 一次 bin 修正所需的參數。
//
//	name: dense_library
//	bin_size: 1000        # 省略時使用 bincorr.DefaultBinSize
//	normalize_to: null    # 省略 / null：test - reference；數值 c：test - c
type CorrectionSetting struct {
	Name        string   `yaml:"name"          json:"name"`
	BinSizeRaw  *int     `yaml:"bin_size"      json:"bin_size"`
	NormalizeTo *float64 `yaml:"normalize_to"  json:"normalize_to"`
	BinSize     int      `yaml:"-"             json:"-"`
	Anchor      na.Float `yaml:"-"             json:"-"`
}

// DefaultCorrectionSetting 預設：bin 大小 1000、兩組序列同基準
func DefaultCorrectionSetting() *CorrectionSetting {
	cs := &CorrectionSetting{Name: "default"}
	_ = cs.init()
	return cs
}

// init 填入預設值並轉換成執行期欄位
func (cs *CorrectionSetting) init() error {
	cs.BinSize = bincorr.DefaultBinSize
	if cs.BinSizeRaw != nil {
		cs.BinSize = *cs.BinSizeRaw
	}
	cs.Anchor = na.Missing()
	if cs.NormalizeTo != nil {
		cs.Anchor = na.Of(*cs.NormalizeTo)
	}
	return cs.valid()
}

func (cs *CorrectionSetting) valid() error {
	if cs.BinSize < 1 {
		return errs.InvalidArgumentf("setting %q: bin_size must be >= 1, got %d", cs.Name, cs.BinSize)
	}
	if cs.Anchor.Valid && (math.IsNaN(cs.Anchor.Value) || math.IsInf(cs.Anchor.Value, 0)) {
		return errs.InvalidArgumentf("setting %q: normalize_to must be finite", cs.Name)
	}
	return nil
}

// Mode 回傳錨定模式的文字描述
func (cs *CorrectionSetting) Mode() string {
	return ModeName(cs.Anchor)
}

// ModeName 依錨定值回傳模式名稱
func ModeName(anchor na.Float) string {
	if anchor.Valid {
		return fmt.Sprintf("test-minus-constant(%g)", anchor.Value)
	}
	return "test-minus-reference"
}
