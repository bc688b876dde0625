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

// Package fitcorr 提供 bin 修正的「組裝入口（assembler）」。
//
// Corrector 把兩個地基組合在一起：
//  1. CorrectionSetting：bin 大小與錨定模式（通常由 YAML/JSON 解析而來）。
//  2. *slog.Logger：由 logger 包建立，或呼叫端自行注入。
//
// 設計重點：
//   - fitcorr 不讀寫檔案，也不迭代多個實驗條件：載入欄位、逐條件呼叫、組合輸出都屬於呼叫端。
//   - Corrector 只持有不可變的設定，同一個 instance 可以在多個 goroutine 中對不同條件同時呼叫。
//
//	cs, _ := spec.GetCorrectionSettingByYAML(raw)
//	c, _ := fitcorr.New(cs, logger.NewDefaultLogger(logger.ModeProd))
//	for _, cond := range conditions {      // 呼叫端的迴圈
//		res, _ := c.Correct(reference, cond.Test)
//		// res.Corrected -> 寫回呼叫端的表格
//	}
package fitcorr

import (
	"log/slog"

	"github.com/zintix-labs/fitcorr/bincorr"
	"github.com/zintix-labs/fitcorr/errs"
	"github.com/zintix-labs/fitcorr/logger"
	"github.com/zintix-labs/fitcorr/na"
	"github.com/zintix-labs/fitcorr/spec"
	"github.com/zintix-labs/fitcorr/stats"
)

// Corrector 依固定設定執行 bin 修正
type Corrector struct {
	setting *spec.CorrectionSetting
	log     *slog.Logger
}

// New 建立 Corrector。
//
// setting 為 nil 時使用 spec.DefaultCorrectionSetting()；log 為 nil 時不輸出任何日誌。
// 直接組裝的 setting（未經 GetCorrectionSettingBy*）也會在此檢查。
func New(setting *spec.CorrectionSetting, log *slog.Logger) (*Corrector, error) {
	if setting == nil {
		setting = spec.DefaultCorrectionSetting()
	}
	if setting.BinSize < 1 {
		return nil, errs.InvalidArgumentf("setting %q: bin_size must be >= 1, got %d", setting.Name, setting.BinSize)
	}
	if setting.Anchor.Valid && !setting.Anchor.Finite() {
		return nil, errs.InvalidArgumentf("setting %q: normalize_to must be finite", setting.Name)
	}
	if log == nil {
		log = logger.Silent()
	}
	return &Corrector{
		setting: setting,
		log:     log.With("setting", setting.Name),
	}, nil
}

// Setting 回傳目前使用的設定
func (c *Corrector) Setting() *spec.CorrectionSetting { return c.setting }

// Correct 以設定的 bin 大小與錨定模式修正 test
func (c *Corrector) Correct(reference, test []na.Float) (*bincorr.Result, error) {
	res, err := bincorr.Correct(reference, test, c.setting.BinSize, c.setting.Anchor)
	if err != nil {
		c.log.Error("bin correction failed", "err", err)
		return nil, errs.Wrap(err, "bin correction failed")
	}
	if res.Empty() {
		c.log.Warn("no valid reference/test pairs", "n", len(test))
		return res, nil
	}
	c.log.Debug("bin correction done",
		"n", len(test),
		"valid", res.Valid(),
		"bins", len(res.Bins),
		"bin_size", c.setting.BinSize,
		"mode", c.setting.Mode(),
	)
	return res, nil
}

// CorrectAndDiagnose 修正並產生診斷報告
func (c *Corrector) CorrectAndDiagnose(reference, test []na.Float) (*bincorr.Result, *stats.Report, error) {
	res, err := c.Correct(reference, test)
	if err != nil {
		return nil, nil, err
	}
	rep, err := stats.Diagnose(reference, test, res, c.setting.Anchor)
	if err != nil {
		return nil, nil, errs.Wrap(err, "bias diagnostics failed")
	}
	rep.Summary.Name = c.setting.Name
	if before, ok := rep.Summary.CorrBefore.Get(); ok {
		after, _ := rep.Summary.CorrAfter.Get()
		c.log.Debug("bias diagnostics", "corr_before", before, "corr_after", after)
	}
	return res, rep, nil
}
