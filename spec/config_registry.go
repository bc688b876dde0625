package spec

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/fitcorr/errs"
	"gopkg.in/yaml.v3"
)

// GetCorrectionSettingByYAML
// 會讀取 YAML 設定、填入預設值並執行基本檢查後回傳。
func GetCorrectionSettingByYAML(data []byte) (*CorrectionSetting, error) {
	cs := &CorrectionSetting{}
	if err := yaml.Unmarshal(data, cs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := cs.init(); err != nil {
		return nil, errs.Wrap(err, "correction setting initialized err")
	}

	return cs, nil
}

// GetCorrectionSettingByJSON
// 會讀取 Json 設定、填入預設值並執行基本檢查後回傳
func GetCorrectionSettingByJSON(data []byte) (*CorrectionSetting, error) {
	cs := &CorrectionSetting{}
	if err := json.Unmarshal(data, cs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := cs.init(); err != nil {
		return nil, errs.Wrap(err, "correction setting initialized err")
	}

	return cs, nil
}

// GetCorrectionSettingByExt 依副檔名選擇解析器。
//
// 本包不讀檔：呼叫端自行取得 raw（os.ReadFile / fs.ReadFile / go:embed 皆可）。
func GetCorrectionSettingByExt(filename string, raw []byte) (*CorrectionSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return GetCorrectionSettingByYAML(raw)
	case ".json":
		return GetCorrectionSettingByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}
