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

// Package na 提供可缺值的浮點數型別 Float。
//
// 缺值以 Valid=false 表示，而不是以 NaN 之類的魔術數字表示；
// 對於以 NaN 代表缺值的既有陣列，可用 FromFloats 轉換。
package na

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zintix-labs/fitcorr/errs"
	"gopkg.in/yaml.v3"
)

// Float 可缺值的 float64
type Float struct {
	Value float64
	Valid bool
}

// Of 回傳一個有值的 Float
func Of(v float64) Float { return Float{Value: v, Valid: true} }

// Missing 回傳缺值
func Missing() Float { return Float{} }

// Get 回傳 (值, 是否有值)
func (f Float) Get() (float64, bool) { return f.Value, f.Valid }

func (f Float) IsMissing() bool { return !f.Valid }

// Finite 回報是否為有值且有限（非 NaN / ±Inf）
func (f Float) Finite() bool {
	return f.Valid && !math.IsNaN(f.Value) && !math.IsInf(f.Value, 0)
}

func (f Float) String() string {
	if !f.Valid {
		return "NA"
	}
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

// FromFloats 把以 NaN 表示缺值的陣列轉成 []Float
func FromFloats(xs []float64) []Float {
	out := make([]Float, len(xs))
	for i, v := range xs {
		if !math.IsNaN(v) {
			out[i] = Of(v)
		}
	}
	return out
}

// Values 回傳 NaN 表示缺值的 []float64 視圖
func Values(fs []Float) []float64 {
	out := make([]float64, len(fs))
	for i, f := range fs {
		if f.Valid {
			out[i] = f.Value
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Parse 解析單一欄位文字。
//
// "NA"、""、"NaN"（不分大小寫、可含前後空白）視為缺值；
// 其他無法解析為有限數字的文字回傳 CodeInvalidArgument。
func Parse(s string) (Float, error) {
	t := strings.TrimSpace(s)
	switch strings.ToLower(t) {
	case "", "na", "nan":
		return Missing(), nil
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(v, 0) {
		return Missing(), errs.InvalidArgumentf("non-numeric value %q", s)
	}
	return Of(v), nil
}

// ParseAll 逐一解析，錯誤訊息會帶出出錯的位置
func ParseAll(ss []string) ([]Float, error) {
	out := make([]Float, len(ss))
	for i, s := range ss {
		f, err := Parse(s)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Sprintf("position %d", i))
		}
		out[i] = f
	}
	return out, nil
}

// ============================================================
// ** 序列化 **
// ============================================================

var jsonNull = []byte("null")

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		*f = Missing()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return errs.Wrap(err, "na: can not unmarshal json value")
	}
	*f = Of(v)
	return nil
}

func (f Float) MarshalYAML() (any, error) {
	if !f.Valid {
		return nil, nil
	}
	return f.Value, nil
}

func (f *Float) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && (n.ShortTag() == "!!null" || strings.EqualFold(n.Value, "na")) {
		*f = Missing()
		return nil
	}
	var v float64
	if err := n.Decode(&v); err != nil {
		return errs.Wrap(err, "na: can not unmarshal yaml value")
	}
	// .nan 與 Parse("NaN")、FromFloats 一致視為缺值
	if math.IsNaN(v) {
		*f = Missing()
		return nil
	}
	*f = Of(v)
	return nil
}
