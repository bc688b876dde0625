package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var lang language.Tag = language.English

// ReportRender 定義輸出行為
type ReportRender interface {
	Write(w io.Writer, r *Report) error
}

// Json渲染
type JsonReportRender struct{}

func (jr *JsonReportRender) Write(w io.Writer, r *Report) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLReportRender struct{}

func (yr *YAMLReportRender) Write(w io.Writer, r *Report) error {
	return forceReadableList(w, r)
}

// 文字表格渲染：摘要 + 每個 bin 一列
type TableReportRender struct{}

func (tr *TableReportRender) Write(w io.Writer, r *Report) error {
	sk, sm := r.fmtSummary()
	if _, err := io.WriteString(w, fmtTable(r.Summary.Name, sk, sm)); err != nil {
		return err
	}
	if len(r.Bins) == 0 {
		return nil
	}
	_, err := io.WriteString(w, fmtGrid(r.binHeader(), r.binRows()))
	return err
}

func (r *Report) WriteWith(w io.Writer, rep ReportRender) error {
	return rep.Write(w, r)
}

func (r *Report) StdOut() {
	_ = r.WriteWith(os.Stdout, &TableReportRender{})
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (r *Report) fmtSummary() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	basic := map[string]string{
		"Mode":           s.Mode,
		"Entries":        p.Sprintf("%d", s.N),
		"Valid Pairs":    p.Sprintf("%d", s.Valid),
		"Bins":           p.Sprintf("%d", s.Bins),
		"Corr Before":    s.CorrBefore.String(),
		"Corr After":     s.CorrAfter.String(),
		"Offset Mean":    p.Sprintf("%.4f", s.OffsetMean),
		"Offset Std":     p.Sprintf("%.4f", s.OffsetStd),
		"Max Abs Offset": p.Sprintf("%.4f", s.MaxAbsOffset),
	}
	if v, ok := s.CorrBefore.Get(); ok {
		basic["Corr Before"] = p.Sprintf("%.4f", v)
	}
	if v, ok := s.CorrAfter.Get(); ok {
		basic["Corr After"] = p.Sprintf("%.4f", v)
	}
	keys := []string{"Mode", "Entries", "Valid Pairs", "Bins", "Corr Before", "Corr After", "Offset Mean", "Offset Std", "Max Abs Offset"}
	return keys, basic
}

func (r *Report) binHeader() []string {
	return []string{"Bin", "Ref Median", "Test Median", "Diff Median", "Count", "Diff MAD"}
}

func (r *Report) binRows() [][]string {
	p := message.NewPrinter(lang)
	rows := make([][]string, len(r.Bins))
	for i, b := range r.Bins {
		rows[i] = []string{
			p.Sprintf("%d", i+1),
			p.Sprintf("%.4f", b.RefMedian),
			p.Sprintf("%.4f", b.TestMedian),
			p.Sprintf("%.4f", b.DiffMedian),
			p.Sprintf("%d", b.Count),
			p.Sprintf("%.4f", b.DiffMAD),
		}
	}
	return rows
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(fmt.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

// fmtGrid 多欄表格；數值欄靠右
func fmtGrid(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	var divider strings.Builder
	divider.WriteString("+")
	for _, w := range widths {
		divider.WriteString(strings.Repeat("-", w+2) + "+")
	}
	divider.WriteString("\n")

	line := func(cells []string) string {
		var sb strings.Builder
		sb.WriteString("|")
		for i, c := range cells {
			sb.WriteString(" " + blank(widths[i]-runewidth.StringWidth(c)) + c + " |")
		}
		sb.WriteString("\n")
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(divider.String())
	sb.WriteString(line(header))
	sb.WriteString(divider.String())
	for _, row := range rows {
		sb.WriteString(line(row))
	}
	sb.WriteString(divider.String())
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 最內層的一維 sequence 用 flow style: [...]；外層維度保持 block
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChildSeq = true
				break
			}
		}

		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
