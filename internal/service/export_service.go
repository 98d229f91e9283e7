package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"study-strata/internal/engine"
)

// ErrExportGenerateFail 生成导出文件失败
var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

var dayNames = map[engine.Day]string{
	engine.Monday:    "周一",
	engine.Tuesday:   "周二",
	engine.Wednesday: "周三",
	engine.Thursday:  "周四",
	engine.Friday:    "周五",
	engine.Saturday:  "周六",
	engine.Sunday:    "周日",
}

// ═══════════════════════════════════════════════════════════
// buildGridWorkbook 周课表网格导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// Sheet "周课表"：
//   - 第 1 行标题，第 2 行表头：时间 | 周一 … 周五
//   - 单元格：该时段的课程代码，多门课程以 " / " 分隔并标红
//
// Sheet "课程"：代码 | 名称 | 学分 | 星期 | 时间
// Sheet "冲突"（仅有冲突时）：课程 A | 课程 B | 星期 | 重叠时间

func buildGridWorkbook(grid engine.Grid, courses []engine.Course, conflicts []engine.Conflict, logger *zap.Logger) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	courseStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	conflictStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#9C0006"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 10)
	for i := range grid.Days {
		col := colName(1 + i)
		f.SetColWidth(sheetName, col, col, 18)
	}

	// 标题行
	lastCol := colName(len(grid.Days))
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("周课表（每格 %d 分钟）", grid.SlotMinutes))
	if len(grid.Days) > 0 {
		f.MergeCell(sheetName, "A1", lastCol+"1")
	}
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellValue(sheetName, cell("A", 2), "时间")
	for i, d := range grid.Days {
		name := dayNames[d]
		if name == "" {
			name = string(d)
		}
		f.SetCellValue(sheetName, cell(colName(1+i), 2), name)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	for _, r := range grid.Rows {
		f.SetCellValue(sheetName, cell("A", row), r.Time)
		for i, c := range r.Cells {
			if len(c.Courses) == 0 {
				continue
			}
			ref := cell(colName(1+i), row)
			f.SetCellValue(sheetName, ref, strings.Join(c.Courses, " / "))
			if c.Conflict {
				f.SetCellStyle(sheetName, ref, ref, conflictStyle)
			} else {
				f.SetCellStyle(sheetName, ref, ref, courseStyle)
			}
		}
		row++
	}

	// 课程清单
	listSheet := "课程"
	f.NewSheet(listSheet)
	f.SetColWidth(listSheet, "B", "B", 36)
	for i, h := range []string{"代码", "名称", "学分", "星期", "时间"} {
		f.SetCellValue(listSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(listSheet, "A1", "E1", headerStyle)
	for i, c := range courses {
		r := i + 2
		days := make([]string, 0, len(c.Days))
		for _, d := range c.Days {
			days = append(days, string(d))
		}
		f.SetCellValue(listSheet, cell("A", r), c.Code)
		f.SetCellValue(listSheet, cell("B", r), c.Name)
		f.SetCellValue(listSheet, cell("C", r), c.Credits)
		f.SetCellValue(listSheet, cell("D", r), strings.Join(days, ""))
		if c.HasSchedule() {
			f.SetCellValue(listSheet, cell("E", r),
				engine.FormatClock(c.StartTime)+"-"+engine.FormatClock(c.EndTime))
		}
	}

	// 冲突清单
	if len(conflicts) > 0 {
		conflictSheet := "冲突"
		f.NewSheet(conflictSheet)
		for i, h := range []string{"课程 A", "课程 B", "星期", "重叠时间"} {
			f.SetCellValue(conflictSheet, cell(colName(i), 1), h)
		}
		f.SetCellStyle(conflictSheet, "A1", "D1", headerStyle)
		for i, c := range conflicts {
			r := i + 2
			days := make([]string, 0, len(c.Days))
			for _, d := range c.Days {
				days = append(days, string(d))
			}
			f.SetCellValue(conflictSheet, cell("A", r), c.First)
			f.SetCellValue(conflictSheet, cell("B", r), c.Second)
			f.SetCellValue(conflictSheet, cell("C", r), strings.Join(days, ""))
			f.SetCellValue(conflictSheet, cell("D", r), c.Start+"-"+c.End)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
