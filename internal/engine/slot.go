package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Day 星期标记：M T W R F S U
type Day string

const (
	Monday    Day = "M"
	Tuesday   Day = "T"
	Wednesday Day = "W"
	Thursday  Day = "R"
	Friday    Day = "F"
	Saturday  Day = "S"
	Sunday    Day = "U"
)

// Weekdays 周一至周五
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayAliases = map[string]Day{
	"m": Monday, "mon": Monday, "monday": Monday,
	"t": Tuesday, "tu": Tuesday, "tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday,
	"w": Wednesday, "wed": Wednesday, "wednesday": Wednesday,
	"r": Thursday, "th": Thursday, "thu": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday,
	"f": Friday, "fri": Friday, "friday": Friday,
	"s": Saturday, "sa": Saturday, "sat": Saturday, "saturday": Saturday,
	"u": Sunday, "su": Sunday, "sun": Sunday, "sunday": Sunday,
}

// ParseDay 解析星期标记，支持 "M" / "Mon" / "Monday" 等写法
func ParseDay(s string) (Day, error) {
	if d, ok := dayAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("未知星期: %q", s)
}

// ParseClock 将 "HH:MM" 解析为一天中的分钟数
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("时间格式无效 %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("时间超出范围: %q", s)
	}
	return h*60 + m, nil
}

// FormatClock 分钟数 → "HH:MM"
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// meetsOn 课程是否在该日上课
func meetsOn(c Course, day Day) bool {
	for _, d := range c.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Occupies 课程是否占用 (day, minute) 单元格：day ∈ days 且 start ≤ minute < end
func Occupies(c Course, day Day, minute int) bool {
	return meetsOn(c, day) && c.StartTime <= minute && minute < c.EndTime
}

// CoursesAt 返回占用 (day, minute) 的课程，保持输入顺序
// 检测器本身不拒绝重叠，只负责报告
func CoursesAt(courses []Course, day Day, minute int) []Course {
	out := []Course{}
	for _, c := range courses {
		if Occupies(c, day, minute) {
			out = append(out, c)
		}
	}
	return out
}

// SlotSpan 课程在网格中占据的连续单元格数：ceil((end-start)/slotMinutes)
func SlotSpan(startTime, endTime, slotMinutes int) int {
	if slotMinutes <= 0 || endTime <= startTime {
		return 0
	}
	return (endTime - startTime + slotMinutes - 1) / slotMinutes
}

// ── 周网格 ──

// GridCell 网格单元格
type GridCell struct {
	Day      Day      `json:"day"`
	Courses  []string `json:"courses"`
	Conflict bool     `json:"conflict"`
}

// GridRow 网格中的一行（一个时间段）
type GridRow struct {
	Time  string     `json:"time"`
	Cells []GridCell `json:"cells"`
}

// Grid 周课表网格
type Grid struct {
	Days        []Day     `json:"days"`
	SlotMinutes int       `json:"slot_minutes"`
	Rows        []GridRow `json:"rows"`
}

// BuildGrid 以 slotMinutes 为步长，在 [dayStart, dayEnd) 范围内为每个 day 生成单元格
// 单元格内课程多于一门时标记为冲突
func BuildGrid(courses []Course, days []Day, dayStart, dayEnd, slotMinutes int) Grid {
	g := Grid{Days: days, SlotMinutes: slotMinutes, Rows: []GridRow{}}
	if slotMinutes <= 0 {
		return g
	}
	for t := dayStart; t < dayEnd; t += slotMinutes {
		row := GridRow{Time: FormatClock(t), Cells: make([]GridCell, 0, len(days))}
		for _, d := range days {
			cell := GridCell{Day: d, Courses: []string{}}
			for _, c := range CoursesAt(courses, d, t) {
				cell.Courses = append(cell.Courses, c.Code)
			}
			cell.Conflict = len(cell.Courses) > 1
			row.Cells = append(row.Cells, cell)
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// Conflict 两门课程的时间冲突
type Conflict struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Days   []Day  `json:"days"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// FindConflicts 两两比较：同一天上课且时间区间相交即为冲突
// 无上课时间的课程不参与比较；结果按输入顺序成对给出
func FindConflicts(courses []Course) []Conflict {
	out := []Conflict{}
	for i := 0; i < len(courses); i++ {
		a := courses[i]
		if !a.HasSchedule() {
			continue
		}
		for j := i + 1; j < len(courses); j++ {
			b := courses[j]
			if !b.HasSchedule() {
				continue
			}
			if a.StartTime >= b.EndTime || b.StartTime >= a.EndTime {
				continue
			}
			var shared []Day
			for _, d := range a.Days {
				if meetsOn(b, d) {
					shared = append(shared, d)
				}
			}
			if len(shared) == 0 {
				continue
			}
			out = append(out, Conflict{
				First:  a.Code,
				Second: b.Code,
				Days:   shared,
				Start:  FormatClock(max(a.StartTime, b.StartTime)),
				End:    FormatClock(min(a.EndTime, b.EndTime)),
			})
		}
	}
	return out
}

// SortDays 按周一到周日排序并去重
func SortDays(days []Day) []Day {
	order := map[Day]int{Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6}
	seen := make(map[Day]bool, len(days))
	out := make([]Day, 0, len(days))
	for _, d := range days {
		if _, known := order[d]; !known || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}
