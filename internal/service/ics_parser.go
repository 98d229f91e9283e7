package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"study-strata/internal/engine"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将 iCalendar (RFC 5545) 课表解析为带每周时间的课程。
//
//   - SUMMARY 形如 "CS 31 - Introduction to Computer Science I"，" - " 或 ":" 之前为课程代码
//   - DTSTART/DTEND 确定上课时间；RRULE 的 BYDAY 确定上课星期，缺省取 DTSTART 的星期
//   - 同一课程同一时间的多个事件合并为一门课（如每天一个单次事件）
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize     = 5 * 1024 * 1024 // 5MB
	icsDefaultTimezone = "America/Los_Angeles"
	icsProductID       = "-//study-strata//weekly schedule//EN"
)

// parsedCourseEvent ICS 解析中间结构
type parsedCourseEvent struct {
	Code  string
	Name  string
	Days  []engine.Day
	Start int
	End   int
}

var icsWeekdays = map[string]engine.Day{
	"MO": engine.Monday, "TU": engine.Tuesday, "WE": engine.Wednesday,
	"TH": engine.Thursday, "FR": engine.Friday, "SA": engine.Saturday, "SU": engine.Sunday,
}

var weekOrder = []engine.Day{
	engine.Monday, engine.Tuesday, engine.Wednesday, engine.Thursday, engine.Friday, engine.Saturday, engine.Sunday,
}

var dayToICS = map[engine.Day]string{
	engine.Monday: "MO", engine.Tuesday: "TU", engine.Wednesday: "WE",
	engine.Thursday: "TH", engine.Friday: "FR", engine.Saturday: "SA", engine.Sunday: "SU",
}

// icsLocation 课表默认时区
func icsLocation() *time.Location {
	loc, err := time.LoadLocation(icsDefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseICS 解析 ICS 内容为课程列表（仅含代码、名称与每周时间）
func ParseICS(reader io.Reader, loc *time.Location) ([]engine.Course, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	// 阶段 1: 解析所有 VEVENT
	var events []parsedCourseEvent
	for _, comp := range cal.Events() {
		evt, ok := parseVEvent(comp, loc)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	// 阶段 2: 合并同课程同时间的上课星期
	merged := mergeEvents(events)

	// 阶段 3: 转为 engine.Course
	result := make([]engine.Course, 0, len(merged))
	for _, evt := range merged {
		result = append(result, engine.Course{
			Code:      evt.Code,
			Name:      evt.Name,
			Days:      engine.SortDays(evt.Days),
			StartTime: evt.Start,
			EndTime:   evt.End,
		})
	}
	return result, nil
}

// parseVEvent 解析单个 VEVENT 组件
func parseVEvent(evt *ics.VEvent, loc *time.Location) (parsedCourseEvent, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return parsedCourseEvent{}, false
	}
	code, name := splitSummary(summary.Value)
	if code == "" {
		return parsedCourseEvent{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return parsedCourseEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		dur := evt.GetProperty(ics.ComponentPropertyDuration)
		if dur == nil {
			return parsedCourseEvent{}, false
		}
		d, ok := parseICSDuration(dur.Value)
		if !ok {
			return parsedCourseEvent{}, false
		}
		dtEnd = dtStart.Add(d)
	}

	start := dtStart.Hour()*60 + dtStart.Minute()
	end := dtEnd.Hour()*60 + dtEnd.Minute()
	if end <= start {
		return parsedCourseEvent{}, false
	}

	days := []engine.Day{goWeekdayToDay(dtStart.Weekday())}
	if rrule := evt.GetProperty(ics.ComponentPropertyRrule); rrule != nil {
		if byDay := parseByDay(rrule.Value); len(byDay) > 0 {
			days = byDay
		}
	}

	return parsedCourseEvent{Code: code, Name: name, Days: days, Start: start, End: end}, true
}

// splitSummary "CS 31 - Intro" → ("CS31", "Intro")
func splitSummary(summary string) (string, string) {
	summary = strings.TrimSpace(summary)
	for _, sep := range []string{" - ", ":"} {
		if i := strings.Index(summary, sep); i > 0 {
			return engine.NormalizeCode(summary[:i]), strings.TrimSpace(summary[i+len(sep):])
		}
	}
	return engine.NormalizeCode(summary), ""
}

// parseByDay 提取 RRULE 中的 BYDAY（如 FREQ=WEEKLY;BYDAY=MO,WE,FR）
func parseByDay(value string) []engine.Day {
	var days []engine.Day
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || !strings.EqualFold(kv[0], "BYDAY") {
			continue
		}
		for _, tok := range strings.Split(kv[1], ",") {
			tok = strings.ToUpper(strings.TrimSpace(tok))
			// 去掉 "1MO" / "-1FR" 之类的序号前缀
			if len(tok) > 2 {
				tok = tok[len(tok)-2:]
			}
			if d, ok := icsWeekdays[tok]; ok {
				days = append(days, d)
			}
		}
	}
	return days
}

// parseICSDuration 只处理课表常见的 PT#H#M 形式
func parseICSDuration(value string) (time.Duration, bool) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if !strings.HasPrefix(v, "PT") {
		return 0, false
	}
	d, err := time.ParseDuration(strings.ToLower(strings.TrimPrefix(v, "PT")))
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// mergeEvents 合并相同课程事件的上课星期
func mergeEvents(events []parsedCourseEvent) []parsedCourseEvent {
	type key struct {
		Code  string
		Start int
		End   int
	}
	merged := make(map[key]*parsedCourseEvent)
	order := []key{}

	for _, e := range events {
		k := key{Code: e.Code, Start: e.Start, End: e.End}
		if existing, ok := merged[k]; ok {
			seen := make(map[engine.Day]bool, len(existing.Days))
			for _, d := range existing.Days {
				seen[d] = true
			}
			for _, d := range e.Days {
				if !seen[d] {
					existing.Days = append(existing.Days, d)
				}
			}
			if existing.Name == "" {
				existing.Name = e.Name
			}
		} else {
			cp := e
			merged[k] = &cp
			order = append(order, k)
		}
	}

	result := make([]parsedCourseEvent, 0, len(merged))
	for _, k := range order {
		result = append(result, *merged[k])
	}
	return result
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	layouts := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

func goWeekdayToDay(wd time.Weekday) engine.Day {
	switch wd {
	case time.Monday:
		return engine.Monday
	case time.Tuesday:
		return engine.Tuesday
	case time.Wednesday:
		return engine.Wednesday
	case time.Thursday:
		return engine.Thursday
	case time.Friday:
		return engine.Friday
	case time.Saturday:
		return engine.Saturday
	default:
		return engine.Sunday
	}
}

// ════════════════════════════════════════════════════════════
// BuildICS 周课表导出为 ICS
// ════════════════════════════════════════════════════════════
//
// 每门有上课时间的课程生成一个每周重复事件：
// DTSTART 为 weekOf 所在周（周一起）内第一次上课，COUNT = weeks × 每周上课次数。

// BuildICS 生成 ICS 文本
func BuildICS(courses []engine.Course, weekOf time.Time, weeks int, loc *time.Location) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	monday := weekMonday(weekOf.In(loc))
	now := time.Now().UTC()

	for _, c := range courses {
		if !c.HasSchedule() {
			continue
		}
		days := engine.SortDays(c.Days)
		first := monday.AddDate(0, 0, dayOffset(days[0]))
		start := first.Add(time.Duration(c.StartTime) * time.Minute)
		end := first.Add(time.Duration(c.EndTime) * time.Minute)

		byDay := make([]string, 0, len(days))
		for _, d := range days {
			byDay = append(byDay, dayToICS[d])
		}

		event := cal.AddEvent(uuid.NewString() + "@study-strata")
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		if c.Name != "" {
			event.SetSummary(c.Code + " - " + c.Name)
		} else {
			event.SetSummary(c.Code)
		}
		if c.Credits > 0 {
			event.SetDescription(strconv.Itoa(c.Credits) + " credits")
		}
		event.AddRrule("FREQ=WEEKLY;BYDAY=" + strings.Join(byDay, ",") +
			";COUNT=" + strconv.Itoa(weeks*len(days)))
	}
	return cal.Serialize()
}

// weekMonday 所在周周一 00:00
func weekMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// dayOffset 相对周一的天数
func dayOffset(d engine.Day) int {
	for i, v := range weekOrder {
		if v == d {
			return i
		}
	}
	return 0
}
