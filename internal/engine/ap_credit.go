package engine

import (
	"fmt"
	"sort"
	"strings"
)

// APTable AP 考试换算表（只读）
type APTable struct {
	byExam map[string]APConversion
}

// APGrant AP 换算结果
//
// Courses 为集合语义：同一课程被多门考试授予只记一次；
// Credits 按每门达标考试累加，不做去重（课程完成与学分分开统计）。
type APGrant struct {
	Courses []string `json:"granted_courses"`
	Credits int      `json:"total_ap_credits"`
	Exams   []string `json:"qualifying_exams"`
}

// Grants 是否授予了指定课程
func (g APGrant) Grants(code string) bool {
	code = NormalizeCode(code)
	for _, c := range g.Courses {
		if c == code {
			return true
		}
	}
	return false
}

// NewAPTable 构建换算表；每门考试只能有一个分数线
func NewAPTable(conversions []APConversion) (*APTable, error) {
	t := &APTable{byExam: make(map[string]APConversion, len(conversions))}
	for _, conv := range conversions {
		key := examKey(conv.ExamName)
		if key == "" {
			return nil, fmt.Errorf("AP 考试名称不能为空")
		}
		if _, dup := t.byExam[key]; dup {
			return nil, fmt.Errorf("AP 考试重复: %s", conv.ExamName)
		}
		if conv.Credits < 0 {
			return nil, fmt.Errorf("AP 考试 %s 学分不能为负", conv.ExamName)
		}
		conv.EquivalentCourses = NormalizeCodes(conv.EquivalentCourses)
		t.byExam[key] = conv
	}
	return t, nil
}

// Lookup 查询考试换算规则
func (t *APTable) Lookup(examName string) (APConversion, bool) {
	if t == nil {
		return APConversion{}, false
	}
	conv, ok := t.byExam[examKey(examName)]
	return conv, ok
}

// Conversions 全部换算规则（按考试名排序）
func (t *APTable) Conversions() []APConversion {
	out := make([]APConversion, 0, len(t.byExam))
	for _, conv := range t.byExam {
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExamName < out[j].ExamName })
	return out
}

// Resolve 将 AP 成绩换算为等价课程与学分
//
// 未知考试名跳过；同一考试出现多次时取最高分、只计一次。
// 结果与输入顺序无关。
func (t *APTable) Resolve(scores []APScore) APGrant {
	best := make(map[string]int, len(scores))
	for _, s := range scores {
		key := examKey(s.ExamName)
		if _, ok := t.Lookup(key); !ok {
			continue
		}
		if cur, seen := best[key]; !seen || s.Score > cur {
			best[key] = s.Score
		}
	}

	granted := make(courseSet)
	grant := APGrant{Courses: []string{}, Exams: []string{}}
	for key, score := range best {
		conv := t.byExam[key]
		if score < conv.MinScore {
			continue
		}
		for _, code := range conv.EquivalentCourses {
			granted.add(code)
		}
		grant.Credits += conv.Credits
		grant.Exams = append(grant.Exams, conv.ExamName)
	}

	grant.Courses = granted.sorted()
	sort.Strings(grant.Exams)
	return grant
}

// EnrichCompleted 将 AP 授予的课程并入已修课程集合（去重，结果排序）
func EnrichCompleted(completed []string, grant APGrant) []string {
	return newCourseSet(completed, grant.Courses).sorted()
}

func examKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
