package engine

import (
	"fmt"
	"strings"
)

// ── 声明式推荐规则表 ──
//
// 规则按 (学年, 专业) 分组，组内按声明顺序求值；新增专业/学年只需追加数据。

// Condition 规则谓词：已修集合包含 AllOf 全部课程，且不包含 NoneOf 中任何课程
type Condition struct {
	AllOf  []string `json:"all_of,omitempty"`
	NoneOf []string `json:"none_of,omitempty"`
}

// Matches 对已修集合求值
func (c Condition) Matches(done courseSet) bool {
	for _, code := range c.AllOf {
		if !done.has(code) {
			return false
		}
	}
	for _, code := range c.NoneOf {
		if done.has(code) {
			return false
		}
	}
	return true
}

// Action 规则触发后给出的建议
type Action struct {
	Course   string   `json:"course"`
	Reason   string   `json:"reason"`
	Priority Priority `json:"priority"`
	Quarter  Quarter  `json:"quarter"`
}

// Rule 一条推荐规则
type Rule struct {
	Year   Year      `json:"year"`
	Major  string    `json:"major"`
	When   Condition `json:"when"`
	Action Action    `json:"action"`
}

// FreshmanTrack 新生起步课程链，AP 路径按链推算起点
// Sequence 按先修顺序排列，例如 CS31 → CS32 → CS33
type FreshmanTrack struct {
	Name     string   `json:"name"`
	Sequence []string `json:"sequence"`
	Priority Priority `json:"priority"`
	Quarter  Quarter  `json:"quarter"`
}

// AdvisorTemplate 某学年的顾问开场白（有无首门课 AP 学分两种）
type AdvisorTemplate struct {
	Year      Year   `json:"year"`
	WithAP    string `json:"with_ap"`
	WithoutAP string `json:"without_ap"`
}

// RuleTable 不可变的推荐规则表
type RuleTable struct {
	rules     map[ruleKey][]Rule
	tracks    map[string][]FreshmanTrack
	templates map[Year]AdvisorTemplate
	fallback  string

	apSkipReason string
	noAPReason   string
}

type ruleKey struct {
	year  Year
	major string
}

// RuleTableConfig 构建规则表所需数据
//
// APSkipReason/NoAPReason 为 fmt 模板：
//   - APSkipReason: %[1]s 起点课程, %[2]s 被 AP 替代的课程（逗号分隔）, %[3]s 授予学分的考试
//   - NoAPReason:   %[1]s 起点课程, %[2]s 课程链名称
type RuleTableConfig struct {
	Rules           []Rule
	FreshmanTracks  map[string][]FreshmanTrack
	AdvisorMessages []AdvisorTemplate
	FallbackMessage string
	APSkipReason    string
	NoAPReason      string
}

const (
	defaultAPSkipReason = "AP credit (%[3]s) already covers %[2]s, so you can start directly with %[1]s"
	defaultNoAPReason   = "No AP credit applies to the %[2]s sequence; begin with %[1]s"
	defaultFallback     = "Hi! Tell me about your goals and I'll help you plan your next quarter."
)

// NewRuleTable 校验并构建规则表
func NewRuleTable(cfg RuleTableConfig) (*RuleTable, error) {
	t := &RuleTable{
		rules:        make(map[ruleKey][]Rule),
		tracks:       make(map[string][]FreshmanTrack),
		templates:    make(map[Year]AdvisorTemplate),
		fallback:     cfg.FallbackMessage,
		apSkipReason: cfg.APSkipReason,
		noAPReason:   cfg.NoAPReason,
	}
	if t.fallback == "" {
		t.fallback = defaultFallback
	}
	if t.apSkipReason == "" {
		t.apSkipReason = defaultAPSkipReason
	}
	if t.noAPReason == "" {
		t.noAPReason = defaultNoAPReason
	}

	for i, r := range cfg.Rules {
		if !r.Year.Valid() {
			return nil, fmt.Errorf("规则 #%d 学年无效: %q", i, r.Year)
		}
		if majorKey(r.Major) == "" {
			return nil, fmt.Errorf("规则 #%d 缺少专业", i)
		}
		r.Action.Course = NormalizeCode(r.Action.Course)
		if r.Action.Course == "" {
			return nil, fmt.Errorf("规则 #%d 缺少目标课程", i)
		}
		if r.Action.Priority.rank() > 2 {
			return nil, fmt.Errorf("规则 #%d 优先级无效: %q", i, r.Action.Priority)
		}
		if r.Action.Quarter.Index() < 0 {
			return nil, fmt.Errorf("规则 #%d 学季无效: %q", i, r.Action.Quarter)
		}
		r.When.AllOf = NormalizeCodes(r.When.AllOf)
		r.When.NoneOf = NormalizeCodes(r.When.NoneOf)

		key := ruleKey{year: r.Year, major: majorKey(r.Major)}
		t.rules[key] = append(t.rules[key], r)
	}

	for major, tracks := range cfg.FreshmanTracks {
		key := majorKey(major)
		for _, tr := range tracks {
			tr.Sequence = NormalizeCodes(tr.Sequence)
			if len(tr.Sequence) == 0 {
				return nil, fmt.Errorf("专业 %s 的课程链 %q 为空", major, tr.Name)
			}
			if tr.Priority == "" {
				tr.Priority = PriorityHigh
			}
			if tr.Quarter == "" {
				tr.Quarter = Fall
			}
			t.tracks[key] = append(t.tracks[key], tr)
		}
	}

	for _, tpl := range cfg.AdvisorMessages {
		if !tpl.Year.Valid() {
			return nil, fmt.Errorf("顾问模板学年无效: %q", tpl.Year)
		}
		t.templates[tpl.Year] = tpl
	}

	return t, nil
}

// RulesFor 指定 (学年, 专业) 的规则，按声明顺序
func (t *RuleTable) RulesFor(year Year, major string) []Rule {
	return t.rules[ruleKey{year: year, major: majorKey(major)}]
}

// TracksFor 指定专业的新生课程链
func (t *RuleTable) TracksFor(major string) []FreshmanTrack {
	return t.tracks[majorKey(major)]
}

// FirstCourse 专业的首门课程（首条课程链的第一门），用于选择顾问开场白
func (t *RuleTable) FirstCourse(major string) (string, bool) {
	tracks := t.TracksFor(major)
	if len(tracks) == 0 {
		return "", false
	}
	return tracks[0].Sequence[0], true
}

// Size 规则总数
func (t *RuleTable) Size() int {
	n := 0
	for _, rs := range t.rules {
		n += len(rs)
	}
	return n
}

func joinCodes(codes []string) string {
	return strings.Join(codes, ", ")
}
