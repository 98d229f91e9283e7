// Package seed 读取课程目录、专业要求、AP 换算表与推荐规则的 YAML 数据，
// 并构建引擎所需的只读对象。
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"study-strata/internal/engine"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CourseDef 课程定义；时间为 "HH:MM"
type CourseDef struct {
	Code          string   `yaml:"code"`
	Name          string   `yaml:"name"`
	Credits       int      `yaml:"credits"`
	Type          string   `yaml:"type"`
	Difficulty    string   `yaml:"difficulty"`
	Days          []string `yaml:"days"`
	Start         string   `yaml:"start"`
	End           string   `yaml:"end"`
	Prerequisites []string `yaml:"prerequisites"`
	Offered       []string `yaml:"offered"`
}

// CategoryDef 要求类别定义
type CategoryDef struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	MinCredits      int      `yaml:"min_credits"`
	RequiredCourses []string `yaml:"required_courses"`
	ElectivePool    []string `yaml:"elective_pool"`
	MinElectives    int      `yaml:"min_electives"`
}

// ProgramDef 专业定义
type ProgramDef struct {
	Major        string        `yaml:"major"`
	TotalCredits int           `yaml:"total_credits"`
	Categories   []CategoryDef `yaml:"categories"`
}

// APDef AP 换算定义
type APDef struct {
	Exam     string   `yaml:"exam"`
	MinScore int      `yaml:"min_score"`
	Courses  []string `yaml:"courses"`
	Credits  int      `yaml:"credits"`
}

// ConditionDef 规则触发条件
type ConditionDef struct {
	AllOf  []string `yaml:"all_of"`
	NoneOf []string `yaml:"none_of"`
}

// RuleDef 推荐规则定义
type RuleDef struct {
	Year     string       `yaml:"year"`
	Major    string       `yaml:"major"`
	When     ConditionDef `yaml:"when"`
	Course   string       `yaml:"course"`
	Reason   string       `yaml:"reason"`
	Priority string       `yaml:"priority"`
	Quarter  string       `yaml:"quarter"`
}

// TrackDef 新生课程链定义
type TrackDef struct {
	Name     string   `yaml:"name"`
	Sequence []string `yaml:"sequence"`
	Priority string   `yaml:"priority"`
	Quarter  string   `yaml:"quarter"`
}

// MessageDef 某学年的顾问开场白
type MessageDef struct {
	Year      string `yaml:"year"`
	WithAP    string `yaml:"with_ap"`
	WithoutAP string `yaml:"without_ap"`
}

// AdvisorDef 顾问开场白与 AP 路径理由模板
type AdvisorDef struct {
	Fallback     string       `yaml:"fallback"`
	APSkipReason string       `yaml:"ap_skip_reason"`
	NoAPReason   string       `yaml:"no_ap_reason"`
	Messages     []MessageDef `yaml:"messages"`
}

// Data 种子文件内容
type Data struct {
	Courses        []CourseDef           `yaml:"courses"`
	Programs       []ProgramDef          `yaml:"programs"`
	APConversions  []APDef               `yaml:"ap_conversions"`
	FreshmanTracks map[string][]TrackDef `yaml:"freshman_tracks"`
	Rules          []RuleDef             `yaml:"rules"`
	Advisor        AdvisorDef            `yaml:"advisor"`
}

// Load 解析 YAML 种子数据
func Load(r io.Reader) (*Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("解析种子数据失败: %w", err)
	}
	return &d, nil
}

// Default 内置种子数据
func Default() (*Data, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Build 构建课程目录、AP 换算表与规则表
func (d *Data) Build() (*engine.Catalog, *engine.APTable, *engine.RuleTable, error) {
	courses, err := d.EngineCourses()
	if err != nil {
		return nil, nil, nil, err
	}
	catalog, err := engine.NewCatalog(courses, d.EnginePrograms())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("构建课程目录失败: %w", err)
	}
	ap, err := engine.NewAPTable(d.EngineAPConversions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("构建 AP 换算表失败: %w", err)
	}
	rules, err := d.RuleTable()
	if err != nil {
		return nil, nil, nil, err
	}
	return catalog, ap, rules, nil
}

// EngineCourses 转换为引擎课程
func (d *Data) EngineCourses() ([]engine.Course, error) {
	return convertCourses(d.Courses)
}

// convertCourses 转换课程定义
func convertCourses(defs []CourseDef) ([]engine.Course, error) {
	out := make([]engine.Course, 0, len(defs))
	for _, def := range defs {
		c := engine.Course{
			Code:          def.Code,
			Name:          def.Name,
			Credits:       def.Credits,
			Type:          engine.CourseType(def.Type),
			Difficulty:    engine.Difficulty(def.Difficulty),
			Prerequisites: def.Prerequisites,
		}
		for _, raw := range def.Days {
			day, err := engine.ParseDay(raw)
			if err != nil {
				return nil, fmt.Errorf("课程 %s: %w", def.Code, err)
			}
			c.Days = append(c.Days, day)
		}
		if len(c.Days) > 0 {
			var err error
			if c.StartTime, err = engine.ParseClock(def.Start); err != nil {
				return nil, fmt.Errorf("课程 %s 开始时间: %w", def.Code, err)
			}
			if c.EndTime, err = engine.ParseClock(def.End); err != nil {
				return nil, fmt.Errorf("课程 %s 结束时间: %w", def.Code, err)
			}
		}
		for _, raw := range def.Offered {
			q, err := engine.ParseQuarter(raw)
			if err != nil {
				return nil, fmt.Errorf("课程 %s: %w", def.Code, err)
			}
			c.Offered = append(c.Offered, q)
		}
		out = append(out, c)
	}
	return out, nil
}

// EnginePrograms 转换为引擎专业要求
func (d *Data) EnginePrograms() []engine.DegreeRequirements {
	out := make([]engine.DegreeRequirements, 0, len(d.Programs))
	for _, p := range d.Programs {
		req := engine.DegreeRequirements{Major: p.Major, TotalCredits: p.TotalCredits}
		for _, c := range p.Categories {
			req.Categories = append(req.Categories, engine.RequirementCategory{
				Name:            c.Name,
				Description:     c.Description,
				MinCredits:      c.MinCredits,
				RequiredCourses: c.RequiredCourses,
				ElectivePool:    c.ElectivePool,
				MinElectives:    c.MinElectives,
			})
		}
		out = append(out, req)
	}
	return out
}

// EngineAPConversions 转换为引擎 AP 换算规则
func (d *Data) EngineAPConversions() []engine.APConversion {
	out := make([]engine.APConversion, 0, len(d.APConversions))
	for _, a := range d.APConversions {
		out = append(out, engine.APConversion{
			ExamName:          a.Exam,
			MinScore:          a.MinScore,
			EquivalentCourses: a.Courses,
			Credits:           a.Credits,
		})
	}
	return out
}

// RuleTable 构建推荐规则表
func (d *Data) RuleTable() (*engine.RuleTable, error) {
	cfg := engine.RuleTableConfig{
		FreshmanTracks:  make(map[string][]engine.FreshmanTrack, len(d.FreshmanTracks)),
		FallbackMessage: d.Advisor.Fallback,
		APSkipReason:    d.Advisor.APSkipReason,
		NoAPReason:      d.Advisor.NoAPReason,
	}
	for _, r := range d.Rules {
		cfg.Rules = append(cfg.Rules, engine.Rule{
			Year:  engine.Year(r.Year),
			Major: r.Major,
			When:  engine.Condition{AllOf: r.When.AllOf, NoneOf: r.When.NoneOf},
			Action: engine.Action{
				Course:   r.Course,
				Reason:   r.Reason,
				Priority: engine.Priority(r.Priority),
				Quarter:  engine.Quarter(r.Quarter),
			},
		})
	}
	for major, tracks := range d.FreshmanTracks {
		for _, t := range tracks {
			cfg.FreshmanTracks[major] = append(cfg.FreshmanTracks[major], engine.FreshmanTrack{
				Name:     t.Name,
				Sequence: t.Sequence,
				Priority: engine.Priority(t.Priority),
				Quarter:  engine.Quarter(t.Quarter),
			})
		}
	}
	for _, m := range d.Advisor.Messages {
		cfg.AdvisorMessages = append(cfg.AdvisorMessages, engine.AdvisorTemplate{
			Year:      engine.Year(m.Year),
			WithAP:    m.WithAP,
			WithoutAP: m.WithoutAP,
		})
	}

	rules, err := engine.NewRuleTable(cfg)
	if err != nil {
		return nil, fmt.Errorf("构建推荐规则表失败: %w", err)
	}
	return rules, nil
}
