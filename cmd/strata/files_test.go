package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeTemp(t, "profile.yaml", `
year: freshman
major: Computer Science
completed_courses: [CS31]
ap_scores:
  - {exam: AP Calculus BC, score: 5}
grades:
  - {course: CS31, grade: A-}
`)
	p, err := loadProfile(path)
	if err != nil {
		t.Fatalf("loadProfile 失败: %v", err)
	}

	req := p.progressRequest()
	if req.Major != "Computer Science" || len(req.Grades) != 1 || req.Grades[0].Grade != "A-" {
		t.Errorf("进度请求转换错误: %+v", req)
	}
	profile := p.studentProfile()
	if profile.Year != "freshman" || len(profile.APScores) != 1 || profile.APScores[0].Score != 5 {
		t.Errorf("学生档案转换错误: %+v", profile)
	}
}

func TestLoadProfile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"缺少专业", "year: junior\n"},
		{"未知字段", "major: Computer Science\ngpa: 3.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadProfile(writeTemp(t, "p.yaml", tt.content)); err == nil {
				t.Error("期望返回错误")
			}
		})
	}

	if _, err := loadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("文件不存在时期望返回错误")
	}
}

func TestLoadSchedule(t *testing.T) {
	path := writeTemp(t, "schedule.yaml", `
courses:
  - {code: CS31}
  - {code: CLUB1, name: Chess Club, days: [T], start: "18:00", end: "19:00"}
`)
	courses, err := loadSchedule(path)
	if err != nil {
		t.Fatalf("loadSchedule 失败: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("期望 2 门课程, 实际 %d", len(courses))
	}
	if len(courses[0].Days) != 0 {
		t.Errorf("只写 code 的课程不应带星期: %+v", courses[0])
	}
	if courses[1].StartTime != "18:00" || courses[1].EndTime != "19:00" || courses[1].Days[0] != "T" {
		t.Errorf("自定义课程转换错误: %+v", courses[1])
	}
}
