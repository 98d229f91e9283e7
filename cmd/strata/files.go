package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"study-strata/internal/dto"
	"study-strata/internal/seed"
)

// profileFile 学生档案文件
//
//	year: freshman
//	major: Computer Science
//	completed_courses: [CS31]
//	ap_scores:
//	  - {exam: AP Calculus BC, score: 5}
//	grades:
//	  - {course: CS31, grade: A-}
type profileFile struct {
	Year             string      `yaml:"year"`
	Major            string      `yaml:"major"`
	CompletedCourses []string    `yaml:"completed_courses"`
	APScores         []apLine    `yaml:"ap_scores"`
	Grades           []gradeLine `yaml:"grades"`
	CurrentGPA       *float64    `yaml:"current_gpa"`
}

type apLine struct {
	Exam  string `yaml:"exam"`
	Score int    `yaml:"score"`
}

type gradeLine struct {
	Course  string `yaml:"course"`
	Grade   string `yaml:"grade"`
	Credits int    `yaml:"credits"`
}

// scheduleFile 周课表文件；只写 code 的课程从目录补全时间
type scheduleFile struct {
	Courses []seed.CourseDef `yaml:"courses"`
}

func readYAML(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("打开文件失败: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return nil
}

func loadProfile(path string) (*profileFile, error) {
	var p profileFile
	if err := readYAML(path, &p); err != nil {
		return nil, err
	}
	if p.Major == "" {
		return nil, fmt.Errorf("%s: 缺少 major", path)
	}
	return &p, nil
}

func loadSchedule(path string) ([]dto.ScheduledCourseInput, error) {
	var s scheduleFile
	if err := readYAML(path, &s); err != nil {
		return nil, err
	}
	out := make([]dto.ScheduledCourseInput, 0, len(s.Courses))
	for _, c := range s.Courses {
		out = append(out, dto.ScheduledCourseInput{
			Code:      c.Code,
			Name:      c.Name,
			Credits:   c.Credits,
			Days:      c.Days,
			StartTime: c.Start,
			EndTime:   c.End,
		})
	}
	return out, nil
}

func (p *profileFile) apScores() []dto.APScoreInput {
	out := make([]dto.APScoreInput, 0, len(p.APScores))
	for _, a := range p.APScores {
		out = append(out, dto.APScoreInput{ExamName: a.Exam, Score: a.Score})
	}
	return out
}

func (p *profileFile) progressRequest() *dto.ProgressRequest {
	req := &dto.ProgressRequest{
		Major:            p.Major,
		CompletedCourses: p.CompletedCourses,
		APScores:         p.apScores(),
	}
	for _, g := range p.Grades {
		req.Grades = append(req.Grades, dto.GradeInput{CourseCode: g.Course, Grade: g.Grade, Credits: g.Credits})
	}
	return req
}

func (p *profileFile) studentProfile() *dto.StudentProfileRequest {
	return &dto.StudentProfileRequest{
		Year:             p.Year,
		Major:            p.Major,
		CompletedCourses: p.CompletedCourses,
		APScores:         p.apScores(),
		CurrentGPA:       p.CurrentGPA,
	}
}
