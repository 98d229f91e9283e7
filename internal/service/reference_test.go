package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"study-strata/config"
	"study-strata/internal/engine"
	apperrors "study-strata/pkg/errors"
)

func TestLoadReference_File(t *testing.T) {
	ref, err := LoadReference(context.Background(), &config.CatalogConfig{Source: config.CatalogSourceFile}, nil, nopLogger)
	if err != nil {
		t.Fatalf("LoadReference 失败: %v", err)
	}
	if _, ok := ref.Catalog.LookupCourse("CS31"); !ok {
		t.Error("内置目录应包含 CS31")
	}
	if ref.Rules.Size() == 0 {
		t.Error("规则表不应为空")
	}
}

func TestLoadReference_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	// 重复的课程代码
	content := "courses:\n  - {code: CS31, credits: 4}\n  - {code: cs31, credits: 4}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadReference(context.Background(), &config.CatalogConfig{Source: config.CatalogSourceFile, Path: path}, nil, nopLogger)
	if !errors.Is(err, apperrors.ErrCatalogInvalid) {
		t.Errorf("期望 ErrCatalogInvalid, 实际 %v", err)
	}
}

func TestLoadReference_DatabaseWithoutRepo(t *testing.T) {
	_, err := LoadReference(context.Background(), &config.CatalogConfig{Source: config.CatalogSourceDatabase}, nil, nopLogger)
	if !errors.Is(err, apperrors.ErrCatalogInvalid) {
		t.Errorf("期望 ErrCatalogInvalid, 实际 %v", err)
	}
}

func TestModelConversion_RoundTrip(t *testing.T) {
	ref := testReference(t)

	courses := ref.Catalog.Courses()
	back, err := coursesFromModel(coursesToModel(courses))
	if err != nil {
		t.Fatalf("coursesFromModel 失败: %v", err)
	}
	if len(back) != len(courses) {
		t.Fatalf("数量不一致: %d vs %d", len(back), len(courses))
	}
	for i := range courses {
		a, b := courses[i], back[i]
		if a.Code != b.Code || a.StartTime != b.StartTime || a.EndTime != b.EndTime ||
			len(a.Days) != len(b.Days) || len(a.Offered) != len(b.Offered) || len(a.Prerequisites) != len(b.Prerequisites) {
			t.Errorf("%s 转换不一致: %+v vs %+v", a.Code, a, b)
		}
	}

	req, _ := ref.Catalog.LookupRequirements("Computer Science")
	programs := programsToModel(programsFromModel(programsToModel([]engine.DegreeRequirements{req})))
	if programs[0].Categories[2].Position != 2 || programs[0].Categories[2].Name != req.Categories[2].Name {
		t.Errorf("类别顺序应保存在 position 中: %+v", programs[0].Categories[2])
	}

	convs := apFromModel(apToModel(ref.AP.Conversions()))
	if len(convs) != len(ref.AP.Conversions()) {
		t.Errorf("AP 换算数量不一致")
	}
}

func TestCatalogFingerprint_TracksCatalogContent(t *testing.T) {
	ref := testReference(t)
	if ref.Version == "" || ref.Version != testReference(t).Version {
		t.Fatalf("相同目录应得到相同指纹: %q", ref.Version)
	}

	courses := ref.Catalog.Courses()
	courses[0].Credits++
	var programs []engine.DegreeRequirements
	for _, m := range ref.Catalog.Majors() {
		req, _ := ref.Catalog.LookupRequirements(m)
		programs = append(programs, req)
	}
	changed, err := engine.NewCatalog(courses, programs)
	if err != nil {
		t.Fatalf("NewCatalog 失败: %v", err)
	}
	if catalogFingerprint(changed, ref.AP) == ref.Version {
		t.Error("课程学分变化后指纹应变化")
	}
}
