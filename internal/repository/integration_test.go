//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"study-strata/config"
	"study-strata/internal/engine"
	"study-strata/internal/repository"
	"study-strata/internal/seed"
	"study-strata/internal/service"
	"study-strata/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=strata password=strata_password dbname=study_strata_test sslmode=disable TimeZone=America/Los_Angeles"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "数据库迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// seedDefault 写入内置种子数据
func seedDefault(t *testing.T) (*repository.Repository, *seed.Data) {
	t.Helper()
	data, err := seed.Default()
	if err != nil {
		t.Fatalf("加载内置数据失败: %v", err)
	}
	repo := repository.NewRepository(testDB)
	if _, err := service.SeedDatabase(context.Background(), repo, data, "", zap.NewNop()); err != nil {
		t.Fatalf("SeedDatabase 失败: %v", err)
	}
	return repo, data
}

// ═══════════════════════════════════════════════════════════
// Test: Seed → Load
// ═══════════════════════════════════════════════════════════

func TestSeedDatabase_Counts(t *testing.T) {
	repo, data := seedDefault(t)
	ctx := context.Background()

	courses, err := repo.Course.List(ctx)
	if err != nil {
		t.Fatalf("List 课程失败: %v", err)
	}
	if len(courses) != len(data.Courses) {
		t.Errorf("课程数量: 期望 %d, 实际 %d", len(data.Courses), len(courses))
	}

	// 重复写入为全量替换，数量不变
	if _, err := service.SeedDatabase(ctx, repo, data, "", zap.NewNop()); err != nil {
		t.Fatalf("二次 SeedDatabase 失败: %v", err)
	}
	again, _ := repo.Course.List(ctx)
	if len(again) != len(courses) {
		t.Errorf("二次写入后课程数量: 期望 %d, 实际 %d", len(courses), len(again))
	}
}

func TestProgramRepo_CategoryOrder(t *testing.T) {
	repo, data := seedDefault(t)

	want := data.Programs[0]
	got, err := repo.Program.GetByMajor(context.Background(), want.Major)
	if err != nil {
		t.Fatalf("GetByMajor 失败: %v", err)
	}
	if len(got.Categories) != len(want.Categories) {
		t.Fatalf("类别数量: 期望 %d, 实际 %d", len(want.Categories), len(got.Categories))
	}
	for i, c := range got.Categories {
		if c.Name != want.Categories[i].Name {
			t.Errorf("第 %d 个类别: 期望 %q, 实际 %q", i, want.Categories[i].Name, c.Name)
		}
	}
}

func TestProgramRepo_GetByMajor_NotFound(t *testing.T) {
	repo, _ := seedDefault(t)

	_, err := repo.Program.GetByMajor(context.Background(), "Underwater Basketry")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound, 实际 %v", err)
	}
}

func TestLoadReference_Database(t *testing.T) {
	repo, _ := seedDefault(t)
	ctx := context.Background()

	fromDB, err := service.LoadReference(ctx, &config.CatalogConfig{Source: config.CatalogSourceDatabase}, repo, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadReference(database) 失败: %v", err)
	}
	fromFile, err := service.LoadReference(ctx, &config.CatalogConfig{Source: config.CatalogSourceFile}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadReference(file) 失败: %v", err)
	}

	completed := []string{"CS31", "MATH31A"}
	dbProgress, ok := engine.Evaluate(fromDB.Catalog, "Computer Science", completed)
	if !ok {
		t.Fatal("数据库目录中应存在 Computer Science")
	}
	fileProgress, _ := engine.Evaluate(fromFile.Catalog, "Computer Science", completed)
	if dbProgress.TotalCredits != fileProgress.TotalCredits ||
		dbProgress.OverallProgress != fileProgress.OverallProgress {
		t.Errorf("两种来源的进度不一致: db=%+v file=%+v", dbProgress, fileProgress)
	}

	cs132, ok := fromDB.Catalog.LookupCourse("CS132")
	if !ok || len(cs132.Offered) != 1 || cs132.Offered[0] != engine.Spring {
		t.Errorf("CS132 开课学季应为 spring: %+v", cs132)
	}

	grant := fromDB.AP.Resolve([]engine.APScore{{ExamName: "AP Calculus BC", Score: 5}})
	if grant.Credits != 8 {
		t.Errorf("AP Calculus BC 应抵免 8 学分, 实际 %d", grant.Credits)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction Rollback
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	repo, _ := seedDefault(t)
	ctx := context.Background()

	before, _ := repo.Course.List(ctx)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}
	txRepo := repo.WithTx(tx)

	if err := txRepo.Course.DeleteAll(ctx); err != nil {
		tx.Rollback()
		t.Fatalf("事务内 DeleteAll 失败: %v", err)
	}
	inTx, _ := txRepo.Course.List(ctx)
	if len(inTx) != 0 {
		t.Errorf("事务内应看不到课程, 实际 %d", len(inTx))
	}

	tx.Rollback()

	after, _ := repo.Course.List(ctx)
	if len(after) != len(before) {
		t.Errorf("回滚后课程数量: 期望 %d, 实际 %d", len(before), len(after))
	}
}

func TestCourseRepo_GetByCode(t *testing.T) {
	repo, _ := seedDefault(t)

	c, err := repo.Course.GetByCode(context.Background(), "CS32")
	if err != nil {
		t.Fatalf("GetByCode 失败: %v", err)
	}
	if len(c.Prerequisites) != 1 || c.Prerequisites[0] != "CS31" {
		t.Errorf("CS32 先修课应为 [CS31], 实际 %v", c.Prerequisites)
	}
	if c.SeedSource != "builtin" {
		t.Errorf("内置数据来源应为 builtin, 实际 %q", c.SeedSource)
	}
}
