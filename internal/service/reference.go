package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"study-strata/config"
	"study-strata/internal/engine"
	"study-strata/internal/model"
	"study-strata/internal/repository"
	"study-strata/internal/seed"
	apperrors "study-strata/pkg/errors"
)

// Reference 只读参考数据：课程目录、AP 换算表、推荐规则表
// 启动时构建一次，之后只读，可被多个请求并发使用
type Reference struct {
	Catalog *engine.Catalog
	AP      *engine.APTable
	Rules   *engine.RuleTable
	// Version 课程目录与 AP 表内容指纹，目录变化后缓存键随之变化
	Version string
}

func newReference(catalog *engine.Catalog, ap *engine.APTable, rules *engine.RuleTable) *Reference {
	return &Reference{Catalog: catalog, AP: ap, Rules: rules, Version: catalogFingerprint(catalog, ap)}
}

// catalogFingerprint sha256(课程 + 专业要求 + AP 表) 的前 16 位十六进制
func catalogFingerprint(catalog *engine.Catalog, ap *engine.APTable) string {
	majors := catalog.Majors()
	programs := make([]engine.DegreeRequirements, 0, len(majors))
	for _, m := range majors {
		if req, ok := catalog.LookupRequirements(m); ok {
			programs = append(programs, req)
		}
	}
	payload, _ := json.Marshal(struct {
		Courses  []engine.Course             `json:"courses"`
		Programs []engine.DegreeRequirements `json:"programs"`
		AP       []engine.APConversion       `json:"ap"`
	}{catalog.Courses(), programs, ap.Conversions()})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}

// LoadSeedData 读取种子数据；path 为空时使用内置数据
func LoadSeedData(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开种子文件失败: %w", err)
	}
	defer f.Close()
	return seed.Load(f)
}

// LoadReference 按 catalog.source 构建参考数据
//
//   - file: 课程、专业、AP、规则全部来自 YAML
//   - database: 课程、专业、AP 来自数据库，规则仍来自 YAML
func LoadReference(ctx context.Context, cfg *config.CatalogConfig, repo *repository.Repository, logger *zap.Logger) (*Reference, error) {
	data, err := LoadSeedData(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
	}

	if cfg.Source != config.CatalogSourceDatabase {
		catalog, ap, rules, err := data.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
		}
		logger.Info("参考数据已加载",
			zap.String("source", config.CatalogSourceFile),
			zap.Int("courses", len(catalog.Courses())),
			zap.Int("majors", len(catalog.Majors())),
			zap.Int("rules", rules.Size()),
		)
		return newReference(catalog, ap, rules), nil
	}

	if repo == nil {
		return nil, fmt.Errorf("%w: catalog.source=database 但数据库未连接", apperrors.ErrCatalogInvalid)
	}
	rules, err := data.RuleTable()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
	}
	catalog, ap, err := loadCatalogFromDB(ctx, repo)
	if err != nil {
		return nil, err
	}
	logger.Info("参考数据已加载",
		zap.String("source", config.CatalogSourceDatabase),
		zap.Int("courses", len(catalog.Courses())),
		zap.Int("majors", len(catalog.Majors())),
		zap.Int("rules", rules.Size()),
	)
	return newReference(catalog, ap, rules), nil
}

func loadCatalogFromDB(ctx context.Context, repo *repository.Repository) (*engine.Catalog, *engine.APTable, error) {
	rows, err := repo.Course.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("查询课程失败: %w", err)
	}
	courses, err := coursesFromModel(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
	}

	programs, err := repo.Program.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("查询专业要求失败: %w", err)
	}
	catalog, err := engine.NewCatalog(courses, programsFromModel(programs))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
	}

	convs, err := repo.APConversion.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("查询 AP 换算表失败: %w", err)
	}
	ap, err := engine.NewAPTable(apFromModel(convs))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
	}
	return catalog, ap, nil
}

// ════════════════════════════════════════════════════════════
// SeedDatabase 将种子数据写入数据库（全量替换）
// ════════════════════════════════════════════════════════════
//
// 单个事务内：删除 AP 表、专业（级联类别）、课程 → 重新插入。

// SeedResult 写入统计
type SeedResult struct {
	Source        string `json:"source"`
	Courses       int    `json:"courses"`
	Programs      int    `json:"programs"`
	APConversions int    `json:"ap_conversions"`
}

// SeedDatabase 校验并写入种子数据；source 为种子文件路径，空字符串表示内置数据
func SeedDatabase(ctx context.Context, repo *repository.Repository, data *seed.Data, source string, logger *zap.Logger) (*SeedResult, error) {
	// 先完整构建一次，保证写入的数据可用
	if _, _, _, err := data.Build(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
	}
	courses, err := data.EngineCourses()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogInvalid, err)
	}

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("开启事务失败: %w", err)
	}
	txRepo := repo.WithTx(tx)

	rollback := func(step string, err error) (*SeedResult, error) {
		tx.Rollback()
		logger.Error("写入种子数据失败", zap.String("step", step), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	if err := txRepo.APConversion.DeleteAll(ctx); err != nil {
		return rollback("清空 AP 换算表", err)
	}
	if err := txRepo.Program.DeleteAll(ctx); err != nil {
		return rollback("清空专业要求", err)
	}
	if err := txRepo.Course.DeleteAll(ctx); err != nil {
		return rollback("清空课程", err)
	}

	if source == "" {
		source = model.SourceBuiltin
	}

	rows := coursesToModel(courses)
	for i := range rows {
		rows[i].Stamp(source)
	}
	if err := txRepo.Course.CreateBatch(ctx, rows); err != nil {
		return rollback("写入课程", err)
	}
	programs := programsToModel(data.EnginePrograms())
	for i := range programs {
		programs[i].Stamp(source)
		for j := range programs[i].Categories {
			programs[i].Categories[j].Stamp(source)
		}
		if err := txRepo.Program.Create(ctx, &programs[i]); err != nil {
			return rollback("写入专业要求", err)
		}
	}
	convs := apToModel(data.EngineAPConversions())
	for i := range convs {
		convs[i].Stamp(source)
	}
	if err := txRepo.APConversion.CreateBatch(ctx, convs); err != nil {
		return rollback("写入 AP 换算表", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("提交事务失败: %w", err)
	}

	res := &SeedResult{
		Source:        source,
		Courses:       len(courses),
		Programs:      len(programs),
		APConversions: len(convs),
	}
	logger.Info("种子数据已写入",
		zap.String("source", res.Source),
		zap.Int("courses", res.Courses),
		zap.Int("programs", res.Programs),
		zap.Int("ap_conversions", res.APConversions),
	)
	return res, nil
}

// ── model ↔ engine ──

func coursesFromModel(rows []model.Course) ([]engine.Course, error) {
	out := make([]engine.Course, 0, len(rows))
	for _, r := range rows {
		c := engine.Course{
			Code:          r.Code,
			Name:          r.Name,
			Credits:       r.Credits,
			Type:          engine.CourseType(r.Type),
			Difficulty:    engine.Difficulty(r.Difficulty),
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Prerequisites: []string(r.Prerequisites),
		}
		for _, raw := range r.Days {
			d, err := engine.ParseDay(raw)
			if err != nil {
				return nil, fmt.Errorf("课程 %s: %w", r.Code, err)
			}
			c.Days = append(c.Days, d)
		}
		for _, raw := range r.Offered {
			q, err := engine.ParseQuarter(raw)
			if err != nil {
				return nil, fmt.Errorf("课程 %s: %w", r.Code, err)
			}
			c.Offered = append(c.Offered, q)
		}
		out = append(out, c)
	}
	return out, nil
}

func coursesToModel(courses []engine.Course) []model.Course {
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		days := make([]string, 0, len(c.Days))
		for _, d := range c.Days {
			days = append(days, string(d))
		}
		offered := make([]string, 0, len(c.Offered))
		for _, q := range c.Offered {
			offered = append(offered, string(q))
		}
		prereqs := c.Prerequisites
		if prereqs == nil {
			prereqs = []string{}
		}
		out = append(out, model.Course{
			Code:          c.Code,
			Name:          c.Name,
			Credits:       c.Credits,
			Type:          string(c.Type),
			Difficulty:    string(c.Difficulty),
			Days:          days,
			StartTime:     c.StartTime,
			EndTime:       c.EndTime,
			Prerequisites: prereqs,
			Offered:       offered,
		})
	}
	return out
}

func programsFromModel(rows []model.DegreeProgram) []engine.DegreeRequirements {
	out := make([]engine.DegreeRequirements, 0, len(rows))
	for _, p := range rows {
		req := engine.DegreeRequirements{Major: p.Major, TotalCredits: p.TotalCredits}
		for _, c := range p.Categories {
			req.Categories = append(req.Categories, engine.RequirementCategory{
				Name:            c.Name,
				Description:     c.Description,
				MinCredits:      c.MinCredits,
				RequiredCourses: []string(c.RequiredCourses),
				ElectivePool:    []string(c.ElectivePool),
				MinElectives:    c.MinElectives,
			})
		}
		out = append(out, req)
	}
	return out
}

func programsToModel(reqs []engine.DegreeRequirements) []model.DegreeProgram {
	out := make([]model.DegreeProgram, 0, len(reqs))
	for _, r := range reqs {
		p := model.DegreeProgram{Major: r.Major, TotalCredits: r.TotalCredits}
		for i, c := range r.Categories {
			p.Categories = append(p.Categories, model.RequirementCategory{
				Position:        i,
				Name:            c.Name,
				Description:     c.Description,
				MinCredits:      c.MinCredits,
				RequiredCourses: nonNil(c.RequiredCourses),
				ElectivePool:    nonNil(c.ElectivePool),
				MinElectives:    c.MinElectives,
			})
		}
		out = append(out, p)
	}
	return out
}

func apFromModel(rows []model.APConversion) []engine.APConversion {
	out := make([]engine.APConversion, 0, len(rows))
	for _, r := range rows {
		out = append(out, engine.APConversion{
			ExamName:          r.ExamName,
			MinScore:          r.MinScore,
			EquivalentCourses: []string(r.EquivalentCourses),
			Credits:           r.Credits,
		})
	}
	return out
}

func apToModel(convs []engine.APConversion) []model.APConversion {
	out := make([]model.APConversion, 0, len(convs))
	for _, c := range convs {
		out = append(out, model.APConversion{
			ExamName:          c.ExamName,
			MinScore:          c.MinScore,
			EquivalentCourses: nonNil(c.EquivalentCourses),
			Credits:           c.Credits,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
