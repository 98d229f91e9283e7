package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"study-strata/config"
	"study-strata/internal/dto"
	"study-strata/internal/repository"
	"study-strata/internal/service"
	"study-strata/pkg/database"
	"study-strata/pkg/jwt"
	applogger "study-strata/pkg/logger"
)

var (
	configFile  string
	catalogFile string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "strata",
		Short:         "Study Strata - 学业进度、选课建议与周课表工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "课程目录 YAML（为空使用内置数据）")

	rootCmd.AddCommand(
		newProgressCmd(),
		newRecommendCmd(),
		newSlotsCmd(),
		newSeedCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// ── 公共初始化 ──

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	svc    *service.Service
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if catalogFile != "" {
		cfg.Catalog.Path = catalogFile
	}
	// 命令行只输出警告以上日志，且写到 stderr
	logCfg := cfg.Log
	logCfg.Level, logCfg.Format, logCfg.Output = "warn", "console", "stderr"
	logger, err := applogger.NewLogger(&logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newApp 离线运行：目录始终从 YAML 读取，不连接数据库与 Redis
func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	catalogCfg := config.CatalogConfig{Source: config.CatalogSourceFile, Path: cfg.Catalog.Path}
	ref, err := service.LoadReference(ctx, &catalogCfg, nil, logger)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		logger: logger,
		svc:    service.NewService(cfg, ref, service.Dependencies{}, logger),
	}, nil
}

// ── strata progress ──

func newProgressCmd() *cobra.Command {
	var profilePath string
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "计算学业进度、GPA 与毕业资格",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := a.svc.Progress.Evaluate(cmd.Context(), p.progressRequest())
			if err != nil {
				return err
			}
			printProgress(resp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "profile.yaml", "学生档案 YAML")
	return cmd
}

// ── strata recommend ──

func newRecommendCmd() *cobra.Command {
	var (
		profilePath string
		byPriority  bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "生成选课建议",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			profile := p.studentProfile()
			infoColor.Println(a.svc.Recommendation.Greeting(cmd.Context(), profile).Message)
			printRecommendations(a.svc.Recommendation.Recommend(cmd.Context(), profile, byPriority))
			return nil
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "profile.yaml", "学生档案 YAML")
	cmd.Flags().BoolVar(&byPriority, "by-priority", false, "按优先级排序")
	return cmd
}

// ── strata slots ──

func newSlotsCmd() *cobra.Command {
	var schedulePath, day, at string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "查询某一时刻正在上课的课程",
		RunE: func(cmd *cobra.Command, _ []string) error {
			courses, err := loadSchedule(schedulePath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := a.svc.Timetable.CoursesAt(cmd.Context(), &dto.SlotQueryRequest{
				Courses: courses,
				Day:     day,
				Time:    at,
			})
			if err != nil {
				return err
			}
			printSlot(resp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "schedule.yaml", "周课表 YAML")
	cmd.Flags().StringVar(&day, "day", "M", "星期（M/T/W/R/F/S/U）")
	cmd.Flags().StringVar(&at, "time", "09:00", "时刻 HH:MM")
	return cmd
}

// ── strata seed ──

func newSeedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "迁移数据库并写入课程目录、专业要求与 AP 换算表",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := service.LoadSeedData(cfg.Catalog.Path)
			if err != nil {
				return err
			}

			db, err := database.NewDB(&cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("数据库连接失败: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			migrateFn := database.RunMigrations
			if reset {
				migrateFn = database.ResetMigrations
			}
			if err := migrateFn(sqlDB, logger); err != nil {
				return fmt.Errorf("数据库迁移失败: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			res, err := service.SeedDatabase(ctx, repository.NewRepository(db), data, cfg.Catalog.Path, logger)
			if err != nil {
				return err
			}
			successColor.Printf("已写入 %d 门课程、%d 个专业、%d 条 AP 换算（来源 %s）\n",
				res.Courses, res.Programs, res.APConversions, res.Source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "回滚并重建目录表")
	return cmd
}

// ── strata token ──

func newTokenCmd() *cobra.Command {
	var studentID, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发本地调试用 Access Token",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(studentID, role)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "学生 ID")
	cmd.Flags().StringVar(&role, "role", "student", "角色")
	cmd.MarkFlagRequired("student")
	return cmd
}
