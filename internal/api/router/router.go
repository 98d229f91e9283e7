package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"study-strata/config"
	"study-strata/internal/api/handler"
	"study-strata/internal/api/middleware"
	"study-strata/pkg/jwt"
)

// 请求体上限（ICS 上传单独限制为 2MB）
const maxBodyBytes = 4 << 20

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	v1.Use(middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	{
		// 课程目录
		v1.GET("/courses", h.Catalog.ListCourses)
		v1.GET("/courses/:code", h.Catalog.GetCourse)
		v1.GET("/courses/:code/prerequisites", h.Catalog.GetPrerequisites)
		v1.GET("/courses/:code/dependents", h.Catalog.GetDependents)
		v1.GET("/majors", h.Catalog.ListMajors)
		v1.GET("/majors/:major/requirements", h.Catalog.GetRequirements)
		v1.POST("/ap/resolve", h.Catalog.ResolveAP)

		// 学业进度与选课建议
		v1.POST("/progress", h.Progress.Evaluate)
		v1.POST("/recommendations", h.Advisor.Recommend)
		v1.POST("/advisor/greeting", h.Advisor.Greeting)

		// 周课表
		timetable := v1.Group("/timetable")
		{
			timetable.POST("/slots", h.Timetable.CoursesAt)
			timetable.POST("/grid", h.Timetable.BuildGrid)
			timetable.POST("/import", h.Timetable.ImportICS)
			timetable.POST("/export", h.Timetable.Export)
		}

		// 选课计划
		v1.POST("/plans/validate", h.Timetable.ValidatePlan)

		// 排课优化
		v1.POST("/schedules/optimize", h.Optimization.Optimize)
	}

	return r
}
