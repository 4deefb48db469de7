package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "smartnotes/api/v1"
	"smartnotes/config"
	"smartnotes/dao"
	"smartnotes/internal/analysis"
	myvalidator "smartnotes/internal/validator"
	"smartnotes/middleware"
	"smartnotes/model"
	"smartnotes/service"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	// 初始化数据库
	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	// 自动迁移
	if err := db.AutoMigrate(&model.User{}, &model.Note{}); err != nil {
		panic(err)
	}

	// 文本分析后端
	analyzer, err := analysis.New(context.Background(), config.GlobalConfig.Analysis)
	if err != nil {
		log.Fatalf("Failed to init analysis backend: %v", err)
	}

	// 初始化 DAO 和 Service
	userDAO := dao.NewUserDAO(db)
	noteDAO := dao.NewNoteDAO(db)
	userService := service.NewUserService(userDAO, config.RedisClient)
	noteService := service.NewNoteService(noteDAO, analyzer)
	userAPI := v1.NewUserAPI(userService)
	noteAPI := v1.NewNoteAPI(noteService)

	// 初始化路由
	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("notetag", myvalidator.IsNoteTag); err != nil {
			panic(err)
		}
	}

	// 公共路由
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", userAPI.Register)
		loginLimiter := middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute)
		public.POST("/auth/login", loginLimiter, userAPI.Login)
	}

	// 私有路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(userService.Session))
	{
		private.POST("/auth/logout", userAPI.Logout)
		private.GET("/auth/me", userAPI.Me)

		private.GET("/notes", noteAPI.List)
		private.POST("/notes", noteAPI.Create)
		private.PUT("/notes/:id", noteAPI.Update)
		private.DELETE("/notes/:id", noteAPI.Delete)
		private.POST("/notes/:id/summarize", noteAPI.Summarize)
		private.POST("/notes/:id/keywords", noteAPI.ExtractKeywords)
	}

	// 启动服务
	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
