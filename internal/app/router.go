package app

import (
	"edusync_backend/docs"
	"edusync_backend/internal/middleware"
	"edusync_backend/internal/model"
	"edusync_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(), middleware.CallerMiddleware())
	{
		a.registerStudentRoutes(authGroup, c)

		// 3. 教师相关接口
		instructor := authGroup.Group("/instructor")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		a.registerInstructorRoutes(instructor, c)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	results := group.Group("/results")
	{
		results.GET("", c.result.ListResults)
		results.POST("", c.result.SubmitResult)
		results.GET("/mine", c.result.MyResults)
		results.GET("/view/state", c.result.ViewState)
	}

	courses := group.Group("/courses")
	{
		courses.GET("", c.course.ListCourses)
		courses.GET("/:id", c.course.GetCourse)
	}

	assessments := group.Group("/assessments")
	{
		assessments.GET("", c.assessment.ListAssessments)
		assessments.GET("/:id", c.assessment.GetAssessment)
	}
}

func (a *App) registerInstructorRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/results", c.result.AllResults)
	group.POST("/courses", c.course.CreateCourse)
	group.POST("/assessments", c.assessment.CreateAssessment)
}
