package profile

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupProfileRoutes 注册用户档案相关路由，所有路由都需要登录
func SetupProfileRoutes(router *gin.RouterGroup, db *gorm.DB, auth gin.HandlerFunc) {
	repo := NewProfileRepository(db)
	RegisterRoutes(router, NewProfileHandler(NewProfileService(repo)), auth)
}

// RegisterRoutes 注册处理器
func RegisterRoutes(router *gin.RouterGroup, handler *ProfileHandler, auth gin.HandlerFunc) {
	api := router.Group("", auth)

	api.GET("/me", handler.GetMe)

	academies := api.Group("/academies")
	{
		academies.GET("", handler.ListAcademies)
		academies.GET("/:id/members", handler.ListAcademyMembers)
	}

	// 管理员操作
	profiles := api.Group("/profiles")
	{
		profiles.POST("/:id/promote", handler.PromoteToAcademy)
		profiles.PUT("/:id/academy", handler.AssignAcademy)
	}
}
