package challenge

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册挑战相关路由，所有路由都需要登录
func RegisterRoutes(router *gin.RouterGroup, handler *ChallengeHandler, auth gin.HandlerFunc) {
	api := router.Group("", auth)

	challenges := api.Group("/challenges")
	{
		challenges.GET("", handler.ListChallenges)
		challenges.POST("", handler.CreateChallenge)
		challenges.POST("/join", handler.JoinByCode)

		challenges.GET("/:id", handler.GetChallenge)
		challenges.PUT("/:id", handler.UpdateChallenge)
		challenges.DELETE("/:id", handler.DeleteChallenge)

		// 参与
		challenges.POST("/:id/join", handler.JoinChallenge)
		challenges.DELETE("/:id/participation", handler.LeaveChallenge)
		challenges.PUT("/:id/progress", handler.UpdateProgress)

		challenges.POST("/:id/rewards", handler.DistributeRewards)
	}

	api.GET("/me/points", handler.GetMyPoints)
}
