package route

import (
	"net/http"

	"fittrack/challenge-service/config"
	"fittrack/challenge-service/internal/challenge"
	"fittrack/challenge-service/internal/middleware"
	"fittrack/challenge-service/internal/profile"
	pkgDatabase "fittrack/challenge-service/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func initRoute(r *gin.Engine, db *gorm.DB, redis *pkgDatabase.RedisClient) {
	api := r.Group("/api/v1")
	auth := middleware.JWTAuth(config.Conf.JWT.Secret)

	// 初始化依赖
	profileRepo := profile.NewProfileRepository(db)
	challengeRepo := challenge.NewChallengeRepository(db)

	var locker challenge.RewardLocker = challenge.NewLocalRewardLocker()
	if redis != nil {
		locker = challenge.NewRedisRewardLocker(redis, config.Conf.Challenge.RewardLockDuration())
	}

	challengeService := challenge.NewChallengeService(challengeRepo, profileRepo, locker,
		challenge.WithInviteCodeAttempts(config.Conf.Challenge.InviteCodeAttempts),
	)

	// 初始化handler
	profile.RegisterRoutes(api, profile.NewProfileHandler(profile.NewProfileService(profileRepo)), auth)
	challenge.RegisterRoutes(api, challenge.NewChallengeHandler(challengeService), auth)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

func SetupRouter(db *gorm.DB, redis *pkgDatabase.RedisClient) *gin.Engine {
	r := gin.Default()

	origin := config.Conf.Server.FrontendURL
	if origin == "" {
		origin = "http://localhost:5173" // 默认值
	}

	// 设置跨域请求，access_token 通过 cookie 传递
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	initRoute(r, db, redis)

	return r
}
