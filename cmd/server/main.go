package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack/challenge-service/config"
	"fittrack/challenge-service/internal/database"
	"fittrack/challenge-service/internal/grpc"
	"fittrack/challenge-service/internal/route"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")
	log.SetPrefix(fmt.Sprintf("[%s] ", config.Conf.Log.Prefix))
	gin.SetMode(config.Conf.Server.Mode)

	// 2. 初始化数据库
	database.InitDatabase()
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 启动 gRPC 健康检查
	if port := config.Conf.GRPC.Port; port != 0 {
		sqlDB, err := database.GetDB().DB()
		if err != nil {
			log.Fatalf("获取数据库连接失败: %v", err)
		}
		stores := []grpc.Pinger{sqlDB}
		if database.RedisDB != nil {
			stores = append(stores, database.RedisDB)
		}
		grpcServer, err := grpc.NewServer(port, stores...)
		if err != nil {
			log.Fatalf("启动 gRPC 服务失败: %v", err)
		}
		go grpcServer.Watch(ctx, 15*time.Second)
		go func() {
			log.Printf("gRPC health server listening on %s", grpcServer.GetAddr())
			if err := grpcServer.Start(); err != nil {
				log.Printf("gRPC server stopped: %v", err)
			}
		}()
		defer grpcServer.Stop()
	}

	// 4. 设置路由
	r := route.SetupRouter(database.PostgresDB, database.RedisDB)

	// 5. 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port),
		Handler:      r,
		ReadTimeout:  config.Conf.Server.ReadTimeout,
		WriteTimeout: config.Conf.Server.WriteTimeout,
	}
	go func() {
		log.Printf("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
}
