package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolet/govodmatch/internal/middleware"
)

func main() {
	InitializeLogger()
	InitializeConfig()
	InitializeDatabase()
	defer Store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	InitializeServices(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(Logger))
	r.Use(middleware.Gzip())
	r.Use(middleware.CORS())

	handler.RegisterRoutes(r)

	Logger.Infof("[App] starting HTTP server on port %s", Config.Port)
	log.Fatal(http.ListenAndServe(":"+Config.Port, r))
}
