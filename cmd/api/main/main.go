//go:build lambda
// +build lambda

package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/cyphera/cyphera-metrics/internal/config"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/server"
	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var ginLambda *ginadapter.GinLambda

func init() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	logger.InitLoggerWithConfig(logger.LoggerConfig{Level: cfg.LogLevel, Stage: cfg.Stage, Component: logger.ComponentAPI})

	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Unable to create server", zap.Error(err))
	}
	ginLambda = ginadapter.New(srv.Handler())
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Debug("Received Lambda request",
		zap.String("path", req.Path),
		zap.String("request", spew.Sdump(req)),
	)

	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer logger.Sync()
	lambda.Start(Handler)
}
