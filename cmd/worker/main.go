// Command worker consumes derivation requests from SQS and replies to each
// message's ReplyTo queue.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsclient "github.com/cyphera/cyphera-metrics/internal/client/aws"
	"github.com/cyphera/cyphera-metrics/internal/config"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Application holds the worker dependencies
type Application struct {
	handler *worker.SQSHandler
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	logger.InitLoggerWithConfig(logger.LoggerConfig{Level: cfg.LogLevel, Stage: cfg.Stage, Component: logger.ComponentWorker})
	defer logger.Sync()

	app, err := createApplication(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to create application", zap.Error(err))
	}

	lambda.Start(app.handleEvent)
}

func createApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	client, err := awsclient.NewSQSClient(ctx, cfg.SQS.EndpointURL)
	if err != nil {
		return nil, err
	}
	return &Application{handler: worker.NewSQSHandler(client, nil)}, nil
}

func (app *Application) handleEvent(ctx context.Context, event events.SQSEvent) error {
	logger.Info("Processing derivation requests", zap.Int("message_count", len(event.Records)))
	logger.Debug("Received SQS event", zap.String("event", spew.Sdump(event)))

	return app.handler.HandleEvent(ctx, event)
}
