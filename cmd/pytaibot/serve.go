package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SelfMadeDev/pytaibot/dialog"
	"github.com/SelfMadeDev/pytaibot/internal/aviationedge"
	"github.com/SelfMadeDev/pytaibot/internal/channelrun"
	"github.com/SelfMadeDev/pytaibot/internal/delivery"
	"github.com/SelfMadeDev/pytaibot/internal/dynamostore"
	"github.com/SelfMadeDev/pytaibot/internal/flowcfg"
	"github.com/SelfMadeDev/pytaibot/internal/ingest"
	"github.com/SelfMadeDev/pytaibot/internal/instagram"
	"github.com/SelfMadeDev/pytaibot/internal/logutil"
	"github.com/SelfMadeDev/pytaibot/internal/pubsub"
	"github.com/SelfMadeDev/pytaibot/internal/statepaths"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the polling bot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("instagram-session-token", "", "Instagram session token.")
	cmd.Flags().String("aviation-edge-key", "", "aviation-edge API key.")
	cmd.Flags().String("flow", "", "Dialog flow YAML file (optional).")
	cmd.Flags().Duration("poll-interval", time.Second, "Inbox poll interval.")
	cmd.Flags().String("state-backend", "file", "Conversation store backend: file|memory|dynamodb.")
	cmd.Flags().String("dynamodb-table", "", "DynamoDB table name (state-backend=dynamodb).")
	cmd.Flags().String("amqp-url", "", "RabbitMQ URL for conversation events (optional).")

	_ = viper.BindPFlag("instagram.session_token", cmd.Flags().Lookup("instagram-session-token"))
	_ = viper.BindPFlag("aviation_edge.key", cmd.Flags().Lookup("aviation-edge-key"))
	_ = viper.BindPFlag("flow.path", cmd.Flags().Lookup("flow"))
	_ = viper.BindPFlag("poll.interval", cmd.Flags().Lookup("poll-interval"))
	_ = viper.BindPFlag("state.backend", cmd.Flags().Lookup("state-backend"))
	_ = viper.BindPFlag("dynamodb.table", cmd.Flags().Lookup("dynamodb-table"))
	_ = viper.BindPFlag("amqp.url", cmd.Flags().Lookup("amqp-url"))

	return cmd
}

func runServe(cmd *cobra.Command) error {
	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := instagram.New(instagram.Options{
		BaseURL:      viper.GetString("instagram.base_url"),
		SessionToken: viper.GetString("instagram.session_token"),
	})
	if err != nil {
		return err
	}

	resolver, err := aviationedge.New(nil, viper.GetString("aviation_edge.base_url"), viper.GetString("aviation_edge.key"))
	if err != nil {
		return err
	}

	store, err := storeFromViper(ctx)
	if err != nil {
		return err
	}

	retrier, err := delivery.NewRetrier(client, delivery.Options{
		OperatorID:  viper.GetString("delivery.operator_id"),
		MaxAttempts: viper.GetInt("delivery.max_attempts"),
		BaseDelay:   viper.GetDuration("delivery.base_delay"),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	flow, err := flowcfg.Load(viper.GetString("flow.path"))
	if err != nil {
		return err
	}

	engine, err := buildEngine(flow, store, &dialog.Env{
		Messenger: client,
		Deliverer: retrier,
		Resolver:  resolver,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	events, err := eventsFromViper(logger)
	if err != nil {
		return err
	}
	defer events.Close()

	err = channelrun.Run(ctx, channelrun.Dependencies{
		Client:   client,
		Engine:   engine,
		Ingestor: ingest.New(time.Now().UnixMicro()),
		Events:   events,
		Logger:   logger,
	}, channelrun.Options{
		PollInterval:    viper.GetDuration("poll.interval"),
		MaxConcurrency:  viper.GetInt("poll.max_concurrency"),
		DispatchTimeout: viper.GetDuration("poll.dispatch_timeout"),
	})
	if ctx.Err() != nil {
		// Interrupted; drained cleanly.
		return nil
	}
	return err
}

func storeFromViper(ctx context.Context) (dialog.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(viper.GetString("state.backend")))
	switch backend {
	case "", "file":
		return dialog.NewFileStore(statepaths.ConversationsDir()), nil
	case "memory":
		return dialog.NewMemoryStore(), nil
	case "dynamodb":
		table := strings.TrimSpace(viper.GetString("dynamodb.table"))
		if table == "" {
			return nil, fmt.Errorf("state.backend=dynamodb requires dynamodb.table")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return dynamostore.New(dynamodb.NewFromConfig(awsCfg), table)
	default:
		return nil, fmt.Errorf("unknown state.backend: %s", backend)
	}
}

func eventsFromViper(logger *slog.Logger) (pubsub.Publisher, error) {
	url := strings.TrimSpace(viper.GetString("amqp.url"))
	if url == "" {
		return pubsub.Nop{}, nil
	}
	return pubsub.New(url, viper.GetString("amqp.exchange"), logger)
}
