package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"voc-backend/internal/bootstrap"
	"voc-backend/internal/shared/config"
	"voc-backend/internal/shared/metrics"
	"voc-backend/internal/shared/storage/db"
	"voc-backend/internal/shared/telemetry"
	"voc-backend/internal/workerproc"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()
	if err := bootstrap.ConfigureLogging(cfg); err != nil {
		log.Fatalf("configure logging: %v", err)
	}
	defer telemetry.Sync()

	queueURL := cfg.LearnQueueURL
	if queueURL == "" {
		log.Fatal("LEARN_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("LEARN_SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("LEARN_WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("LEARN_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	region := cfg.AWSRegion
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	// The worker indexes inline; it must never re-enqueue what it consumes.
	cfg.LearnQueueURL = ""
	cliOpts := db.DefaultCLIOptions()
	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{DBOptions: &cliOpts, SkipMigrations: true})
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()
	if err := app.Gateway.Initialize(ctx); err != nil {
		log.Fatalf("initialize vector store: %v", err)
	}

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":       queueURL,
		"concurrency": concurrency,
		"visibility":  visibilitySeconds,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, sqsClient, queueURL, app.Learner, m)
			}(msg)
		}
	}

	telemetry.Info("worker.shutdown", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"timeout": shutdownTimeout.String()})
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func handleMessage(ctx context.Context, client sqsAPI, queueURL string, applier workerproc.Applier, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, decoded.VOCID, decoded.RequestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error(parseFailureEvent(err), fields)
		if deleteMessage(ctx, client, queueURL, msg, decoded.VOCID, decoded.RequestID) {
			metrics.IncLearnJob("deleted_unrecoverable")
		}
		return
	}

	telemetry.Info("worker.learn.received", baseFields(msg, decoded.VOCID, decoded.RequestID))

	ctxWithParsed := workerproc.WithParsedMessage(ctx, decoded)
	if err := workerproc.HandleMessage(ctxWithParsed, applier, body); err != nil {
		fields := baseFields(msg, decoded.VOCID, decoded.RequestID)
		fields["error"] = err.Error()

		var invalid workerproc.ErrInvalidMessage
		if errors.As(err, &invalid) {
			telemetry.Error("worker.learn.invalid", fields)
			if deleteMessage(ctx, client, queueURL, msg, decoded.VOCID, decoded.RequestID) {
				metrics.IncLearnJob("deleted_unrecoverable")
			}
			return
		}
		telemetry.Error("worker.learn.failed", fields)
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded.VOCID, decoded.RequestID) {
		telemetry.Info("worker.learn.completed", baseFields(msg, decoded.VOCID, decoded.RequestID))
	}
}

func parseFailureEvent(err error) string {
	switch err.(type) {
	case workerproc.ErrEmptyBody:
		return "worker.learn.empty_body"
	case workerproc.ErrInvalidMessage:
		return "worker.learn.invalid"
	default:
		return "worker.learn.decode_failed"
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, vocID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, vocID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.learn.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, vocID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.learn.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, vocID, requestID string) map[string]any {
	fields := map[string]any{
		"voc_id":         vocID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
