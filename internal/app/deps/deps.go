package deps

import (
	"context"
	"eventreminder/internal/config"
	"eventreminder/internal/core/domain/bot"
	dl "eventreminder/internal/core/domain/logging"
	"eventreminder/internal/core/domain/notification"
	drl "eventreminder/internal/core/domain/rate_limiter"
	duow "eventreminder/internal/core/domain/unit_of_work"
	"eventreminder/internal/db"
	filestore "eventreminder/internal/db/file_store"
	pgxstore "eventreminder/internal/db/pgx_store"
	redisstore "eventreminder/internal/db/redis_store"
	"eventreminder/internal/implementations/logging"
	ratelimiter "eventreminder/internal/implementations/rate_limiter"
	slackmessagesender "eventreminder/internal/implementations/slack_message_sender"
	slacksignature "eventreminder/internal/implementations/slack_signature"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	UnitOfWork duow.UnitOfWork

	// RateLimiter is nil when command rate limiting is disabled.
	RateLimiter drl.RateLimiter

	NotificationSink notification.Sink
	CommandResponder bot.CommandResponder
	RequestVerifier  *slacksignature.HMAC

	zapLogger *logging.ZapLogger
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	closeLogger := deps.initLogger()

	deps.Now = func() time.Time { return time.Now().UTC() }

	closeRedisClient := deps.initRedisClient()
	closePgxPool := deps.initPgxPool()
	deps.initUnitOfWork()

	if deps.Config.IsRateLimitEnabled() {
		deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	}

	slackMessageSender := slackmessagesender.New(
		deps.Config.SlackBaseURL,
		deps.Config.SlackBotToken,
		deps.Config.SlackRequestTimeout,
	)
	deps.NotificationSink = slackMessageSender
	deps.CommandResponder = slackMessageSender
	deps.RequestVerifier = deps.initRequestVerifier()
	deps.warnAboutMissingSettings()

	flushSentry := deps.initSentry()

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.Debug)
	deps.Logger = logger
	deps.zapLogger = logger
	return func() { logger.Sync() }
}

// NamedLogger returns a logger that tags records with the component name.
// Deps built without InitDeps get Logger back unchanged.
func (deps *Deps) NamedLogger(component string) dl.Logger {
	if deps.zapLogger == nil {
		return deps.Logger
	}
	return deps.zapLogger.Named(component)
}

func (deps *Deps) initPgxPool() func() {
	if deps.Config.StorageBackend != config.StoragePostgres {
		return func() {}
	}

	ctx := context.Background()
	if err := db.ApplyMigrations(deps.Config.MigrationsPath, deps.Config.PostgresqlURL); err != nil {
		deps.Logger.Error(ctx, "Could not apply DB migrations.", dl.Entry("err", err))
		panic(err)
	}
	pool, err := pgxpool.Connect(ctx, deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(ctx, "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		return func() {}
	}

	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initUnitOfWork() {
	switch deps.Config.StorageBackend {
	case config.StorageRedis:
		deps.UnitOfWork = redisstore.NewUnitOfWork(deps.Redis, deps.Logger, deps.Config.RedisEventsKey)
	case config.StoragePostgres:
		deps.UnitOfWork = pgxstore.NewPgxUnitOfWork(deps.DB, deps.Logger)
	default:
		deps.UnitOfWork = filestore.NewUnitOfWork(deps.Logger, deps.Config.EventsFile)
	}
	deps.Logger.Info(
		context.Background(),
		"Event store is ready.",
		dl.Entry("backend", deps.Config.StorageBackend),
	)
}

func (deps *Deps) initRequestVerifier() *slacksignature.HMAC {
	if deps.Config.IsTestMode {
		return slacksignature.NewHMAC("", deps.Now)
	}
	return slacksignature.NewHMAC(deps.Config.SlackSigningSecret, deps.Now)
}

func (deps *Deps) warnAboutMissingSettings() {
	ctx := context.Background()
	if !deps.RequestVerifier.IsEnabled() {
		deps.Logger.Warning(ctx, "SLACK_SIGNING_SECRET is not set, slash command signatures are not verified.")
	}
	if deps.Config.SlackBotToken == "" {
		deps.Logger.Warning(ctx, "SLACK_BOT_TOKEN is not set, reminders can't be posted.")
	}
	if deps.Config.SlackChannelID == "" {
		deps.Logger.Warning(ctx, "SLACK_CHANNEL_ID is not set, reminders are disabled.")
	}
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn,
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
