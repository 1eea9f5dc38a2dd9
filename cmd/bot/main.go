package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/english-course-bot/internal/config"
	"github.com/aliskhannn/english-course-bot/internal/delivery/telegram"
	"github.com/aliskhannn/english-course-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/english-course-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/english-course-bot/internal/infra/redis"
	"github.com/aliskhannn/english-course-bot/internal/infra/sqlite"
	"github.com/aliskhannn/english-course-bot/internal/logger"
	"github.com/aliskhannn/english-course-bot/internal/observe"
	"github.com/aliskhannn/english-course-bot/internal/repository"
	"github.com/aliskhannn/english-course-bot/internal/service"
	"github.com/aliskhannn/english-course-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		return fmt.Errorf("init metrics provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownMetrics(shutdownCtx)
	}()

	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	// Initialize repositories and services.
	curriculum, err := repository.NewCurriculumRepository(cfg.CurriculumPath)
	if err != nil {
		return fmt.Errorf("load curriculum: %w", err)
	}

	progressRepo, closeRepo, err := openProgressRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	progressStore := service.NewProgressStore(
		progressRepo,
		service.NewGatingEngine(curriculum),
		service.NewScoreAggregator(),
		metrics,
		lg,
	)

	recognizer := telegram.NewChatRecognizer(cfg.Speech.Enabled)
	listener := service.NewSpeechListener(
		recognizer,
		service.NewSpeechMatcher(),
		cfg.Speech.ListenTimeout,
		metrics,
		lg,
	)

	studyService := service.NewStudyService(
		progressStore,
		curriculum,
		service.NewQuestionBuilder(service.NewOptionGenerator(rng)),
		storage.NewSessionStorage(),
		listener,
		metrics,
		lg,
	)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("create bot api: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the course"},
		{Command: "progress", Description: "Course overview"},
		{Command: "month", Description: "Days of a month (usage: /month 1)"},
		{Command: "lesson", Description: "Open a lesson (usage: /lesson 1 3)"},
		{Command: "exam", Description: "Take a month exam (usage: /exam 1)"},
		{Command: "weak", Description: "Review weaknesses"},
		{Command: "skip", Description: "Skip the current task"},
		{Command: "unlock", Description: "Unlock a month with a code"},
		{Command: "reset", Description: "Start over"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(
		bot,
		lg,
		cfg.Telegram.OwnerID,
		progressStore,
		studyService,
		curriculum,
		recognizer,
		storage.NewReminderStorage(),
	)

	reminderService := service.NewReminderService(
		progressStore,
		curriculum,
		cfg.Telegram.OwnerID,
		cfg.Reminder.Cron,
		lg,
	)
	reminderService.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := handler.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return reminderService.Start(gctx)
	})

	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			lg.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
			return observe.Serve(gctx, cfg.Metrics.Addr)
		})
	}

	err = g.Wait()
	lg.Info("shutdown complete")
	return err
}

// openProgressRepository connects the configured progress backend. The
// returned function releases it.
func openProgressRepository(ctx context.Context, cfg *config.Config) (service.ProgressRepository, func(), error) {
	key := cfg.Storage.DocumentKey

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return storage.NewDocumentStorage(), func() {}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewProgressRepository(db, key), func() { _ = db.Close() }, nil

	case config.DriverPostgres:
		dsn, err := cfg.Storage.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.Storage.DB.MaxConnections),
			MaxConnLifetime: cfg.Storage.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pgrepo.EnsureSchema(ctx, postgres.NewTransactor(pool)); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgrepo.NewProgressRepository(pool, key), pool.Close, nil

	case config.DriverRedis:
		rdb, err := redis.NewClient(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewProgressRepository(rdb, key), func() { _ = rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorageDriver, cfg.Storage.Driver)
	}
}
