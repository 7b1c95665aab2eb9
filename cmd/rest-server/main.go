package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	esv7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	rv8 "github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-tracker/cmd/internal"
	internaldomain "github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/auth"
	"github.com/sanLimbu/task-tracker/internal/elasticsearch"
	"github.com/sanLimbu/task-tracker/internal/envvar"
	"github.com/sanLimbu/task-tracker/internal/kafka"
	"github.com/sanLimbu/task-tracker/internal/memcached"
	"github.com/sanLimbu/task-tracker/internal/postgresql"
	"github.com/sanLimbu/task-tracker/internal/rabbitmq"
	"github.com/sanLimbu/task-tracker/internal/redis"
	"github.com/sanLimbu/task-tracker/internal/rest"
	"github.com/sanLimbu/task-tracker/internal/service"
)

const serviceName = "task-tracker-rest-server"

func main() {
	var env, address string

	flag.StringVar(&env, "env", "", "Environment Variables filename")
	flag.StringVar(&address, "address", ":9234", "HTTP Server Address")
	flag.Parse()

	errC, err := run(env, address)
	if err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}

	if err := <-errC; err != nil {
		log.Fatalf("Error while running: %s", err)
	}
}

func run(env, address string) (<-chan error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "zap.NewProduction")
	}

	if err := envvar.Load(env); err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "envvar.Load")
	}

	vault, err := internal.NewVaultProvider()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewVaultProvider")
	}

	conf := envvar.New(vault)

	//-

	pool, err := internal.NewPostgreSQL(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewPostgreSQL")
	}

	es, err := internal.NewElasticSearch(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewElasticSearch")
	}

	mc, err := internal.NewMemcached(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewMemcached")
	}

	rdb, err := internal.NewRedis(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewRedis")
	}

	metrics, err := internal.NewOTExporter(conf, serviceName)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewOTExporter")
	}

	jwtConfig, err := newJWTConfig(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "newJWTConfig")
	}

	broker, err := conf.GetDefault("MESSAGE_BROKER", "kafka")
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "conf.Get MESSAGE_BROKER")
	}

	var (
		kafkaProducer *internal.KafkaProducer
		rmq           *internal.RabbitMQ
	)

	switch broker {
	case "kafka":
		if kafkaProducer, err = internal.NewKafkaProducer(conf, logger); err != nil {
			return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewKafkaProducer")
		}
	case "rabbitmq":
		if rmq, err = internal.NewRabbitMQ(conf); err != nil {
			return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewRabbitMQ")
		}
	default:
		return nil, internaldomain.NewErrorf(internaldomain.ErrorCodeInvalidArgument, "unknown message broker %q", broker)
	}

	//-

	logging := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info(r.Method,
				zap.Time("time", time.Now()),
				zap.String("url", r.URL.String()),
			)

			h.ServeHTTP(w, r)
		})
	}

	srv, err := newServer(serverConfig{
		Address:       address,
		DB:            pool,
		ElasticSearch: es,
		Kafka:         kafkaProducer,
		RabbitMQ:      rmq,
		Memcached:     mc,
		Redis:         rdb,
		JWT:           jwtConfig,
		Metrics:       metrics,
		Middlewares:   []func(next http.Handler) http.Handler{otelchi.Middleware(serviceName), logging},
		Logger:        logger,
	})
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "newServer")
	}

	errC := make(chan error, 1)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		<-ctx.Done()

		logger.Info("Shutdown signal received")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		defer func() {
			_ = logger.Sync()

			pool.Close()
			_ = rdb.Close()

			if kafkaProducer != nil {
				kafkaProducer.Close()
			}

			if rmq != nil {
				rmq.Close()
			}

			stop()
			cancel()
			close(errC)
		}()

		srv.SetKeepAlivesEnabled(false)

		if err := srv.Shutdown(ctxTimeout); err != nil {
			errC <- err
		}

		logger.Info("Shutdown completed")
	}()

	go func() {
		logger.Info("Listening and serving", zap.String("address", address))

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	return errC, nil
}

func newJWTConfig(conf *envvar.Configuration) (auth.JWTConfig, error) {
	secret, err := conf.Get("JWT_SECRET_KEY")
	if err != nil {
		return auth.JWTConfig{}, fmt.Errorf("conf.Get JWT_SECRET_KEY %w", err)
	}

	if secret == "" {
		return auth.JWTConfig{}, internaldomain.NewErrorf(internaldomain.ErrorCodeInvalidArgument, "JWT_SECRET_KEY is required")
	}

	expires, err := conf.GetDefault("JWT_ACCESS_TOKEN_EXPIRES", auth.DefaultAccessTokenDuration.String())
	if err != nil {
		return auth.JWTConfig{}, fmt.Errorf("conf.Get JWT_ACCESS_TOKEN_EXPIRES %w", err)
	}

	duration, err := time.ParseDuration(expires)
	if err != nil {
		return auth.JWTConfig{}, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeInvalidArgument, "time.ParseDuration")
	}

	return auth.JWTConfig{
		SecretKey:           secret,
		AccessTokenDuration: duration,
		Issuer:              serviceName,
	}, nil
}

type serverConfig struct {
	Address       string
	DB            *pgxpool.Pool
	ElasticSearch *esv7.Client
	Kafka         *internal.KafkaProducer
	RabbitMQ      *internal.RabbitMQ
	Memcached     *memcache.Client
	Redis         *rv8.Client
	JWT           auth.JWTConfig
	Metrics       http.Handler
	Middlewares   []func(next http.Handler) http.Handler
	Logger        *zap.Logger
}

func newServer(conf serverConfig) (*http.Server, error) {
	router := chi.NewRouter()
	router.Use(render.SetContentType(render.ContentTypeJSON))

	for _, mw := range conf.Middlewares {
		router.Use(mw)
	}

	//-

	var msgBroker service.TaskMessageBrokerRepository

	switch {
	case conf.Kafka != nil:
		msgBroker = kafka.NewTask(conf.Kafka.Producer, conf.Kafka.Topic)
	case conf.RabbitMQ != nil:
		msgBroker = rabbitmq.NewTask(conf.RabbitMQ.Channel)
	default:
		return nil, internaldomain.NewErrorf(internaldomain.ErrorCodeInvalidArgument, "message broker is required")
	}

	repo := memcached.NewTask(conf.Memcached, postgresql.NewTask(conf.DB), conf.Logger)
	search := elasticsearch.NewTask(conf.ElasticSearch)

	taskSvc := service.NewTask(conf.Logger, repo, search, msgBroker)

	userSvc := service.NewUser(conf.Logger,
		postgresql.NewUser(conf.DB),
		redis.NewToken(conf.Redis),
		auth.NewPasswordHasher(),
		auth.NewJWTManager(conf.JWT))

	//-

	rest.RegisterOpenAPI(router)
	rest.RegisterHealth(router)

	users := rest.NewUserHandler(userSvc)
	users.Register(router)

	router.Group(func(r chi.Router) {
		r.Use(rest.NewAuthMiddleware(userSvc))

		users.RegisterAuthenticated(r)
		rest.NewTaskHandler(taskSvc).Register(r)
	})

	router.Handle("/metrics", conf.Metrics)

	lmt := tollbooth.NewLimiter(20, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Second})

	lmtmw := tollbooth.LimitHandler(lmt, router)

	return &http.Server{
		Handler:           lmtmw,
		Addr:              conf.Address,
		ReadTimeout:       1 * time.Second,
		ReadHeaderTimeout: 1 * time.Second,
		WriteTimeout:      1 * time.Second,
		IdleTimeout:       1 * time.Second,
	}, nil
}
