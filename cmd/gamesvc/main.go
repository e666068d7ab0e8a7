package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/cavacamisa-services/configs"
	"github.com/avvvet/cavacamisa-services/internal/comm"
	mongodb "github.com/avvvet/cavacamisa-services/internal/db"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/broker"
	svcconfig "github.com/avvvet/cavacamisa-services/internal/gamesvc/config"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/db"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/handlers"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/service"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/store"
	natscli "github.com/avvvet/cavacamisa-services/internal/nats"
)

const SERVICE_NAME = "game"

var instanceId string

func init() {
	config.LoadEnv(SERVICE_NAME)
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
}

func main() {
	cfg := svcconfig.Load()

	resultStore, closeResults := openResultStore(cfg)
	defer closeResults()

	playerStore := store.NewPlayerStore()
	gameStore := store.NewGameStore()

	gameService := service.NewGameService(gameStore, playerStore, resultStore,
		models.Rules{ObligatedKeepsTurn: cfg.ObligatedKeepsTurn})
	playerService := service.NewPlayerService(playerStore)

	// the broker is optional, REST works without NATS
	var sub, claim *nats.Subscription
	if cfg.NatsURL != "" {
		n, err := natscli.Connect(cfg.NatsURL, cfg.NatsToken, SERVICE_NAME+"-"+instanceId)
		if err != nil {
			log.Errorf("Error: unable to connect to NATS server %v", err)
			os.Exit(1)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		// games are held in memory, a second instance would answer every request twice
		claim, err = broker.ClaimInstance(n.Conn, SERVICE_NAME+"-"+instanceId, 2*time.Second)
		if err != nil {
			log.Errorf("Error: %v", err)
			os.Exit(1)
		}

		b := broker.NewBroker(n.Conn, gameService, playerService)
		gameService.SetNotifier(b)

		sub, err = b.SubscribSocketService(comm.TopicSocketService)
		if err != nil {
			log.Errorf("Error: unable to subscribe to queue %v", err)
			os.Exit(1)
		}
	} else {
		log.Warn("NATS_URL not set, realtime broker disabled")
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	h := handlers.NewHandler(gameService, playerService)
	h.SetRoutes(r)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if sub != nil {
		sub.Unsubscribe()
		claim.Unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

// openResultStore picks the results archive backend. Failing to reach the
// configured database is fatal.
func openResultStore(cfg svcconfig.Config) (store.ResultStore, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.ResultsBackend {
	case svcconfig.BackendPostgres:
		pool, err := db.Connect(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		log.Printf("pg connection established successfully")
		s := store.NewPgResultStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare results table: %v", err)
		}
		return s, pool.Close

	case svcconfig.BackendMongo:
		database, err := mongodb.ConnectToDB(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Printf("mongo connection established successfully")
		s := store.NewMongoResultStore(database)
		if err := s.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to prepare results collection: %v", err)
		}
		return s, func() { mongodb.Disconnect(database) }

	case svcconfig.BackendMemory:
		return store.NewMemoryResultStore(), func() {}
	}

	log.Warnf("unknown RESULTS_BACKEND %q, using memory", cfg.ResultsBackend)
	return store.NewMemoryResultStore(), func() {}
}
