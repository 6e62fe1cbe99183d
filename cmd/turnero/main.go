package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/EneyderGarcia/turnerov2/internal/config"
	"github.com/EneyderGarcia/turnerov2/internal/httpapi"
	"github.com/EneyderGarcia/turnerov2/internal/hub"
	"github.com/EneyderGarcia/turnerov2/internal/store"
	"github.com/EneyderGarcia/turnerov2/internal/store/postgres"
	"github.com/EneyderGarcia/turnerov2/internal/telemetry"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type eventEnvelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("turnero")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	desks := postgres.NewStore(pool, postgres.Options{DeskNumberLimit: cfg.DeskNumberLimit})
	users := postgres.NewUserStore(pool, postgres.UserOptions{SessionTTL: cfg.SessionTTL})

	h := hub.New()
	handler := httpapi.NewHandler(desks, users, httpapi.Options{})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
	})

	mux := http.NewServeMux()
	mux.Handle("/", httpapi.AuthMiddleware(users, handler.Routes()))
	mux.Handle("/realtime/", sockjs.NewHandler("/realtime", sockjs.DefaultOptions, func(session sockjs.Session) {
		client := &hub.Client{ID: uuid.NewString(), Send: make(chan []byte, 16)}
		h.Register(client)
		defer h.Unregister(client)

		go func() {
			for msg := range client.Send {
				_ = session.Send(string(msg))
			}
		}()

		for {
			msg, err := session.Recv()
			if err != nil {
				return
			}
			parsed, ok := hub.ParseSubscribe([]byte(msg))
			if !ok {
				continue
			}
			if parsed.Action == "unsubscribe" {
				h.UpdateSubscription(client, hub.Subscription{})
				continue
			}
			h.UpdateSubscription(client, hub.Subscription{DeskID: parsed.DeskID})
		}
	}))

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(mux)), "turnero")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("turnero listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	after := time.Now().UTC()
	var running int32

	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for range ticker.C {
			if !atomic.CompareAndSwapInt32(&running, 0, 1) {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			events, err := desks.ListOutboxEvents(ctx, after, cfg.PollBatchSize)
			cancel()
			if err != nil {
				log.Printf("outbox poll error: %v", err)
			} else {
				for _, event := range events {
					after = event.CreatedAt
					env := eventEnvelope{Type: event.Type, Payload: event.Payload, CreatedAt: event.CreatedAt}
					payload, _ := json.Marshal(env)
					h.Broadcast(payload, extractMeta(event))
				}
			}
			atomic.StoreInt32(&running, 0)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func extractMeta(event store.OutboxEvent) hub.Subscription {
	var data map[string]interface{}
	if err := json.Unmarshal(event.Payload, &data); err != nil {
		return hub.Subscription{}
	}
	deskID, _ := data["desk_id"].(string)
	return hub.Subscription{DeskID: deskID}
}
