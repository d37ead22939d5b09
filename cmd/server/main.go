package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/config"
    "github.com/gradhall/convocation-seating/internal/database"
    "github.com/gradhall/convocation-seating/internal/handler"
    "github.com/gradhall/convocation-seating/internal/queue"
    "github.com/gradhall/convocation-seating/internal/repository"
    "github.com/gradhall/convocation-seating/internal/router"
    queuepublisher "github.com/gradhall/convocation-seating/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments set env vars directly
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }

    // Redis is optional: a nil client disables rate limiting and caching.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and response cache disabled")
    }
    rlCfg := config.LoadRateLimitConfig()
    cacheCfg := config.LoadCacheConfig()

    enclosureRepo := repository.NewEnclosureRepo(db)
    allocationRepo := repository.NewAllocationRepo(db)
    reservationRepo := repository.NewReservationRepo(db)
    attendeeRepo := repository.NewAttendeeRepo(db)
    runner := repository.NewTxRunner(db)

    engine := allocator.New(enclosureRepo, allocationRepo, reservationRepo, attendeeRepo, runner, cfg.AllocMaxRetries)

    allocationHandler := &handler.AllocationHandler{
        Engine:      engine,
        Allocations: allocationRepo,
        Attendees:   attendeeRepo,
        Publish:     queuepublisher.PublishSeatAllocated,
    }
    reservationHandler := &handler.ReservationHandler{
        Engine:       engine,
        Reservations: reservationRepo,
        Topology:     enclosureRepo,
    }
    enclosureHandler := &handler.EnclosureHandler{
        Enclosures:  enclosureRepo,
        Allocations: allocationRepo,
    }

    // Background consumer feeding the analytics import log.
    go func() {
        if err := queue.StartAllocationConsumer(); err != nil {
            log.Printf("allocation-consumer: %v", err)
        }
    }()

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterAPI(e, allocationHandler, reservationHandler, enclosureHandler,
        cfg.JWTSecret, rdb, rlCfg, cacheCfg)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
