package config

import (
    "context"
    "crypto/tls"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds the redis client shared by the allocation rate
// limiter and the availability response cache. Connection parameters
// come from the environment:
//
//   REDIS_ADDR     host:port (default localhost:6379)
//   REDIS_PASSWORD optional password
//   REDIS_DB       database number (default 0)
//   REDIS_TLS      enable TLS when "true" or "1"
//
// Redis is an accelerator here, never a correctness dependency: when
// the ping fails the function returns nil and both middlewares degrade
// to passthrough, leaving allocation guarded by the database keys
// alone.
func NewRedisClient() *redis.Client {
    addr := envStr("REDIS_ADDR", "localhost:6379")
    db := 0
    if v := envStr("REDIS_DB", ""); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            db = n
        }
    }
    var tlsConf *tls.Config
    if envBool("REDIS_TLS", false) {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  envStr("REDIS_PASSWORD", ""),
        DB:        db,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
