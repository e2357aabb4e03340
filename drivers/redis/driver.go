// Package redis registers the "redis" lookup driver: a query-style driver
// whose Find key is a literal Redis key to GET.
//
// Grounded on data/redis/driver.go's Connect/Close/Ping shape (same
// redis.NewClient options, same ping-before-return contract). The driver
// records no metrics of its own; open/find counts for it are recorded by
// core through core.Metrics like those of every other driver.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"

	goredis "github.com/redis/go-redis/v9"
)

// Config mirrors config.Redis's connection fields.
type Config struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	DialTimeout  int // seconds
}

var activeConfig Config

// Configure sets the connection parameters used by every subsequent Open.
func Configure(cfg Config) { activeConfig = cfg }

type redisDriver struct{}

func (d *redisDriver) Open(ctx context.Context, filename string) (any, error) {
	if activeConfig.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         activeConfig.Addr,
		Username:     activeConfig.Username,
		Password:     activeConfig.Password,
		DB:           activeConfig.DB,
		ReadTimeout:  time.Duration(activeConfig.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(activeConfig.WriteTimeout) * time.Second,
		DialTimeout:  time.Duration(activeConfig.DialTimeout) * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}
	return client, nil
}

func (d *redisDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }

func (d *redisDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	client, ok := args.Handle.(*goredis.Client)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("redis: invalid handle type")}
	}
	val, err := client.Get(ctx, args.Key).Result()
	switch {
	case err == goredis.Nil:
		return driver.FindReply{Result: driver.Fail, TTL: driver.ForeverTTL}
	case err != nil:
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("redis: GET %q: %w", args.Key, err)}
	default:
		return driver.FindReply{Result: driver.OK, Payload: val, TTL: driver.ForeverTTL}
	}
}

func (d *redisDriver) Close(handle any) error {
	client, ok := handle.(*goredis.Client)
	if !ok {
		return fmt.Errorf("redis: invalid connection type, expected *redis.Client")
	}
	return client.Close()
}

func (d *redisDriver) Tidy() {}

func (d *redisDriver) Quote(s string) (string, bool) { return "", false }

func init() {
	registry.Register(registry.Descriptor{
		Name:         "redis",
		Style:        driver.StyleQuery,
		Capabilities: driver.Capabilities{},
		Driver:       &redisDriver{},
	})
}
