// Setup wires config, logging, metrics and every driver's Configure
// func together, grounded on cmd/commands/root.go's pattern of building
// shared dependencies once and handing them to subcommands.
package commands

import (
	"fmt"

	"github.com/ncobase/lookup"
	"github.com/ncobase/lookup/config"
	"github.com/ncobase/lookup/core"
	"github.com/ncobase/lookup/drivers/elasticsearch"
	_ "github.com/ncobase/lookup/drivers/dbmfile"
	_ "github.com/ncobase/lookup/drivers/lsearch"
	"github.com/ncobase/lookup/drivers/mongodb"
	"github.com/ncobase/lookup/drivers/mysql"
	"github.com/ncobase/lookup/drivers/postgres"
	"github.com/ncobase/lookup/drivers/redis"
	_ "github.com/ncobase/lookup/drivers/sqlite"
	"github.com/ncobase/lookup/logging"
	"github.com/ncobase/lookup/metrics"
)

// buildDispatcher loads configuration, initializes logging, configures
// every network-backed driver and returns a ready-to-use Dispatcher.
// File-backed drivers (sqlite, lsearch, dbmfile) need no Configure call;
// they are linked in purely for registry side effects (blank imports
// above).
func buildDispatcher(configPath string) (*lookup.Dispatcher, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("lookupctl: loading config: %w", err)
	}

	if err := logging.Init(cfg.Logger); err != nil {
		return nil, fmt.Errorf("lookupctl: initializing logging: %w", err)
	}

	mysql.Configure(mysql.Config{
		DSN:             cfg.MySQL.Source,
		MaxIdleConn:     cfg.MySQL.MaxIdleConn,
		MaxOpenConn:     cfg.MySQL.MaxOpenConn,
		ConnMaxLifeTime: int(cfg.MySQL.ConnMaxLifeTime.Seconds()),
	})
	postgres.Configure(postgres.Config{
		DSN:             cfg.Postgres.Source,
		MaxIdleConn:     cfg.Postgres.MaxIdleConn,
		MaxOpenConn:     cfg.Postgres.MaxOpenConn,
		ConnMaxLifeTime: int(cfg.Postgres.ConnMaxLifeTime.Seconds()),
	})
	redis.Configure(redis.Config{
		Addr:         cfg.Redis.Addr,
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Db,
		ReadTimeout:  int(cfg.Redis.ReadTimeout.Seconds()),
		WriteTimeout: int(cfg.Redis.WriteTimeout.Seconds()),
		DialTimeout:  int(cfg.Redis.DialTimeout.Seconds()),
	})
	mongodb.Configure(mongodb.Config{URI: cfg.MongoDB.URI})
	elasticsearch.Configure(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})

	collector := metrics.New()
	d := lookup.New(lookup.Options{
		MaxOpenFiles: cfg.MaxOpenFiles,
		Core: core.Options{
			Logger:      logging.Std(),
			Metrics:     collector,
			StrictTaint: cfg.StrictTaint,
			Breaker:     cfg.Breaker,
		},
	})
	return d, nil
}
