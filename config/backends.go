// Backend config sub-structs, grounded on data/config/*.go's per-backend
// viper readers: one struct and one getXConfig(v) function per driver,
// simplified from data/config/mongodb.go's master/slave-aware MongoDB
// shape to a single URI (this module's mongodb driver has no replica
// routing — see drivers/mongodb's doc comment for why).
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Logger mirrors data/config's logger config shape, trimmed to the
// fields logging.Logger actually consumes.
type Logger struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
	Sentry string `yaml:"sentry_dsn" json:"sentry_dsn"`
}

func getLoggerConfig(v *viper.Viper) Logger {
	return Logger{
		Level:  v.GetString("logger.level"),
		Format: v.GetString("logger.format"),
		Output: v.GetString("logger.output"),
		Sentry: v.GetString("logger.sentry_dsn"),
	}
}

// DSNNode is a generic database/sql connection-pool config, grounded on
// data/config/database.go's DBNode.
type DSNNode struct {
	Source          string        `yaml:"source" json:"source"`
	MaxIdleConn     int           `yaml:"max_idle_conn" json:"max_idle_conn"`
	MaxOpenConn     int           `yaml:"max_open_conn" json:"max_open_conn"`
	ConnMaxLifeTime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
}

func getDSNNode(v *viper.Viper, name string) DSNNode {
	prefix := name + "."
	return DSNNode{
		Source:          v.GetString(prefix + "source"),
		MaxIdleConn:     v.GetInt(prefix + "max_idle_conn"),
		MaxOpenConn:     v.GetInt(prefix + "max_open_conn"),
		ConnMaxLifeTime: v.GetDuration(prefix + "conn_max_lifetime"),
	}
}

// Redis mirrors data/config/redis.go's Redis struct.
type Redis struct {
	Addr         string        `yaml:"addr" json:"addr"`
	Username     string        `yaml:"username" json:"username"`
	Password     string        `yaml:"password" json:"password"`
	Db           int           `yaml:"db" json:"db"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	DialTimeout  time.Duration `yaml:"dial_timeout" json:"dial_timeout"`
}

func getRedisConfig(v *viper.Viper) Redis {
	return Redis{
		Addr:         v.GetString("redis.addr"),
		Username:     v.GetString("redis.username"),
		Password:     v.GetString("redis.password"),
		Db:           v.GetInt("redis.db"),
		ReadTimeout:  v.GetDuration("redis.read_timeout"),
		WriteTimeout: v.GetDuration("redis.write_timeout"),
		DialTimeout:  v.GetDuration("redis.dial_timeout"),
	}
}

// MongoDB is simplified from data/config/mongodb.go's master/slave shape
// to a single connection URI (see drivers/mongodb's doc comment).
type MongoDB struct {
	URI string `yaml:"uri" json:"uri"`
}

func getMongoDBConfig(v *viper.Viper) MongoDB {
	return MongoDB{URI: v.GetString("mongodb.uri")}
}

// Elasticsearch mirrors data/config/elasticsearch.go's Elasticsearch struct.
type Elasticsearch struct {
	Addresses []string `yaml:"addresses" json:"addresses"`
	Username  string   `yaml:"username" json:"username"`
	Password  string   `yaml:"password" json:"password"`
}

func getElasticsearchConfig(v *viper.Viper) Elasticsearch {
	return Elasticsearch{
		Addresses: v.GetStringSlice("elasticsearch.addresses"),
		Username:  v.GetString("elasticsearch.username"),
		Password:  v.GetString("elasticsearch.password"),
	}
}
