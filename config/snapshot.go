package config

import (
	"time"

	"github.com/spf13/viper"
)

// Snapshot selects where "last view" snapshots are persisted.
type Snapshot struct {
	Driver string  `json:"driver" yaml:"driver" validate:"oneof=memory redis badger"`
	Redis  *Redis  `json:"redis" yaml:"redis"`
	Badger *Badger `json:"badger" yaml:"badger"`
}

// Redis redis config struct
type Redis struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	Db           int           `json:"db" yaml:"db"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	TTL          time.Duration `json:"ttl" yaml:"ttl"`
}

// Badger badger config struct
type Badger struct {
	Path     string `json:"path" yaml:"path"`
	InMemory bool   `json:"in_memory" yaml:"in_memory"`
}

func getSnapshotConfig(v *viper.Viper) *Snapshot {
	return &Snapshot{
		Driver: getStringOrDefault(v, "snapshot.driver", "memory"),
		Redis:  getRedisConfigs(v),
		Badger: &Badger{
			Path:     getStringOrDefault(v, "snapshot.badger.path", "./data/snapshots"),
			InMemory: v.GetBool("snapshot.badger.in_memory"),
		},
	}
}

// getRedisConfigs reads Redis configurations, preferring snapshot.redis.* over data.redis.*
func getRedisConfigs(v *viper.Viper) *Redis {
	prefix := "snapshot.redis"
	if !v.IsSet(prefix) {
		prefix = "data.redis"
	}
	return &Redis{
		Addr:         getStringOrDefault(v, prefix+".addr", "127.0.0.1:6379"),
		Username:     v.GetString(prefix + ".username"),
		Password:     v.GetString(prefix + ".password"),
		Db:           v.GetInt(prefix + ".db"),
		ReadTimeout:  v.GetDuration(prefix + ".read_timeout"),
		WriteTimeout: v.GetDuration(prefix + ".write_timeout"),
		DialTimeout:  v.GetDuration(prefix + ".dial_timeout"),
		TTL:          v.GetDuration(prefix + ".ttl"),
	}
}
