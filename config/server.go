package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Server http server config struct
type Server struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Metrics      bool
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:         getStringOrDefault(v, "server.host", "127.0.0.1"),
		Port:         getIntOrDefault(v, "server.port", 8080),
		ReadTimeout:  getDurationOrDefault(v, "server.read_timeout", 10*time.Second),
		WriteTimeout: getDurationOrDefault(v, "server.write_timeout", 30*time.Second),
		Metrics:      getBoolOrDefault(v, "server.metrics", true),
	}
}
