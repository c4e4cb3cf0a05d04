package main

import "time"

type Config struct {
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	SubscriberBufferSize int           `env:"SUBSCRIBER_BUFFER_SIZE,default=64"`
	TokenKey             string        `env:"TOKEN_KEY,required=true"`
	TokenDuration        time.Duration `env:"TOKEN_DURATION,default=24h"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	HealthInterval       time.Duration `env:"HEALTH_INTERVAL,default=5s"`
	GCInterval           time.Duration `env:"GC_INTERVAL,default=5m"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}
