package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)

	viper.SetDefault("poll.interval", time.Second)
	viper.SetDefault("poll.max_concurrency", 3)
	viper.SetDefault("poll.dispatch_timeout", time.Minute)

	viper.SetDefault("state.backend", "file")
	viper.SetDefault("file_state_dir", "~/.pytaibot/state")

	viper.SetDefault("instagram.base_url", "")
	viper.SetDefault("aviation_edge.base_url", "")

	viper.SetDefault("delivery.operator_id", "4202888410")
	viper.SetDefault("delivery.max_attempts", 5)
	viper.SetDefault("delivery.base_delay", time.Second)

	viper.SetDefault("amqp.url", "")
	viper.SetDefault("amqp.exchange", "pytaibot.events")
}
