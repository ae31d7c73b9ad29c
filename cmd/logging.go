package cmd

import (
	"github.com/achilleasa/autolod/config"
	"github.com/achilleasa/autolod/log"
	"github.com/urfave/cli"
)

var logger = log.New("autolod")

// loadConfig reads the configuration file selected by the global flags and
// applies its log level. The -v and -vv flags take precedence.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if addr := ctx.GlobalString("metrics-addr"); addr != "" {
		cfg.MetricsAddr = addr
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	log.SetLevel(level)
	setupLogging(ctx)
	return cfg, nil
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
