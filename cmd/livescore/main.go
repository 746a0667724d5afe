// Command livescore serves a simulated match score as a Server-Sent Events
// stream on GET /events.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/livescore/config"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (searched in standard locations when empty)")
	envFile := flag.String("env", "", "path to a .env file")
	flag.Parse()

	if err := run(context.Background(), *configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, envFile string) error {
	var cfg AppConfig
	opts := []config.LoaderOption{config.WithEnvPrefix("LIVESCORE")}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}

	svc, err := newService(&cfg)
	if err != nil {
		return err
	}
	return svc.App.Run(ctx)
}
