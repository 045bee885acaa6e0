package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/pwnctrl/codectrl-go/configs"
	"github.com/pwnctrl/codectrl-go/internal/diag"
	"github.com/pwnctrl/codectrl-go/logger"
)

func main() {
	var (
		configPath = pflag.String("config", "", "YAML config file; CODECTRL_* variables are used when empty")
		host       = pflag.String("host", "", "collector host")
		port       = pflag.Int("port", 0, "collector port")
		surround   = pflag.Uint32("surround", 0, "source lines captured around the call site")
		message    = pflag.StringP("message", "m", "hello from codectrl-log", "message to send")
		batch      = pflag.IntP("batch", "n", 0, "send the message n times in one stream")
		details    = pflag.Bool("details", false, "print the collector details and exit")
		level      = pflag.String("log-level", "warn", "diagnostic log level")
	)
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *host != "" {
		if err := cfg.SetHost(*host); err != nil {
			log.Fatalf("invalid host: %v", err)
		}
	}
	if *port != 0 {
		if err := cfg.SetPort(*port); err != nil {
			log.Fatalf("invalid port: %v", err)
		}
	}
	if pflag.CommandLine.Changed("surround") {
		cfg.SetSurround(*surround)
	}

	l := logger.New(cfg, logger.WithDiagnostics(diag.Console(diag.ParseLevel(*level))))
	ctx := context.Background()

	switch {
	case *details:
		d, err := l.ServerDetails(ctx)
		if err != nil {
			log.Fatalf("failed to get server details: %v", err)
		}
		fmt.Printf("host=%s port=%d uptime=%ds auth=%t\n", d.Host, d.Port, d.Uptime, d.RequiresAuthentication)
	case *batch > 0:
		b := l.StartBatch()
		for i := 0; i < *batch; i++ {
			b.AddLog(fmt.Sprintf("%s #%d", *message, i+1))
		}
		res, err := b.Build().SendBatch(ctx)
		if err != nil {
			log.Fatalf("failed to send batch: %v", err)
		}
		if _, ok := res.Unwrap(); !ok {
			os.Exit(1)
		}
		fmt.Printf("sent %d logs to %s\n", *batch, cfg.Address())
	default:
		res, err := l.Log(ctx, *message)
		if err != nil {
			log.Fatalf("failed to send log: %v", err)
		}
		reply, ok := res.Unwrap()
		if !ok {
			os.Exit(1)
		}
		fmt.Printf("%s: %s\n", reply.Status, reply.Message)
	}
}

func loadConfig(path string) (*configs.CodeCTRL, error) {
	if path != "" {
		return configs.FromFile(path)
	}
	return configs.FromEnv()
}
