package main

import (
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/pwnctrl/codectrl-go/internal/collector"
	"github.com/pwnctrl/codectrl-go/internal/diag"
)

func main() {
	listen := pflag.StringP("listen", "l", "127.0.0.1:3002", "address to accept logs on")
	level := pflag.String("log-level", "info", "diagnostic log level")
	quiet := pflag.BoolP("quiet", "q", false, "do not print received logs")
	pflag.Parse()

	logger := diag.Console(diag.ParseLevel(*level))

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", *listen, err)
	}

	opts := []collector.Option{collector.WithLogger(logger)}
	if !*quiet {
		opts = append(opts, collector.WithOutput(os.Stdout))
	}
	c := collector.New(opts...)
	stop := c.Serve(lis)
	logger.Info("collector listening", slog.String("addr", lis.Addr().String()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	stop()
	unary, sessions := c.Calls()
	logger.Info("collector stopped",
		slog.Int("logs", len(c.Logs())),
		slog.Int("unary", unary),
		slog.Int("sessions", sessions))
}
