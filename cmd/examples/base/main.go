package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/pwnctrl/codectrl-go/configs"
	"github.com/pwnctrl/codectrl-go/internal/collector"
	"github.com/pwnctrl/codectrl-go/logger"
)

type user struct {
	Id   string `json:"id"`
	Body string `json:"body"`
}

func main() {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	c := collector.New()
	stop := c.Serve(lis)
	defer stop()

	cfg, err := configs.NewCodeCTRL("127.0.0.1", lis.Addr().(*net.TCPAddr).Port)
	if err != nil {
		log.Fatalf("failed to create codectrl config: %v", err)
	}
	cfg.SetTimeout(time.Second * 5)

	l := logger.New(cfg)
	ctx := context.Background()

	if err := handle(ctx, l, 1); err != nil {
		log.Fatalf("failed to send log: %v", err)
	}

	b := l.StartBatch(logger.WithSurround(1))
	for i := 0; i < 3; i++ {
		b.AddLog(user{Id: fmt.Sprintf("%d", i), Body: fmt.Sprintf("body %d", i)})
	}
	b.AddLogIf(func() bool { return false }, "never sent")

	res, err := b.Build().SendBatch(ctx)
	if err != nil {
		log.Fatalf("failed to send batch: %v", err)
	}
	if _, ok := res.Unwrap(); !ok {
		log.Fatalf("collector rejected the batch")
	}

	for _, entry := range c.Logs() {
		last := entry.Stack[len(entry.Stack)-1]
		fmt.Printf("%s %s:%d %s\n", entry.UUID, last.Name, entry.LineNumber, entry.Message)
	}
}

func handle(ctx context.Context, l *logger.Logger, id int) error {
	return load(ctx, l, id)
}

func load(ctx context.Context, l *logger.Logger, id int) error {
	res, err := l.Log(ctx, fmt.Sprintf("loading user %d", id))
	if err != nil {
		return err
	}
	if _, ok := res.Unwrap(); !ok {
		return fmt.Errorf("collector rejected log for user %d", id)
	}
	return nil
}
