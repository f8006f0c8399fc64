package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/altruvue/fundraiser-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("background startup failed", "error", err)
		os.Exit(1)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		application.Log.Info("shutdown signal received")
		application.Close()
		os.Exit(0)
	}()

	application.Log.Info("server listening", "addr", application.Cfg.HTTPAddr)
	if err := application.Run(application.Cfg.HTTPAddr); err != nil {
		application.Log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
