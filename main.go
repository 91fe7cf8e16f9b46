/*
Lumen testbed: renders a small lit scene with the engine package.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/config"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/testbed"
)

const configPath = "config.toml"

func main() {
	if err := run(); err != nil {
		core.LogError("%+v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := core.SetLogLevel(cfg.Application.LogLevel); err != nil {
		return err
	}

	e, err := engine.New(cfg, testbed.NewTestGame())
	if err != nil {
		return err
	}

	if err := e.Initialize(); err != nil {
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	go func() {
		sig, ok := <-sigCh
		if ok {
			core.LogInfo("received %s, closing", sig)
			e.RequestClose()
		}
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
