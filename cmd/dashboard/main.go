package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nergy-se/dashboard/pkg/api/v1/config"
	"github.com/nergy-se/dashboard/pkg/app"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()
	err := Run(ctx)
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	conf, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	lvl, err := conf.Level()
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.Debugf("config listen=%s mqtt=%q topic=%s sessionTTL=%s", conf.Listen, conf.MQTTListen, conf.MQTTTopic, conf.SessionTTL)

	dashboard := app.New(conf)
	if err := dashboard.Start(ctx); err != nil {
		return err
	}
	dashboard.Wait()
	return nil
}
