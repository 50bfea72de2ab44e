package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nergy-se/dashboard/pkg/api/v1/config"
	"github.com/nergy-se/dashboard/pkg/dashboard"
	"github.com/nergy-se/dashboard/pkg/mqtt"
	"github.com/nergy-se/dashboard/pkg/session"
	"github.com/nergy-se/dashboard/pkg/version"
	"github.com/nergy-se/dashboard/pkg/web"
	"github.com/sirupsen/logrus"
)

type App struct {
	wg     *sync.WaitGroup
	config *config.CliConfig

	store     *session.Store
	server    *http.Server
	listener  net.Listener
	accessLog io.WriteCloser
}

func New(config *config.CliConfig) *App {
	return &App{
		wg:     &sync.WaitGroup{},
		config: config,
	}
}

func (a *App) Start(ctx context.Context) error {
	ttl, err := a.config.SessionTimeout()
	if err != nil {
		return err
	}
	logrus.Infof("starting dashboard version %s", version.Version)

	var notifier dashboard.Notifier
	if a.config.MQTTEnabled() {
		broker, err := mqtt.Start(ctx, a.wg, a.config.MQTTListen)
		if err != nil {
			return fmt.Errorf("error starting mqtt broker: %w", err)
		}
		notifier = mqtt.NewPublisher(broker, a.config.MQTTTopic)
		logrus.Infof("mqtt broker listening on %s publishing to %s/#", a.config.MQTTListen, a.config.MQTTTopic)
	}

	a.store = session.NewStore(notifier)
	a.accessLog = logrus.StandardLogger().Writer()
	a.server = &http.Server{
		Handler:           web.New(a.store, a.config.SessionCookie).Handler(a.accessLog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.listener, err = net.Listen("tcp", a.config.Listen)
	if err != nil {
		a.accessLog.Close()
		return fmt.Errorf("error listening on %s: %w", a.config.Listen, err)
	}
	logrus.Infof("dashboard listening on %s", a.listener.Addr())

	a.wg.Add(2)
	go a.serve()
	go a.sessionLoop(ctx, ttl)
	return nil
}

func (a *App) Wait() {
	a.wg.Wait()
}

// Addr is the address the http server listens on. Only valid after Start.
func (a *App) Addr() string {
	return a.listener.Addr().String()
}

func (a *App) serve() {
	defer a.wg.Done()
	err := a.server.Serve(a.listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Error(err)
	}
}

func (a *App) sessionLoop(ctx context.Context, ttl time.Duration) {
	defer a.wg.Done()
	delay := sweepInterval(ttl)
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	logrus.Debug("expiring idle sessions every ", delay)
	for {
		select {
		case <-ticker.C:
			a.expireSessions(ttl)
		case <-ctx.Done():
			a.shutdown()
			return
		}
	}
}

func (a *App) expireSessions(ttl time.Duration) {
	removed := a.store.Expire(ttl)
	if removed > 0 {
		logrus.Debugf("expired %d idle sessions, %d active", removed, a.store.Len())
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.server.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("error shutting down http server: %s", err)
	}
	a.accessLog.Close()
}
