package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultIdleMinutes = 120

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 5m", a.EvictIdleSessions)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

func (a *Application) idleWindow() time.Duration {
	minutes := a.appConfig.Cart.IdleMinutes
	if minutes <= 0 {
		minutes = defaultIdleMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// EvictIdleSessions carts and store views unused for the idle window are
// treated as ended sessions and dropped
func (a *Application) EvictIdleSessions() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ttl := a.idleWindow()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	carts := 0
	if a.carts != nil {
		carts = a.carts.EvictIdle(ctx, ttl)
	}
	views := 0
	if a.views != nil {
		views = a.views.EvictIdle(ttl)
	}
	if carts > 0 || views > 0 {
		zap.L().Info("idle sessions evicted", zap.Int("carts", carts), zap.Int("views", views))
	}
}
