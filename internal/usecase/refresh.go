package usecase

import (
	"context"
	"fmt"
	"time"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/domain/repository"
	applogger "BiasDesk/pkg/logger"
	"BiasDesk/pkg/util"
)

// BiasRefresher periodically derives the BTC bias from the upstream signal
// and applies it to the store (SPX mirrors BTC inside the store). Refresh
// ticks are independent of request traffic; a failed tick is retried a
// bounded number of times with a fixed delay, then abandoned until the next
// tick.
type BiasRefresher struct {
	source   repository.MarketSource
	store    repository.BiasStore
	interval time.Duration
	retryMax int
	delay    time.Duration
	logger   *applogger.Logger
	metrics  repository.Metrics

	cancel context.CancelFunc
	done   chan struct{}
}

func NewBiasRefresher(
	source repository.MarketSource,
	store repository.BiasStore,
	interval time.Duration,
	retryMax int,
	delay time.Duration,
	l *applogger.Logger,
	m repository.Metrics,
) *BiasRefresher {
	return &BiasRefresher{
		source:   source,
		store:    store,
		interval: interval,
		retryMax: retryMax,
		delay:    delay,
		logger:   l,
		metrics:  m,
	}
}

// Start refreshes once immediately, then on every tick until Stop.
func (r *BiasRefresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)

		r.RefreshOnce(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RefreshOnce(ctx)
			}
		}
	}()
}

// Stop cancels the refresh loop and waits for it to exit.
func (r *BiasRefresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.done != nil {
		<-r.done
	}
}

// RefreshOnce runs a single refresh attempt cycle. A fetch whose signal
// fields all defaulted counts as a failure and goes through the retry
// policy; the store keeps its previous value when every attempt fails.
func (r *BiasRefresher) RefreshOnce(ctx context.Context) {
	snap, err := util.RetryFixed(ctx, r.retryMax+1, r.delay, func() (models.MarketSnapshot, error) {
		s := r.source.FetchSnapshot(ctx)
		if s.Ratio == nil && s.SlowMA == nil && s.Price == nil {
			return s, fmt.Errorf("snapshot fully defaulted, upstream likely down")
		}
		return s, nil
	})
	if err != nil {
		r.metrics.RecordBiasRefresh("failed")
		r.logger.Warn("bias refresh abandoned until next tick", applogger.Error(err))
		return
	}

	bias := models.BiasForSignal(snap.LastSignal)
	r.store.ApplyRefresh(bias)
	r.metrics.RecordBiasRefresh("ok")
	r.metrics.RecordBias(string(models.AssetBTC), string(bias))
	r.metrics.RecordBias(string(models.AssetSPX), string(bias))
	r.logger.Info("bias refreshed",
		applogger.String("signal", string(snap.LastSignal)),
		applogger.String("bias", string(bias)),
	)
}
