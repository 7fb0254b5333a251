package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/astroselling/falabella-sdk/internal/infrastructure/config"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/logger"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/telemetry"
)

// observability owns the telemetry providers of one feedsync process
type observability struct {
	tracer   *telemetry.TracerProvider
	meter    *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
}

// setupObservability starts tracing, metrics, the logs bridge and profiling
// as configured. The returned logger tees into the logs bridge when enabled.
func setupObservability(ctx context.Context, cfg *config.Config, log *zap.Logger) (*observability, *zap.Logger, error) {
	t := cfg.Telemetry
	o := &observability{}

	var err error
	o.tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		SamplingRatio:     t.SamplingRatio,
		ServiceName:       t.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		return nil, log, err
	}

	o.meter, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           t.MetricsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ExportInterval:    t.MetricsExportInterval,
		ServiceName:       t.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		return o, log, err
	}

	o.logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           t.LogsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ServiceName:       t.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		return o, log, err
	}
	if o.logs.IsEnabled() {
		log = telemetry.BridgeLogger(log, telemetry.NewZapOTELCore(o.logs, t.ServiceName, logger.ParseLevel(t.LogsLevel)))
	}

	p := t.Profiling
	o.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              p.Enabled,
		ServerAddress:        p.ServerAddress,
		ApplicationName:      p.ApplicationName,
		BasicAuthUser:        p.BasicAuthUser,
		BasicAuthPassword:    p.BasicAuthPassword,
		ProfileTypes:         p.ProfileTypes,
		Tags:                 map[string]string{"env": cfg.App.Env, "country": cfg.Falabella.Country},
		MutexProfileFraction: p.MutexProfileFraction,
		BlockProfileRate:     p.BlockProfileRate,
	}, log)
	if err != nil {
		return o, log, err
	}
	if p.SpanProfiles && o.profiler.IsEnabled() {
		if err := o.tracer.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}
	return o, log, nil
}

// shutdown flushes every started provider within timeout
func (o *observability) shutdown(timeout time.Duration) error {
	if o == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error
	if o.profiler != nil {
		err = multierr.Append(err, o.profiler.Stop())
	}
	if o.logs != nil {
		err = multierr.Append(err, o.logs.Shutdown(ctx))
	}
	if o.meter != nil {
		err = multierr.Append(err, o.meter.Shutdown(ctx))
	}
	if o.tracer != nil {
		err = multierr.Append(err, o.tracer.Shutdown(ctx))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("telemetry shutdown timed out")
	}
	return err
}
