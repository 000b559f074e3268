package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/smartdetector/iot-alerting/internal/pkg/application/alerting"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/broadcast"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/enrichment"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/health"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/notifications"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/webevents"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/settings"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/telemetry"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/router"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/tracing"
	"github.com/smartdetector/iot-alerting/internal/pkg/presentation/api"
)

const serviceName string = "iot-alerting"

func defaultFlags() flagMap {
	return flagMap{
		listenAddress:  "0.0.0.0",
		servicePort:    "8080",
		allowedOrigins: "*",

		deviceAPIKey:    "",
		jwtSecret:       "",
		debounceMinutes: strconv.Itoa(settings.DefaultDebounceMinutes),

		openAIKey:     "",
		openAIModel:   enrichment.DefaultModel,
		openAIBaseURL: "",

		rabbitMQURL:      "",
		rabbitMQExchange: "iot-alerting",

		logFile:           "",
		configurationFile: "/opt/smartdetector/config/notifications.yaml",
		envFile:           ".env",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := version()

	ctx, logger := logging.NewLogger(ctx, serviceName, serviceVersion, flags[logFile])
	logger.Info().Msg("starting up ...")

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, flags, serviceVersion, database.NewConnector(ctx, database.LoadConfigFromEnv(ctx)))
	exitIf(err, logger, "failed to set up application")

	err = a.run(ctx, net.JoinHostPort(flags[listenAddress], flags[servicePort]))
	exitIf(err, logger, "server stopped unexpectedly")

	logger.Info().Msg("shut down complete")
}

// app holds the process scoped collaborators so that they can be started and
// stopped together.
type app struct {
	router    *chi.Mux
	hub       *broadcast.Hub
	heartbeat *broadcast.Heartbeat
	events    webevents.WebEvents
	closers   []func() error
}

func newApp(ctx context.Context, flags flagMap, serviceVersion string, connect database.ConnectorFunc) (*app, error) {
	log := logging.GetFromContext(ctx)

	telemetryRepo, err := telemetry.NewTelemetryRepository(connect)
	if err != nil {
		return nil, fmt.Errorf("could not create telemetry repository: %w", err)
	}

	alertRepo, err := alerts.NewAlertRepository(connect)
	if err != nil {
		return nil, fmt.Errorf("could not create alert repository: %w", err)
	}

	settingsRepo, err := settings.NewSettingsRepository(connect)
	if err != nil {
		return nil, fmt.Errorf("could not create settings repository: %w", err)
	}

	window, err := debounceWindow(flags[debounceMinutes])
	if err != nil {
		return nil, err
	}

	a := &app{
		events: webevents.New(),
	}

	a.hub = broadcast.NewHub(a.events)
	a.heartbeat = broadcast.NewHeartbeat(a.hub, broadcast.HeartbeatInterval)

	enricher := enrichment.New(enrichment.Config{
		APIKey:  flags[openAIKey],
		Model:   flags[openAIModel],
		BaseURL: flags[openAIBaseURL],
	})
	if flags[openAIKey] == "" {
		log.Warn().Msg("no enrichment api key configured, alerts will use fallback explanations")
	}

	notifier, err := a.newNotifier(ctx, flags)
	if err != nil {
		return nil, err
	}

	pipeline := alerting.NewPipeline(telemetryRepo, alertRepo,
		alerting.WithEnricher(enricher),
		alerting.WithBroadcaster(a.hub),
		alerting.WithNotifier(notifier),
		alerting.WithDebounceWindow(window),
	)

	r := router.New(serviceName, strings.Split(flags[allowedOrigins], ",")...)

	a.router, err = api.RegisterHandlers(ctx, r,
		api.Config{
			DeviceAPIKey: flags[deviceAPIKey],
			JWTSecret:    flags[jwtSecret],
			Version:      serviceVersion,
		},
		api.Dependencies{
			Ingester:    pipeline,
			Subscribers: a.hub,
			WebEvents:   a.events,
			Liveness:    health.NewLiveness(),
			Telemetry:   telemetryRepo,
			Alerts:      alertRepo,
			Settings:    settingsRepo,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register api handlers: %w", err)
	}

	return a, nil
}

func (a *app) newNotifier(ctx context.Context, flags flagMap) (alerting.Notifier, error) {
	log := logging.GetFromContext(ctx)

	notifiers := []notifications.Notifier{}

	cfgFile, err := os.Open(flags[configurationFile])
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not open notification configuration: %w", err)
		}
		log.Info().Str("file", flags[configurationFile]).Msg("no notification configuration found")
	} else {
		defer cfgFile.Close()

		cfg, err := notifications.LoadConfiguration(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("could not load notification configuration: %w", err)
		}

		sender, err := notifications.NewCloudEventSender(cfg)
		if err != nil {
			return nil, fmt.Errorf("could not create cloud event sender: %w", err)
		}

		notifiers = append(notifiers, sender)
	}

	if flags[rabbitMQURL] != "" {
		publisher, err := notifications.NewAMQPPublisher(ctx, flags[rabbitMQURL], flags[rabbitMQExchange])
		if err != nil {
			return nil, fmt.Errorf("could not connect to message broker: %w", err)
		}

		a.closers = append(a.closers, publisher.Close)
		notifiers = append(notifiers, publisher)
	}

	return notifications.New(notifiers...), nil
}

func (a *app) run(ctx context.Context, addr string) error {
	log := logging.GetFromContext(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	a.heartbeat.Start(ctx)

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting to listen for connections")
		errs <- srv.ListenAndServe()
	}()

	var err error

	select {
	case err = <-errs:
	case <-ctx.Done():
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err = srv.Shutdown(shutdownCtx)
	}

	a.close()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (a *app) close() {
	a.heartbeat.Stop()
	a.events.Shutdown()

	for _, c := range a.closers {
		c()
	}
}

func debounceWindow(minutes string) (time.Duration, error) {
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("invalid debounce minutes %q", minutes)
	}
	return time.Duration(m) * time.Minute, nil
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	fromCmdLine := flagMap{}

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			fromCmdLine[f] = value
			return nil
		}
	}

	flag.Func("env", "a file with environment variables", apply(envFile))
	flag.Func("config", "notification subscribers configuration file", apply(configurationFile))
	flag.Func("port", "the port to listen on", apply(servicePort))
	flag.Parse()

	if f, ok := fromCmdLine[envFile]; ok {
		flags[envFile] = f
	}

	// variables already set in the environment win over the ones in the file
	godotenv.Load(flags[envFile])

	// Allow environment variables to override certain defaults
	envOrDef := func(name string, f flagType) {
		if value, ok := os.LookupEnv(name); ok {
			flags[f] = value
		}
	}

	envOrDef("LISTEN_ADDRESS", listenAddress)
	envOrDef("SERVICE_PORT", servicePort)
	envOrDef("ALLOWED_ORIGINS", allowedOrigins)

	envOrDef("DEVICE_API_KEY", deviceAPIKey)
	envOrDef("JWT_SECRET", jwtSecret)
	envOrDef("DEBOUNCE_MINUTES", debounceMinutes)

	envOrDef("OPENAI_API_KEY", openAIKey)
	envOrDef("OPENAI_MODEL", openAIModel)
	envOrDef("OPENAI_BASE_URL", openAIBaseURL)

	envOrDef("RABBITMQ_URL", rabbitMQURL)
	envOrDef("RABBITMQ_EXCHANGE", rabbitMQExchange)

	envOrDef("LOG_FILE", logFile)
	envOrDef("CONFIG_FILE", configurationFile)

	// command line arguments override defaults and environment variables
	for f, value := range fromCmdLine {
		flags[f] = value
	}

	return ctx, flags
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	buildSettings := buildInfo.Settings
	infoMap := map[string]string{}
	for _, s := range buildSettings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Error().Err(err).Msg(msg)
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
