package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/alerting"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/ingest"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/runner"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/infrastructure/metricsource"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/infrastructure/router"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/infrastructure/storage"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/presentation/api"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	k8shandlers "github.com/diwise/service-chassis/pkg/infrastructure/net/http/handlers"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/servicerunner"
)

const serviceName string = "traffic-metrics-alerting"

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",
		controlPort:   "8000",
		enableTracing: "true",

		policiesFile:      "/opt/diwise/config/authz.rego",
		configurationFile: "/opt/diwise/config/alerting.yaml",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "diwise",
		dbSSLMode:  "disable",

		metricsSourceURL:    "",
		metricsSourceAPIKey: "",
		defaultTenant:       "default",
		runAtHour:           "6",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, "json")
	defer cleanup()

	cfgFile, err := os.Open(flags[configurationFile])
	exitIf(err, logger, "could not open configuration file")

	alertingCfg, err := alerting.NewConfig(cfgFile)
	exitIf(err, logger, "could not parse alerting configuration")

	policies, err := os.Open(flags[policiesFile])
	exitIf(err, logger, "unable to open opa policy file")

	runner, err := initialize(ctx, flags, alertingCfg, policies)
	exitIf(err, logger, "failed to initialize service runner")

	err = runner.Run(ctx)
	exitIf(err, logger, "failed to start service runner")
}

func initialize(ctx context.Context, flags flagMap, alertingCfg *alerting.Config, policies io.ReadCloser) (servicerunner.Runner[appConfig], error) {
	defer policies.Close()

	log := logging.GetFromContext(ctx)

	probes := map[string]k8shandlers.ServiceProber{
		"rabbitmq": func(context.Context) (string, error) { return "ok", nil },
		"postgres": func(context.Context) (string, error) { return "ok", nil },
	}

	s, err := storage.New(ctx, storage.NewConfig(
		flags[dbHost], flags[dbUser], flags[dbPassword], flags[dbPort], flags[dbName], flags[dbSSLMode],
	))
	exitIf(err, log, "could not create or connect to database")

	messenger, err := messaging.Initialize(ctx, messaging.LoadConfiguration(ctx, serviceName, log))
	exitIf(err, log, "failed to init messenger")

	hour, err := strconv.Atoi(flags[runAtHour])
	exitIf(err, log, "invalid run hour")

	var alertSvc alerting.AlertService
	var ingestSvc ingest.IngestService
	var evaluator runner.Runner
	var schedule runner.Scheduler

	cfg := appConfig{alerting: alertingCfg}

	_, instance := servicerunner.New(ctx, cfg,
		webserver("control", listen(flags[listenAddress]), port(flags[controlPort]),
			pprof(), liveness(func() error { return nil }), readiness(probes),
		),
		webserver("public", listen(flags[listenAddress]), port(flags[servicePort]), tracing(flags[enableTracing] == "true"),
			muxinit(func(ctx context.Context, identifier string, port string, appCfg *appConfig, handler *http.ServeMux) error {
				mux, err := api.RegisterHandlers(ctx, router.New(serviceName), policies, alertSvc, s, ingestSvc, evaluator)
				if err != nil {
					return err
				}

				handler.Handle("/", mux)
				return nil
			}),
		),
		oninit(func(ctx context.Context, appCfg *appConfig) error {
			log.Debug("initializing servicerunner")

			alertSvc = alerting.NewAlertService(s, messenger)
			ingestSvc = ingest.New(
				metricsource.New(flags[metricsSourceURL], flags[metricsSourceAPIKey], flags[defaultTenant]),
				s,
			)
			evaluator = runner.New(s, alertSvc, messenger, appCfg.alerting)
			schedule = runner.NewScheduler(evaluator, hour)

			return nil
		}),
		onstarting(func(ctx context.Context, appCfg *appConfig) (err error) {
			log.Debug("starting servicerunner")

			err = s.CreateTables(ctx)
			if err != nil {
				return
			}

			messenger.Start()

			err = messenger.RegisterTopicMessageHandler("measurement-received", ingest.NewMeasurementReceivedHandler(messenger, ingestSvc))
			if err != nil {
				return
			}

			schedule.Start(ctx)

			return nil
		}),
		onshutdown(func(ctx context.Context, appCfg *appConfig) error {
			log.Debug("shutdown servicerunner")

			schedule.Stop(ctx)
			messenger.Close()
			s.Close()

			return nil
		}),
	)

	return instance, nil
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault

	flags[listenAddress] = envOrDef(ctx, "LISTEN_ADDRESS", flags[listenAddress])
	flags[controlPort] = envOrDef(ctx, "CONTROL_PORT", flags[controlPort])
	flags[servicePort] = envOrDef(ctx, "SERVICE_PORT", flags[servicePort])

	flags[policiesFile] = envOrDef(ctx, "POLICIES_FILE", flags[policiesFile])

	flags[dbHost] = envOrDef(ctx, "POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef(ctx, "POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef(ctx, "POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef(ctx, "POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef(ctx, "POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef(ctx, "POSTGRES_SSLMODE", flags[dbSSLMode])
	flags[enableTracing] = envOrDef(ctx, "ENABLE_TRACING", flags[enableTracing])

	flags[metricsSourceURL] = envOrDef(ctx, "METRICS_SOURCE_URL", flags[metricsSourceURL])
	flags[metricsSourceAPIKey] = envOrDef(ctx, "METRICS_SOURCE_API_KEY", flags[metricsSourceAPIKey])
	flags[defaultTenant] = envOrDef(ctx, "DEFAULT_TENANT", flags[defaultTenant])
	flags[runAtHour] = envOrDef(ctx, "RUN_AT_HOUR", flags[runAtHour])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("policies", "an authorization policy file", apply(policiesFile))
	flag.Func("config", "alerting configuration file", apply(configurationFile))
	flag.Parse()

	return ctx, flags
}

func exitIf(err error, logger *slog.Logger, msg string, args ...any) {
	if err != nil {
		logger.With(args...).Error(msg, "err", err.Error())
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
