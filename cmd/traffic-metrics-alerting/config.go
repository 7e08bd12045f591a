package main

import (
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/alerting"

	"github.com/diwise/service-chassis/pkg/infrastructure/servicerunner"
)

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	controlPort
	enableTracing

	policiesFile
	configurationFile

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode

	metricsSourceURL
	metricsSourceAPIKey
	defaultTenant
	runAtHour
)

type appConfig struct {
	alerting *alerting.Config
}

var (
	webserver  = servicerunner.WithHTTPServeMux[appConfig]
	listen     = servicerunner.WithListenAddr[appConfig]
	port       = servicerunner.WithPort[appConfig]
	pprof      = servicerunner.WithPPROF[appConfig]
	liveness   = servicerunner.WithK8SLivenessProbe[appConfig]
	readiness  = servicerunner.WithK8SReadinessProbes[appConfig]
	tracing    = servicerunner.WithTracing[appConfig]
	muxinit    = servicerunner.OnMuxInit[appConfig]
	oninit     = servicerunner.OnInit[appConfig]
	onstarting = servicerunner.OnStarting[appConfig]
	onshutdown = servicerunner.OnShutdown[appConfig]
)
