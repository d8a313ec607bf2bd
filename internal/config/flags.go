package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line into a partial config.
//
// Flags:
//
//	-backend remote store backend (drive|http)
//	-a remote REST document service base URL
//	-token pre-issued bearer token for the REST service
//	-d database DSN
//	-c/-config json file path with configs
//	-modules comma separated module keys
//	-modules-dir directory watched for module documents
//	-request-timeout per-call remote timeout (e.g. "30s")
//	-drain-interval upload drain period
//	-poll-interval remote poll period
//	-probe-url connectivity probe URL
//	-keep-versions remote versions retained per module
//	-max-retries default retry budget
//	-metrics-address metrics endpoint address in format [host]:[port]
//	-log-file client log file path
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("life-sync", flag.ContinueOnError)

	var metricsAddress NetAddress
	var backend, httpAddress, accessToken string
	var databaseDSN, jsonConfigPath string
	var modules, modulesDir, probeURL, logFile string
	var requestTimeout, drainInterval, pollInterval time.Duration
	var keepVersions, maxRetries int

	fs.StringVar(&backend, "backend", "", "Remote store backend (drive|http)")
	fs.StringVar(&httpAddress, "a", "", "REST document service base URL")
	fs.StringVar(&accessToken, "token", "", "Bearer token for the REST document service")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&modules, "modules", "", "Comma separated module keys")
	fs.StringVar(&modulesDir, "modules-dir", "", "Directory watched for module documents")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Per-call remote timeout (e.g., 30s)")
	fs.DurationVar(&drainInterval, "drain-interval", 0, "Upload drain period (e.g., 30s)")
	fs.DurationVar(&pollInterval, "poll-interval", 0, "Remote poll period (e.g., 2m)")
	fs.StringVar(&probeURL, "probe-url", "", "Connectivity probe URL")
	fs.IntVar(&keepVersions, "keep-versions", 0, "Remote versions retained per module")
	fs.IntVar(&maxRetries, "max-retries", 0, "Default retry budget")
	fs.Var(&metricsAddress, "metrics-address", "Metrics endpoint host:port")
	fs.StringVar(&logFile, "log-file", "", "Client log file path")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Modules: splitList(modules),
			LogFile: logFile,
		},
		Adapter: Adapter{
			Backend:        backend,
			HTTPAddress:    httpAddress,
			AccessToken:    accessToken,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			DrainInterval: drainInterval,
			PollInterval:  pollInterval,
			ProbeURL:      probeURL,
			ModulesDir:    modulesDir,
		},
		Sync: Sync{
			KeepVersions: keepVersions,
			MaxRetries:   maxRetries,
		},
		Metrics: Metrics{
			Address: metricsAddress.String(),
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
