package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/life-sync/internal/client"
	"github.com/MKhiriev/life-sync/internal/config"
	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(build)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("life-sync").Fatal().Err(err).Msg("error getting configs")
	}

	log, closer := logger.NewClientLogger("life-sync", cfg.App.LogFile)
	defer closer.Close()

	app, err := client.NewApp(context.Background(), cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
		_ = closer.Close()
		os.Exit(1)
	}
}
