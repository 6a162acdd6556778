package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"farmops/database"
	"farmops/router"

	cycleCtrlImp "farmops/pkg/cycle/controllerImp"
	cycleRepoImp "farmops/pkg/cycle/repositoryImp"
	cycleSvcImp "farmops/pkg/cycle/serviceImp"
	"farmops/pkg/device"
	deployRepoImp "farmops/pkg/device/repositoryImp"
	healthCtrlImp "farmops/pkg/health/controllerImp"
	"farmops/pkg/template"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if listenPort != "" {
		cfg.Port = listenPort
	}
	loc := cfg.Location()

	// 1) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 2) Device gateway (mock fallback)
	var gw device.Gateway
	if cfg.DeviceEndpoint != "" {
		gw = device.NewHTTP(cfg.DeviceEndpoint, cfg.DeviceAPIKey, cfg.DeviceTimeout)
	} else {
		log.Printf("[deploy] DEVICE_ENDPOINT not set, using in-memory mock controllers")
		gw = device.NewMock()
	}

	// 3) Program templates
	templates, err := template.LoadFromFiles(cfg.TemplatePaths...)
	if err != nil {
		log.Printf("[template] warn: %v (built-in programs only)", err)
		templates = template.NewRegistry()
	}

	// 4) Repos/Service/Controllers
	cycles := cycleRepoImp.New(db)
	deploys := deployRepoImp.New(db)
	svc := cycleSvcImp.NewCycleService(cycles, gw, deploys, cycleSvcImp.Options{
		CommitTimeout: cfg.CommitTimeout,
		DeployTimeout: cfg.DeviceTimeout,
		CommitRetries: cfg.CommitRetries,
	})
	cCtrl := cycleCtrlImp.New(svc, templates, func() time.Time { return time.Now().In(loc) })
	hCtrl := healthCtrlImp.NewHealthCtrl(db, gw)

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Logger())
	router.New(e, cCtrl, hCtrl, cfg.RequireOperator)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s (device mode %s)", cfg.Port, gw.Mode())
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
	case err := <-serverErr:
		if err != nil {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}
