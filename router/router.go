package router

import (
	"github.com/labstack/echo/v4"

	"farmops/pkg/cycle/controller"
	"farmops/pkg/middleware"
)

func New(
	e *echo.Echo,
	cycleCtrl controller.CycleController,
	healthCtrl interface{ Health(echo.Context) error },
	requireOperator bool,
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)
	e.GET("/stage-types", cycleCtrl.StageTypes)
	e.GET("/programs", cycleCtrl.Programs)

	api := e.Group("/cycles", middleware.Operator())
	api.GET("", cycleCtrl.List)
	api.GET("/:id", cycleCtrl.Get)
	api.GET("/:id/deployments", cycleCtrl.Deployments)
	api.GET("/:id/events", cycleCtrl.Events)

	// writes carry an operator into the deployment log
	gate := middleware.RequireOperator(requireOperator)
	api.POST("", cycleCtrl.Create, gate)
	api.PUT("/:id/stages/:type", cycleCtrl.SubmitStage, gate)
	return e
}
