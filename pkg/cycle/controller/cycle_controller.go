package controller

import "github.com/labstack/echo/v4"

type CycleController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Get(c echo.Context) error
	SubmitStage(c echo.Context) error
	Deployments(c echo.Context) error
	Events(c echo.Context) error
	StageTypes(c echo.Context) error
	Programs(c echo.Context) error
}
