package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/elimu/core/completion"
)

type completionApi struct {
	svc *completion.Service
}

func registerCompletionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *completion.Service) {
	api := completionApi{svc: svc}

	ag := g.Group("", jwt, principalMiddleware())

	ag.GET("/courses/:id/completion", api.retrieveStatus)
	ag.POST("/courses/:id/complete", api.markComplete)
	ag.GET("/certificates/:id", api.retrieveCertificate)
}

// Handlers

func (api *completionApi) retrieveStatus(ctx echo.Context) error {
	status, err := api.svc.GetStatus(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, status)
}

func (api *completionApi) markComplete(ctx echo.Context) error {
	rec, err := api.svc.MarkComplete(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *completionApi) retrieveCertificate(ctx echo.Context) error {
	cert, err := api.svc.ResolveCertificate(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cert)
}
