package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/catalog"
)

type (
	catalogApi struct {
		svc *catalog.Service
	}

	courseResponse struct {
		Success bool           `json:"success"`
		Course  catalog.Course `json:"course"`
	}

	lessonResponse struct {
		Success bool           `json:"success"`
		Lesson  catalog.Lesson `json:"lesson"`
	}
)

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service) {
	api := catalogApi{svc: svc}

	ag := g.Group("", jwt, principalMiddleware())

	cg := ag.Group("/categories")
	cg.GET("", api.queryCategories)
	cg.POST("", api.createCategory)
	cg.DELETE("/:id", api.destroyCategory)

	crg := ag.Group("/courses")
	crg.GET("", api.queryCourses)
	crg.POST("", api.createCourse)
	crg.GET("/:id", api.retrieveCourse)
	crg.PUT("/:id", api.updateCourse)
	crg.DELETE("/:id", api.destroyCourse)
	crg.GET("/:id/lessons", api.queryLessons)
	crg.POST("/:id/lessons", api.createLesson)

	lg := ag.Group("/lessons")
	lg.PUT("/:id", api.updateLesson)
	lg.DELETE("/:id", api.destroyLesson)
}

// Handlers

func (api *catalogApi) queryCategories(ctx echo.Context) error {
	cats, err := api.svc.QueryCategories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	if cats == nil {
		cats = []catalog.Category{}
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *catalogApi) createCategory(ctx echo.Context) error {
	var data catalog.NewCategory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategory")
	}

	cat, err := api.svc.CreateCategory(ctx.Request().Context(), getContextPrincipal(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cat)
}

func (api *catalogApi) destroyCategory(ctx echo.Context) error {
	err := api.svc.DeleteCategory(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *catalogApi) queryCourses(ctx echo.Context) error {
	var filter catalog.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	courses, err := api.svc.QueryCourses(ctx.Request().Context(), getContextPrincipal(ctx), &filter)
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) createCourse(ctx echo.Context) error {
	var data catalog.CourseInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CourseInput")
	}

	crs, err := api.svc.SubmitCourse(ctx.Request().Context(), getContextPrincipal(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, courseResponse{Success: true, Course: crs})
}

func (api *catalogApi) retrieveCourse(ctx echo.Context) error {
	crs, err := api.svc.GetCourse(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *catalogApi) updateCourse(ctx echo.Context) error {
	var data catalog.CourseInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CourseInput")
	}

	crs, err := api.svc.SubmitCourse(ctx.Request().Context(), getContextPrincipal(ctx), data, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courseResponse{Success: true, Course: crs})
}

func (api *catalogApi) destroyCourse(ctx echo.Context) error {
	err := api.svc.RemoveCourse(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *catalogApi) queryLessons(ctx echo.Context) error {
	lessons, err := api.svc.QueryCourseLessons(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	if lessons == nil {
		lessons = []catalog.Lesson{}
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *catalogApi) createLesson(ctx echo.Context) error {
	var data catalog.LessonInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LessonInput")
	}

	les, err := api.svc.SubmitLesson(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lessonResponse{Success: true, Lesson: les})
}

func (api *catalogApi) updateLesson(ctx echo.Context) error {
	var data catalog.LessonInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LessonInput")
	}

	les, err := api.svc.SubmitLesson(ctx.Request().Context(), getContextPrincipal(ctx), "", data, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lessonResponse{Success: true, Lesson: les})
}

func (api *catalogApi) destroyLesson(ctx echo.Context) error {
	err := api.svc.RemoveLesson(ctx.Request().Context(), getContextPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
