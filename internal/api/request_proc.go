package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/hackathon-teams/internal/service"
)

// ProcessRequest runs steps in order and stops at the first failure.
func ProcessRequest[T any](e echo.Context, req *T, steps ...func(echo.Context, *T) *service.Error) *service.Error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

func bind[T any](e echo.Context, req *T) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func requireQuery[T any](name string) func(echo.Context, *T) *service.Error {
	return func(e echo.Context, _ *T) *service.Error {
		if e.QueryParam(name) == "" {
			return service.NewError(service.ErrorCodeInvalidBody, fmt.Sprintf("query parameter %q is required", name))
		}
		return nil
	}
}

// requireActor checks that the authenticated user, when there is one, is the
// user the request acts as.
func requireActor[T any](actorOf func(*T) string) func(echo.Context, *T) *service.Error {
	return func(e echo.Context, req *T) *service.Error {
		subject, ok := e.Get(actorContextKey).(string)
		if !ok {
			return nil
		}
		if subject != actorOf(req) {
			return service.NewError(service.ErrorCodeForbidden, "token subject does not match the acting user")
		}
		return nil
	}
}
