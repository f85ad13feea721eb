package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

// paramID parses a numeric path parameter. Anything else is treated as an unknown route.
func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(ctx *gin.Context, code int, message string) {
	utils.Error(ctx, http.StatusNotFound, code, message)
}

// failure logs err and answers 500, or 404 when err wraps repository.ErrNotFound.
func failure(ctx *gin.Context, code int, message string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		notFound(ctx, 40400, "not found")
		return
	}
	utils.Sugar.Errorw(message, "path", ctx.Request.URL.Path, "error", err)
	utils.Error(ctx, http.StatusInternalServerError, code, message)
}

// fieldErrors converts binding errors into a field -> message map.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["__all__"] = "invalid form payload"
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "This field is required."
		case "max":
			out[field] = "Ensure this value has at most " + fe.Param() + " characters."
		default:
			out[field] = "Enter a valid value."
		}
	}
	return out
}

// safeNext accepts only local absolute paths as post-login destinations.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return ""
}

func logIgnored(ctx *gin.Context, action string, err error) {
	utils.Sugar.Debugw(action+" ignored", "user", middleware.CurrentUsername(ctx), "target", ctx.Param("username"), "reason", err)
}
