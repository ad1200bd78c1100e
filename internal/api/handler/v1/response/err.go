package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericErrorText = "something went wrong, please try again later"

// Err is the single error shape of the API. JSON clients receive it as the
// body; HTML clients get a flash and a redirect when Redirect is set, the
// Template re-rendered with Data when one is set, and error.html otherwise.
type Err struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`

	Redirect string `json:"-"`
	Template string `json:"-"`
	Data     gin.H  `json:"-"`
}

func (e *Err) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.ErrorText
}

// WithRedirect makes HTML clients land on path with the message flashed.
func (e *Err) WithRedirect(path string) *Err {
	e.Redirect = path
	return e
}

// WithForm re-renders template with the submitted input.
func (e *Err) WithForm(template string, data gin.H) *Err {
	e.Template = template
	e.Data = data
	return e
}

func newErr(err error, status int, statusText string) *Err {
	text := ""
	if err != nil {
		text = err.Error()
	}

	return &Err{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     statusText,
		ErrorText:      text,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(err, http.StatusBadRequest, "validation_failed")
}

func ErrNotFound(resource, key string, value any) *Err {
	return newErr(fmt.Errorf("%s with %s %v not found", resource, key, value), http.StatusNotFound, "not_found")
}

func ErrUnauthorized(err error) *Err {
	return newErr(err, http.StatusUnauthorized, "unauthorized")
}

func ErrWrongCredentials(err error) *Err {
	return newErr(err, http.StatusUnauthorized, "unauthorized")
}

func ErrPermissionDenied(err error) *Err {
	return newErr(err, http.StatusForbidden, "forbidden")
}

func ErrConflict(err error) *Err {
	return newErr(err, http.StatusConflict, "conflict")
}

func ErrTooManyRequests() *Err {
	return newErr(errors.New("too many requests, slow down"), http.StatusTooManyRequests, "too_many_requests")
}

func ErrInternalServerError(err error) *Err {
	e := newErr(err, http.StatusInternalServerError, "internal_error")
	e.ErrorText = genericErrorText

	return e
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.Error(e.Err),
			zap.Int("status", e.HTTPStatusCode),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("request_id", requestid.Get(ctx)),
		)
	}

	if WantsJSON(ctx) {
		ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
		return
	}

	if e.Redirect != "" {
		SetFlash(ctx, FlashError, e.ErrorText)
		ctx.Redirect(http.StatusSeeOther, e.Redirect)
		ctx.Abort()
		return
	}

	if e.Template != "" {
		data := gin.H{}
		for k, v := range e.Data {
			data[k] = v
		}
		data["Error"] = e.ErrorText
		HTML(ctx, e.HTTPStatusCode, e.Template, data)
		ctx.Abort()
		return
	}

	HTML(ctx, e.HTTPStatusCode, "error.html", gin.H{
		"Title":  http.StatusText(e.HTTPStatusCode),
		"Status": e.HTTPStatusCode,
		"Error":  e.ErrorText,
	})
	ctx.Abort()
}
