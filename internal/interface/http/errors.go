package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-ddd-scheduler/pkg/response"
	"github.com/oksasatya/go-ddd-scheduler/pkg/validation"
)

type errorBody struct {
	Kind    apperror.Kind     `json:"kind"`
	Details map[string]string `json:"details,omitempty"`
	Debug   any               `json:"debug,omitempty"`
}

// ErrorWriter renders service errors. In production only the status text is
// sent; otherwise the detailed message and debug payload are included.
type ErrorWriter struct {
	Logger     *logrus.Logger
	Production bool
}

func (w ErrorWriter) Write(c *gin.Context, err error) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		ae = apperror.Internal(0, err)
	}

	fields := logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
		"kind":       ae.Kind,
	}
	if ae.Status() >= 500 {
		w.Logger.WithError(err).WithFields(fields).Error("request failed")
	} else {
		w.Logger.WithFields(fields).Debug(ae.Text())
	}

	body := errorBody{Kind: ae.Kind}
	msg := ae.StatusText()
	if !w.Production {
		msg = ae.Text()
		body.Details = ae.Details
		body.Debug = ae.Debug
	}
	response.Error[any](c, ae.Status(), msg, body)
}

// BadRequest reports a malformed request that never reached a service.
func (w ErrorWriter) BadRequest(c *gin.Context, err error) {
	e := apperror.BadRequest("")
	if err != nil {
		e.Details = validation.ToDetails(err)
	}
	w.Write(c, e)
}

type idParam struct {
	ID string `uri:"id" binding:"required,objectid"`
}

// bindID extracts and checks the :id path parameter.
func (w ErrorWriter) bindID(c *gin.Context) (string, bool) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		w.BadRequest(c, err)
		return "", false
	}
	return entity.NormalizeID(p.ID), true
}

// bindBody decodes a JSON object body. An empty body is an empty record.
func (w ErrorWriter) bindBody(c *gin.Context) (map[string]any, bool) {
	raw := map[string]any{}
	if err := c.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
		w.BadRequest(c, err)
		return nil, false
	}
	return raw, true
}
