package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-widgetgen/internal/storage"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/validation"
)

func (s *Server) handleExamples(c *gin.Context) {
	examples, err := genservice.Examples(c.Request.Context(), s.svc)
	if err != nil {
		s.log.WithError(err).Warn("examples unavailable, serving fallback", nil)
	}
	c.JSON(http.StatusOK, genservice.ExamplesResponse{Examples: examples})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req genservice.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		fail(c, http.StatusUnprocessableEntity, "prompt is required")
		return
	}

	resp, err := s.svc.Generate(c.Request.Context(), req)
	if err != nil {
		s.log.WithError(err).Error("generate widget failed", nil)
		fail(c, http.StatusInternalServerError, "Failed to generate widget: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleEdit(c *gin.Context) {
	var req genservice.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		fail(c, http.StatusUnprocessableEntity, "edit_prompt is required")
		return
	}

	resp, err := s.svc.Edit(c.Request.Context(), req)
	if err != nil {
		s.log.WithError(err).Error("edit widget failed", map[string]any{"widget_id": req.WidgetID})
		fail(c, http.StatusInternalServerError, "Failed to edit widget: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExport(c *gin.Context) {
	var resp genservice.Response
	if err := c.ShouldBindJSON(&resp); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, genservice.Export(resp))
}

func (s *Server) handleDownload(c *gin.Context) {
	if s.store == nil {
		fail(c, http.StatusNotFound, "downloads are not enabled")
		return
	}
	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		fail(c, http.StatusNotFound, "widget not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("load widget failed", map[string]any{"widget_id": c.Param("id")})
		fail(c, http.StatusInternalServerError, "Failed to load widget")
		return
	}
	c.JSON(http.StatusOK, genservice.Export(rec.Response()))
}

func (s *Server) handleValidate(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, validation.ValidateSpec(raw))
}
