package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-widgetgen/pkg/session"
)

type createSessionRequest struct {
	Prompt string `json:"prompt"`
}

const maxFormMemory = 1 << 20

var errInvalidForm = errors.New("api: invalid form body")

type changeRequest struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type editSessionRequest struct {
	Instruction string `json:"instruction"`
}

type sessionView struct {
	SessionID string           `json:"session_id"`
	WidgetID  string           `json:"widget_id"`
	State     string           `json:"state"`
	Tree      interpreter.Tree `json:"tree"`
	Notices   []string         `json:"notices,omitempty"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	id, ctrl := s.sessions.Create()
	if _, err := ctrl.Generate(c.Request.Context(), req.Prompt); err != nil {
		_ = s.sessions.Delete(id)
		if errors.Is(err, session.ErrEmptyPrompt) {
			fail(c, http.StatusUnprocessableEntity, "prompt is required")
			return
		}
		s.log.WithError(err).Error("session generate failed", map[string]any{"session_id": id})
		fail(c, http.StatusBadGateway, session.GenerateFailedNotice)
		return
	}
	s.reportSessions()

	view, err := s.view(id, ctrl)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, ctrl, ok := s.lookup(c)
	if !ok {
		return
	}
	view, err := s.view(id, ctrl)
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "session not found")
		return
	}
	s.reportSessions()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSessionHTML(c *gin.Context) {
	s.renderSession(c, vanilla.Name)
}

func (s *Server) handleSessionRender(c *gin.Context) {
	s.renderSession(c, c.Param("renderer"))
}

func (s *Server) renderSession(c *gin.Context, name string) {
	id, ctrl, ok := s.lookup(c)
	if !ok {
		return
	}
	if !s.renderers.Has(name) {
		fail(c, http.StatusNotFound, "unknown renderer "+name)
		return
	}
	tree, err := ctrl.Render()
	if err != nil {
		s.sessionError(c, err)
		return
	}

	opts := render.RenderOptions{
		Notices: ctrl.Notices(),
		Submission: render.Submission{
			ChangeURL: sessionPath(id) + "/responses",
			SubmitURL: sessionPath(id) + "/submit",
		},
	}
	if s.themes != nil {
		sel, err := s.themes.Select(c.Query("theme"), c.Query("variant"))
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		opts.Theme = render.ThemeConfig(sel, nil)
	}

	out, contentType, err := s.renderers.Render(c.Request.Context(), name, tree, opts)
	if err != nil {
		s.log.WithError(err).Error("render session failed", map[string]any{"session_id": id, "renderer": name})
		fail(c, http.StatusInternalServerError, "Failed to render widget")
		return
	}
	c.Data(http.StatusOK, contentType, out)
}

func (s *Server) handleChange(c *gin.Context) {
	id, ctrl, ok := s.lookup(c)
	if !ok {
		return
	}
	if fromForm(c) {
		if err := applyForm(c, ctrl); err != nil {
			s.sessionError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, sessionPath(id)+"/html")
		return
	}
	var req changeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if err := ctrl.Change(req.ID, req.Value); err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": ctrl.Responses()})
}

func (s *Server) handleSubmit(c *gin.Context) {
	id, ctrl, ok := s.lookup(c)
	if !ok {
		return
	}
	form := fromForm(c)
	if form {
		if err := applyForm(c, ctrl); err != nil {
			s.sessionError(c, err)
			return
		}
	}
	result, err := ctrl.Activate(c.Param("element"))
	if err != nil {
		s.sessionError(c, err)
		return
	}
	if form {
		c.Redirect(http.StatusSeeOther, sessionPath(id)+"/html")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// applyForm records the posted value of every capture control the way the
// rendered HTML form names them. Blank fields of unanswered controls are
// skipped so an untouched form does not write empty answers.
func applyForm(c *gin.Context, ctrl *session.Controller) error {
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("%w: %v", errInvalidForm, err)
	}
	tree, err := ctrl.Render()
	if err != nil {
		return err
	}
	for _, node := range tree.Nodes {
		if node.Binding.Action != interpreter.ActionCapture {
			continue
		}
		values, posted := c.Request.PostForm[node.ID]
		if !posted || len(values) == 0 {
			continue
		}
		value := values[0]
		if value == "" && !node.Answered {
			continue
		}
		if err := ctrl.Change(node.ID, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleSessionEdit(c *gin.Context) {
	id, ctrl, ok := s.lookup(c)
	if !ok {
		return
	}
	var req editSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	// The edit outlives the request: a client that disconnects while the
	// edit is pending still gets the returned widget applied to the session.
	if _, err := ctrl.Edit(context.WithoutCancel(c.Request.Context()), req.Instruction); err != nil {
		s.sessionError(c, err)
		return
	}
	view, err := s.view(id, ctrl)
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleConversation(c *gin.Context) {
	_, ctrl, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": ctrl.Conversation()})
}

func (s *Server) lookup(c *gin.Context) (string, *session.Controller, bool) {
	id := c.Param("id")
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		fail(c, http.StatusNotFound, "session not found")
		return "", nil, false
	}
	return id, ctrl, true
}

func (s *Server) view(id string, ctrl *session.Controller) (sessionView, error) {
	tree, err := ctrl.Render()
	if err != nil {
		return sessionView{}, err
	}
	view := sessionView{
		SessionID: id,
		State:     ctrl.State().String(),
		Tree:      tree,
		Notices:   ctrl.Notices(),
	}
	if resp, ok := ctrl.Response(); ok {
		view.WidgetID = resp.WidgetID
	}
	return view, nil
}

// sessionError maps controller and dispatch errors onto status codes.
func (s *Server) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyPrompt):
		fail(c, http.StatusUnprocessableEntity, "instruction is required")
	case errors.Is(err, session.ErrEditPending):
		fail(c, http.StatusConflict, "an edit is already pending")
	case errors.Is(err, session.ErrNoWidget):
		fail(c, http.StatusConflict, "session has no active widget")
	case errors.Is(err, session.ErrStaleResponse):
		fail(c, http.StatusGone, "widget was replaced while the edit was pending")
	case errors.Is(err, session.ErrEditFailed):
		s.log.WithError(err).Warn("session edit failed", nil)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"detail":  session.EditFailedNotice,
			"notices": []string{session.EditFailedNotice},
		})
	case errors.Is(err, errInvalidForm):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, interpreter.ErrNoBinding):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, interpreter.ErrUnknownOption):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.WithError(err).Error("session request failed", nil)
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) reportSessions() {
	if s.metrics != nil {
		s.metrics.SessionsActive(s.sessions.Len())
	}
}

func sessionPath(id string) string {
	return "/api/sessions/" + id
}

func fromForm(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}
