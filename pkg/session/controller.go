package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/responses"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

var (
	// ErrEmptyPrompt rejects blank prompts and edit instructions before any
	// request is sent.
	ErrEmptyPrompt = errors.New("session: prompt is empty")
	// ErrEditPending rejects an edit while another edit is in flight.
	ErrEditPending = errors.New("session: an edit is already pending")
	// ErrNoWidget is returned by operations that need an active widget.
	ErrNoWidget = errors.New("session: no active widget")
	// ErrStaleResponse reports a service response that arrived after the widget
	// it was requested for had been discarded or replaced. It was dropped.
	ErrStaleResponse = errors.New("session: stale response dropped")
	// ErrEditFailed wraps service and validation failures of an edit. The
	// active widget and responses are unchanged.
	ErrEditFailed = errors.New("session: edit failed")
	// ErrGenerateFailed wraps service and validation failures of a generation.
	ErrGenerateFailed = errors.New("session: generate failed")
)

// State is the edit state of the active widget.
type State int

const (
	StateIdle State = iota
	StateEditPending
)

func (s State) String() string {
	switch s {
	case StateEditPending:
		return "edit_pending"
	default:
		return "idle"
	}
}

// Controller owns one widget session: the active specification with its
// export artifacts, the response store, the last result snapshot and the edit
// conversation.
type Controller struct {
	svc           genservice.Service
	policy        responses.MergePolicy
	log           logger.Logger
	metrics       Metrics
	now           func() time.Time
	interpretOpts []interpreter.Option

	mu    sync.Mutex
	state State
	// epoch identifies the active widget; it changes whenever the widget is
	// replaced or discarded so late edit responses can be dropped. generation
	// and discards play the same role for in-flight Generate calls.
	epoch        uint64
	generation   uint64
	discards     uint64
	active       *genservice.Response
	store        *responses.Store
	result       *responses.Snapshot
	notices      []string
	conversation []Message
}

// NewController builds a controller bound to svc.
func NewController(svc genservice.Service, opts ...Option) *Controller {
	c := &Controller{
		svc:     svc,
		policy:  responses.PolicyRetain,
		log:     logger.NewNoOpLogger(),
		metrics: noopMetrics{},
		now:     time.Now,
		store:   responses.NewStore(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Generate requests a brand-new widget. On success the previous widget is
// replaced unconditionally, the response store is reset and the conversation
// restarts with the prompt. On failure nothing changes and a notice is kept.
func (c *Controller) Generate(ctx context.Context, prompt string) (genservice.Response, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return genservice.Response{}, ErrEmptyPrompt
	}
	if c.svc == nil {
		return genservice.Response{}, errors.New("session: generation service is nil")
	}

	c.mu.Lock()
	c.generation++
	token, discards := c.generation, c.discards
	c.mu.Unlock()

	started := c.now()
	resp, err := c.svc.Generate(ctx, genservice.GenerateRequest{Prompt: prompt})
	if err == nil {
		err = resp.Widget.Validate()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := c.now().Sub(started)
	if token != c.generation || discards != c.discards {
		c.metrics.ObserveGenerate(OutcomeStale, elapsed)
		c.log.Warn("dropping stale generate response", map[string]any{"prompt": prompt})
		return genservice.Response{}, ErrStaleResponse
	}
	if err != nil {
		c.metrics.ObserveGenerate(OutcomeFailure, elapsed)
		c.log.WithError(err).Error("widget generation failed", map[string]any{"prompt": prompt})
		c.notices = []string{GenerateFailedNotice}
		return genservice.Response{}, fmt.Errorf("%w: %w", ErrGenerateFailed, err)
	}

	// Invalidate any edit dispatched against the previous widget.
	c.epoch++
	c.state = StateIdle
	stored := cloneResponse(resp)
	c.active = &stored
	c.store.Reset()
	c.result = nil
	c.notices = nil
	c.conversation = []Message{{Role: RoleUser, Text: prompt, Timestamp: c.now()}}

	c.metrics.ObserveGenerate(OutcomeSuccess, elapsed)
	c.log.Info("widget generated", map[string]any{
		"widget_id": resp.WidgetID,
		"elements":  len(resp.Widget.Elements),
	})
	return cloneResponse(resp), nil
}

// Load installs a widget without calling the service, resetting responses the
// same way a generation does. It is used for specifications read from disk.
func (c *Controller) Load(resp genservice.Response) error {
	if err := resp.Widget.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.generation++
	c.state = StateIdle
	stored := cloneResponse(resp)
	c.active = &stored
	c.store.Reset()
	c.result = nil
	c.notices = nil
	c.conversation = nil
	return nil
}

// Edit sends instruction together with the current specification to the
// service. While the request is in flight the controller is EditPending and
// further edits fail with ErrEditPending; control events keep working.
//
// On success the specification is replaced wholesale and the response store
// is merged according to the merge policy. On failure the specification and
// responses are left exactly as they were and a notice is recorded.
func (c *Controller) Edit(ctx context.Context, instruction string) (genservice.Response, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return genservice.Response{}, ErrEmptyPrompt
	}
	if c.svc == nil {
		return genservice.Response{}, errors.New("session: generation service is nil")
	}

	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return genservice.Response{}, ErrNoWidget
	}
	if c.state == StateEditPending {
		c.mu.Unlock()
		return genservice.Response{}, ErrEditPending
	}
	c.state = StateEditPending
	token := c.epoch
	previous := c.active.Widget.Clone()
	req := genservice.EditRequest{
		WidgetID:      c.active.WidgetID,
		EditPrompt:    instruction,
		CurrentWidget: previous.Clone(),
	}
	c.conversation = append(c.conversation, Message{Role: RoleUser, Text: instruction, Timestamp: c.now()})
	c.metrics.EditPending(1)
	c.mu.Unlock()

	started := c.now()
	resp, err := c.svc.Edit(ctx, req)
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	} else if verr := resp.Widget.Validate(); verr != nil {
		err = verr
		outcome = OutcomeInvalid
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.EditPending(-1)
	elapsed := c.now().Sub(started)
	if token != c.epoch {
		c.metrics.ObserveEdit(OutcomeStale, elapsed)
		c.log.Warn("dropping stale edit response", map[string]any{"widget_id": req.WidgetID})
		return genservice.Response{}, ErrStaleResponse
	}
	c.state = StateIdle
	c.metrics.ObserveEdit(outcome, elapsed)

	if err != nil {
		c.log.WithError(err).Warn("widget edit failed", map[string]any{
			"widget_id": req.WidgetID,
			"outcome":   outcome,
		})
		c.notices = []string{EditFailedNotice}
		c.conversation = append(c.conversation, Message{Role: RoleError, Text: EditFailedNotice, Timestamp: c.now()})
		return genservice.Response{}, fmt.Errorf("%w: %w", ErrEditFailed, err)
	}

	if resp.WidgetID == "" {
		resp.WidgetID = req.WidgetID
	}
	c.policy.Apply(c.store, resp.Widget.IDs())
	if c.policy == responses.PolicyReset {
		c.result = nil
	}
	stored := cloneResponse(resp)
	c.active = &stored
	c.notices = nil
	c.conversation = append(c.conversation, Message{
		Role:      RoleAssistant,
		Text:      EditAppliedText(instruction),
		Patch:     c.diff(previous, resp.Widget),
		Timestamp: c.now(),
	})
	c.log.Info("widget edited", map[string]any{
		"widget_id": resp.WidgetID,
		"policy":    string(c.policy),
		"retained":  c.store.Len(),
	})
	return cloneResponse(resp), nil
}

// Discard ends the session. Any in-flight response is dropped when it arrives.
func (c *Controller) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.discards++
	c.state = StateIdle
	c.active = nil
	c.store.Reset()
	c.result = nil
	c.notices = nil
	c.conversation = nil
}

// Change records a value for a capture element. Unknown ids, non-capture
// elements and values outside a choice element's options are rejected.
func (c *Controller) Change(id, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tree, err := c.treeLocked()
	if err != nil {
		return err
	}
	_, err = tree.Dispatch(c.store, interpreter.Change(id, value))
	return err
}

// Activate triggers a submit element. The returned snapshot becomes the active
// result and is unaffected by later changes.
func (c *Controller) Activate(id string) (responses.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tree, err := c.treeLocked()
	if err != nil {
		return responses.Snapshot{}, err
	}
	snapshot, err := tree.Dispatch(c.store, interpreter.Activate(id))
	if err != nil {
		return responses.Snapshot{}, err
	}
	if snapshot == nil {
		return responses.Snapshot{}, fmt.Errorf("session: element %q did not submit", id)
	}
	c.result = snapshot
	c.metrics.Submitted()
	return *snapshot, nil
}

// Render interprets the active widget against the current responses with the
// active result attached.
func (c *Controller) Render(opts ...interpreter.Option) (interpreter.Tree, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.treeLocked(opts...)
}

func (c *Controller) treeLocked(opts ...interpreter.Option) (interpreter.Tree, error) {
	if c.active == nil {
		return interpreter.Tree{}, ErrNoWidget
	}
	all := make([]interpreter.Option, 0, len(c.interpretOpts)+len(opts)+1)
	all = append(all, c.interpretOpts...)
	all = append(all, interpreter.WithResult(c.result))
	all = append(all, opts...)
	return interpreter.Interpret(c.active.Widget, c.store, all...)
}

// State reports whether an edit is pending.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Widget returns a copy of the active specification.
func (c *Controller) Widget() (widget.Spec, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return widget.Spec{}, false
	}
	return c.active.Widget.Clone(), true
}

// Response returns the active widget with its id and export artifacts.
func (c *Controller) Response() (genservice.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return genservice.Response{}, false
	}
	return cloneResponse(*c.active), true
}

// Result returns the active result snapshot, if any.
func (c *Controller) Result() (responses.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return responses.Snapshot{}, false
	}
	return *c.result, true
}

// Responses returns a copy of the live answers.
func (c *Controller) Responses() responses.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Snapshot()
}

// Notices returns the user-visible failure notices of the last operation.
func (c *Controller) Notices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.notices...)
}

// Conversation returns the edit conversation in order.
func (c *Controller) Conversation() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.conversation...)
}

// diff returns the merge patch from previous to next, or "" when it cannot be
// computed.
func (c *Controller) diff(previous, next widget.Spec) string {
	before, err := sonic.ConfigStd.Marshal(previous)
	if err != nil {
		return ""
	}
	after, err := sonic.ConfigStd.Marshal(next)
	if err != nil {
		return ""
	}
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		c.log.WithError(err).Debug("merge patch failed", nil)
		return ""
	}
	return string(patch)
}

func cloneResponse(resp genservice.Response) genservice.Response {
	resp.Widget = resp.Widget.Clone()
	return resp
}
