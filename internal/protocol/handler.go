package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/steveyegge/deepthink/internal/session"
	"github.com/steveyegge/deepthink/internal/thinking"
)

// Handler maps JSON-RPC requests onto the thinking engine and session store.
// All validation lives here; the engine below it has no error conditions.
// Stored state is only written after the engine call succeeds, so a rejected
// request never corrupts a session.
type Handler struct {
	engine  *thinking.Engine
	store   session.Store
	logger  *slog.Logger
	name    string
	version string
}

// NewHandler creates a Handler. A nil logger discards logs.
func NewHandler(engine *thinking.Engine, store session.Store, logger *slog.Logger, name, version string) *Handler {
	if engine == nil {
		engine = thinking.NewEngine()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		engine:  engine,
		store:   store,
		logger:  logger,
		name:    name,
		version: version,
	}
}

// Dispatch routes one request to its method handler and returns the
// response. Every failure becomes a request-level error response; the
// process stays ready for the next request.
func (h *Handler) Dispatch(ctx context.Context, msg *Message) *Message {
	switch msg.Method {
	case "initialize":
		return NewResponse(msg.ID, map[string]any{
			"protocolVersion": ProtocolVersion,
			"serverInfo": ServerInfo{
				Name:            h.name,
				Version:         h.version,
				ProtocolVersion: ProtocolVersion,
				Capabilities:    Capabilities{Tools: true},
			},
			"capabilities": Capabilities{Tools: true},
		})

	case "tools/list":
		return NewResponse(msg.ID, map[string]any{
			"tools": []ToolDefinition{DeepThinkingTool()},
		})

	case "tools/call":
		return h.handleToolCall(ctx, msg)

	default:
		return NewError(msg.ID, CodeMethodNotFound, fmt.Sprintf("unknown method: %s", msg.Method))
	}
}

// toolCallParams is the standard tools/call envelope.
type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (h *Handler) handleToolCall(ctx context.Context, msg *Message) *Message {
	var call toolCallParams
	if err := json.Unmarshal(msg.Params, &call); err != nil {
		return NewError(msg.ID, CodeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
	}
	if call.Name != ToolName {
		return NewError(msg.ID, CodeInvalidParams, fmt.Sprintf("unknown tool: %s", call.Name))
	}

	var params CallParams
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &params); err != nil {
			return NewError(msg.ID, CodeInvalidParams, fmt.Sprintf("invalid %s arguments: %v", ToolName, err))
		}
	}

	result, err := h.Call(ctx, &params)
	if err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) {
			return NewError(msg.ID, rpcErr.Code, rpcErr.Message)
		}
		h.logger.Error("tool call failed", "action", params.Action, "error", err)
		return NewError(msg.ID, CodeInternalError, "internal error")
	}
	return NewResponse(msg.ID, result)
}

// Call executes one deep_thinking action. Exposed separately from Dispatch
// so the CLI can drive the same boundary without JSON-RPC framing.
func (h *Handler) Call(ctx context.Context, params *CallParams) (*CallResult, error) {
	switch params.Action {
	case "start":
		return h.start(ctx, params)
	case "iterate":
		return h.iterate(ctx, params)
	default:
		return nil, &Error{
			Code:    CodeInvalidParams,
			Message: fmt.Sprintf("invalid action %q: must be \"start\" or \"iterate\"", params.Action),
		}
	}
}

func (h *Handler) start(ctx context.Context, params *CallParams) (*CallResult, error) {
	task := strings.TrimSpace(params.Task)
	if task == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "start requires a non-empty task"}
	}

	cfg := thinking.DefaultConfig()
	if params.Config != nil {
		cfg = params.Config.Normalize()
	}

	id := params.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	state, prompt := h.engine.Start(params.Task, cfg)

	rec := &session.Record{
		ID:     id,
		Task:   params.Task,
		Config: cfg,
		State:  state,
	}
	if err := h.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist session %s: %w", id, err)
	}

	h.logger.Info("session started", "session", id, "max_depth", cfg.MaxDepth,
		"min_confidence", cfg.MinConfidence)

	return &CallResult{SessionID: id, Prompt: prompt, State: state}, nil
}

func (h *Handler) iterate(ctx context.Context, params *CallParams) (*CallResult, error) {
	if params.SessionID == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "iterate requires a sessionId"}
	}
	if params.Response == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "iterate requires a response"}
	}

	rec, err := h.store.Get(ctx, params.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, &Error{
			Code:    CodeInvalidParams,
			Message: fmt.Sprintf("unknown session %q: call start first", params.SessionID),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", params.SessionID, err)
	}

	out := h.engine.ProcessIteration(rec.Task, params.Response, rec.State, rec.Config)

	rec.State = out.State
	if err := h.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist session %s: %w", rec.ID, err)
	}

	h.logger.Info("iteration processed", "session", rec.ID, "depth", out.State.Depth,
		"confidence", out.State.Confidence, "complete", out.State.Complete,
		"stop_reason", string(out.Reason))

	return &CallResult{
		SessionID:  rec.ID,
		Prompt:     out.NextPrompt,
		State:      out.State,
		IsComplete: out.State.Complete,
		StopReason: out.Reason,
	}, nil
}
