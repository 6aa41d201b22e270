package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/vecsim/internal/ratelimit"
	"github.com/nvandessel/vecsim/internal/session"
	"github.com/nvandessel/vecsim/internal/visualization"
)

// stateURI is the resource holding the markdown rendering of the session.
const stateURI = "vecsim://state"

// maxValueBytes bounds tool values, matching the HTTP action body limit.
const maxValueBytes = 64 << 10

// registerTools registers all playground MCP tools with the server.
func (s *Server) registerTools() error {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "vector_push",
		Description: "push_back a value onto the simulated vector. Doubles capacity (0 becomes 1) when full",
	}, s.handleVectorPush)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "vector_pop",
		Description: "pop_back the last element of the simulated vector. Capacity never shrinks",
	}, s.handleVectorPop)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "vector_clear",
		Description: "clear() the simulated vector. Size becomes 0, capacity is kept",
	}, s.handleVectorClear)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "vector_reset",
		Description: "Reset the simulated vector to its initial capacity and log",
	}, s.handleVectorReset)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "vector_type",
		Description: "Change the declared element type (int, double, char, string). Resets the vector",
	}, s.handleVectorType)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "string_set",
		Description: "Replace the simulated std::string content. Capacity grows to max(2*length, 15) when reached",
	}, s.handleStringSet)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "string_clear",
		Description: "Empty the simulated std::string. Capacity is kept",
	}, s.handleStringClear)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "view_switch",
		Description: "Select the displayed view: vector, string or comparison",
	}, s.handleViewSwitch)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "state",
		Description: "Read the full playground state, rendered as text, json, dot (Graphviz) or markdown",
	}, s.handleState)

	return nil
}

// registerResources registers MCP resources for auto-loading into context.
func (s *Server) registerResources() error {
	s.server.AddResource(&sdk.Resource{
		URI:         stateURI,
		Name:        "vecsim-state",
		Description: "Current vector and string simulator state: size, capacity, slots and operation log.",
		MIMEType:    "text/markdown",
	}, s.handleStateResource)
	return nil
}

func (s *Server) handleStateResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      stateURI,
				MIMEType: "text/markdown",
				Text:     visualization.RenderMarkdown(s.session.Snapshot()),
			},
		},
	}, nil
}

// apply runs one session action on behalf of a tool, with rate limiting and
// auditing. Rejected actions are returned as errors, which the SDK reports
// to the client as tool errors.
func (s *Server) apply(ctx context.Context, tool string, a session.Action) (_ *sdk.CallToolResult, _ ActionOutput, retErr error) {
	start := time.Now()
	var res session.Result
	defer func() {
		s.auditTool(ctx, tool, a.Value, start, res, retErr)
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, tool); err != nil {
		res.Snapshot = s.session.Snapshot()
		return nil, ActionOutput{}, err
	}

	if len(a.Value) > maxValueBytes {
		res.Snapshot = s.session.Snapshot()
		return nil, ActionOutput{}, fmt.Errorf("%s: value is %d bytes, limit is %d", tool, len(a.Value), maxValueBytes)
	}

	res, err := s.session.Apply(ctx, a)
	if err != nil {
		return nil, ActionOutput{}, fmt.Errorf("%s: %w", tool, err)
	}

	out := ActionOutput{Action: a.String(), Snapshot: res.Snapshot}
	log := res.Snapshot.Vector.Log
	if a.Op == session.OpText || a.Op == session.OpTextClear {
		log = res.Snapshot.String.Log
	}
	if len(log) > 0 {
		out.Latest = log[0]
	}
	return nil, out, nil
}

func (s *Server) handleVectorPush(ctx context.Context, req *sdk.CallToolRequest, args PushInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "vector_push", session.Action{Op: session.OpPush, Value: args.Value})
}

func (s *Server) handleVectorPop(ctx context.Context, req *sdk.CallToolRequest, _ EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "vector_pop", session.Action{Op: session.OpPop})
}

func (s *Server) handleVectorClear(ctx context.Context, req *sdk.CallToolRequest, _ EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "vector_clear", session.Action{Op: session.OpClear})
}

func (s *Server) handleVectorReset(ctx context.Context, req *sdk.CallToolRequest, _ EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "vector_reset", session.Action{Op: session.OpReset})
}

func (s *Server) handleVectorType(ctx context.Context, req *sdk.CallToolRequest, args TypeInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "vector_type", session.Action{Op: session.OpType, Value: args.Type})
}

func (s *Server) handleStringSet(ctx context.Context, req *sdk.CallToolRequest, args TextInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "string_set", session.Action{Op: session.OpText, Value: args.Text})
}

func (s *Server) handleStringClear(ctx context.Context, req *sdk.CallToolRequest, _ EmptyInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "string_clear", session.Action{Op: session.OpTextClear})
}

func (s *Server) handleViewSwitch(ctx context.Context, req *sdk.CallToolRequest, args ViewInput) (*sdk.CallToolResult, ActionOutput, error) {
	return s.apply(ctx, "view_switch", session.Action{Op: session.OpView, Value: args.View})
}

// handleState implements the state tool. It never mutates the session.
func (s *Server) handleState(ctx context.Context, req *sdk.CallToolRequest, args StateInput) (_ *sdk.CallToolResult, _ StateOutput, retErr error) {
	start := time.Now()
	snap := s.session.Snapshot()
	defer func() {
		s.auditTool(ctx, "state", args.Format, start, session.Result{Snapshot: snap}, retErr)
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "state"); err != nil {
		return nil, StateOutput{}, err
	}

	format := visualization.Format(args.Format)
	if format == "" {
		format = visualization.FormatMarkdown
	}
	rendered, err := visualization.Render(snap, format)
	if err != nil {
		return nil, StateOutput{}, err
	}

	return nil, StateOutput{
		Format:   string(format),
		Rendered: string(rendered),
		Snapshot: snap,
	}, nil
}
