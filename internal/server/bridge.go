package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubeops-ai/kubeops/internal/registry"
)

// NewMCPServer builds the MCP protocol server: every registered tool,
// entity scheme and workflow is exposed, with all handlers delegating
// to the dispatcher so policy and metrics wrap each request uniformly.
func NewMCPServer(sc *ServerContext) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		sc.config.ServerName,
		sc.config.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithPromptCapabilities(true),
	)

	for _, desc := range sc.dispatcher.ListTools() {
		s.AddTool(bridgeTool(desc), toolHandler(sc, desc.Name))
	}
	for _, desc := range sc.dispatcher.ListEntities() {
		s.AddResourceTemplate(bridgeEntity(desc), entityHandler(sc))
	}
	for _, desc := range sc.dispatcher.ListPrompts() {
		s.AddPrompt(bridgePrompt(desc), promptHandler(sc, desc.Name))
	}
	return s
}

func bridgeTool(desc registry.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}
	for _, p := range desc.Params {
		var propOpts []mcp.PropertyOption
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if p.Description != "" {
			propOpts = append(propOpts, mcp.Description(p.Description))
		}
		if len(p.Enum) > 0 {
			propOpts = append(propOpts, mcp.Enum(p.Enum...))
		}

		switch p.Kind {
		case registry.ParamNumber:
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case registry.ParamBoolean:
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		case registry.ParamArray:
			opts = append(opts, mcp.WithArray(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(desc.Name, opts...)
}

func toolHandler(sc *ServerContext, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env, err := sc.dispatcher.CallTool(ctx, name, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return bridgeEnvelope(env), nil
	}
}

func bridgeEnvelope(env *registry.Envelope) *mcp.CallToolResult {
	var text string
	if len(env.Content) > 0 {
		text = env.Content[0].Text
	}
	if env.IsError {
		return mcp.NewToolResultError(text)
	}
	return mcp.NewToolResultText(text)
}

func bridgeEntity(desc registry.EntityDescriptor) mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		desc.URITemplate,
		desc.Scheme,
		mcp.WithTemplateDescription(desc.Description),
		mcp.WithTemplateMIMEType(desc.MIMEType),
	)
}

func entityHandler(sc *ServerContext) mcpserver.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		content, err := sc.dispatcher.ReadResource(ctx, request.Params.URI)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      content.URI,
				MIMEType: content.MIMEType,
				Text:     content.Text,
			},
		}, nil
	}
}

func bridgePrompt(desc registry.PromptDescriptor) mcp.Prompt {
	opts := []mcp.PromptOption{mcp.WithPromptDescription(desc.Description)}
	for _, arg := range desc.Args {
		argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(arg.Description)}
		if arg.Required {
			argOpts = append(argOpts, mcp.RequiredArgument())
		}
		opts = append(opts, mcp.WithArgument(arg.Name, argOpts...))
	}
	return mcp.NewPrompt(desc.Name, opts...)
}

func promptHandler(sc *ServerContext, name string) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		result, err := sc.dispatcher.GetPrompt(ctx, name, request.Params.Arguments)
		if err != nil {
			return nil, err
		}

		messages := make([]mcp.PromptMessage, 0, len(result.Messages))
		for _, msg := range result.Messages {
			role := mcp.RoleUser
			if msg.Role == "assistant" {
				role = mcp.RoleAssistant
			}
			messages = append(messages, mcp.NewPromptMessage(role, mcp.NewTextContent(msg.Text)))
		}
		return mcp.NewGetPromptResult(result.Description, messages), nil
	}
}
