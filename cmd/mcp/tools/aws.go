package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elC0mpa/ebs-reclaimer/cmd/mcp/response"
	"github.com/elC0mpa/ebs-reclaimer/service/input"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const retentionArg = "retention_days"

// RegisterAWSTools registers the account and reclamation tools with the MCP server
func RegisterAWSTools(s *server.MCPServer, cfg *settings.Settings, backend Backend) {
	// Account info
	s.AddTool(
		mcp.NewTool("aws_get_account_info",
			mcp.WithDescription("Get AWS account identity information including account ID and ARN"),
		),
		makeAWSAccountInfoHandler(backend),
	)

	// Plan
	s.AddTool(
		mcp.NewTool("ebs_reclaim_plan",
			mcp.WithDescription("Show which unattached EBS volumes and unreferenced snapshots older than the retention period would be deleted. Nothing is deleted."),
			mcp.WithNumber(retentionArg,
				mcp.Description(fmt.Sprintf("Minimum age in days before a resource is eligible (default %d)", cfg.RetentionDays)),
				mcp.Min(0),
			),
		),
		makeReclaimHandler(cfg, backend, true),
	)

	// Run
	s.AddTool(
		mcp.NewTool("ebs_reclaim_run",
			mcp.WithDescription("Delete unattached EBS volumes and unreferenced snapshots older than the retention period. Snapshots backing an AMI are never deleted. Requires confirm=true."),
			mcp.WithNumber(retentionArg,
				mcp.Description(fmt.Sprintf("Minimum age in days before a resource is deleted (default %d)", cfg.RetentionDays)),
				mcp.Min(0),
			),
			mcp.WithBoolean("confirm",
				mcp.Required(),
				mcp.Description("Must be true to delete resources"),
			),
		),
		makeReclaimHandler(cfg, backend, false),
	)
}

func makeAWSAccountInfoHandler(backend Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identity, err := backend.Identity(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		info, err := identity.GetAccountInfo(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get account info: %v", err)), nil
		}

		resp := response.ConvertAccountInfo(info)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeReclaimHandler(cfg *settings.Settings, backend Backend, plan bool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !plan && !request.GetBool("confirm", false) {
			return mcp.NewToolResultError("ebs_reclaim_run deletes resources; call ebs_reclaim_plan to preview, then call again with confirm=true"), nil
		}

		in, err := parseRetention(request, cfg.RetentionDays)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		identity, err := backend.Identity(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}
		account, err := identity.GetAccountInfo(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get account info: %v", err)), nil
		}

		engine, err := backend.Engine(ctx, reclaimer.Options{
			AccountID:  account.AccountID,
			Region:     cfg.Region,
			DryRun:     plan || cfg.DryRun,
			ProtectTag: cfg.ProtectTag,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		report, runErr := engine.Run(ctx, in.RetentionDays)

		data, _ := json.MarshalIndent(response.ConvertReport(report), "", "  ")
		result := mcp.NewToolResultText(string(data))
		if runErr != nil {
			result.IsError = true
		}
		return result, nil
	}
}

// parseRetention sends the tool arguments through the same parser as Lambda
// payloads so both triggers agree on what a valid retention is.
func parseRetention(request mcp.CallToolRequest, defaultDays int) (input.Input, error) {
	args := request.GetArguments()
	payload := map[string]any{}
	if v, ok := args[retentionArg]; ok {
		payload[retentionArg] = v
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return input.Input{}, err
	}
	return input.Parse(raw, defaultDays)
}
