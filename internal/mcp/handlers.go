package mcptools

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"folio/internal/backup"
	"folio/internal/models"
	"folio/internal/sanitize"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type handlers struct {
	db      *sql.DB
	backups *backup.Manager
}

func fieldsArg(args map[string]any) (map[string]any, error) {
	raw, ok := args["fields"]
	if !ok {
		return nil, errors.New("fields is required")
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("fields must be an object, got %T", raw)
	}
	return fields, nil
}

func (h *handlers) sanitizeForm(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fields, err := fieldsArg(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	clean, res := sanitize.Clean(fields)
	return jsonResult(FormResult{Fields: clean, Valid: res.Valid, Errors: res.Errors})
}

// validateForm reports only the validation result. Fields are sanitized
// first so the verdict always describes what would be stored.
func (h *handlers) validateForm(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fields, err := fieldsArg(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, res := sanitize.Clean(fields)
	return jsonResult(res)
}

func (h *handlers) listSubmissions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	limit := intArg(args, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := intArg(args, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	subs, err := models.ListSubmissions(h.db, limit, offset)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list submissions: %v", err)), nil
	}
	total, err := models.CountSubmissions(h.db)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to count submissions: %v", err)), nil
	}

	dtos := make([]SubmissionDTO, 0, len(subs))
	for _, s := range subs {
		dtos = append(dtos, SubmissionToDTO(s))
	}
	return jsonResult(map[string]any{
		"total":       total,
		"limit":       limit,
		"offset":      offset,
		"submissions": dtos,
	})
}

func (h *handlers) getSubmission(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["id"].(string)
	if _, err := uuid.Parse(id); err != nil {
		return mcp.NewToolResultError("id must be a submission UUID"), nil
	}

	s, err := models.GetSubmissionByID(h.db, id)
	if errors.Is(err, models.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("submission %s not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load submission: %v", err)), nil
	}
	return jsonResult(SubmissionToDTO(*s))
}

func (h *handlers) getActivityLog(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	limit := intArg(args, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	entityType, _ := args["entity_type"].(string)

	acts, err := models.GetRecentActivities(h.db, limit, entityType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get activities: %v", err)), nil
	}

	dtos := make([]ActivityDTO, 0, len(acts))
	for _, a := range acts {
		dtos = append(dtos, ActivityToDTO(a))
	}
	return jsonResult(dtos)
}

func (h *handlers) backupDatabase(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, removed, err := h.backups.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("backup failed: %v", err)), nil
	}
	models.LogActivity(h.db, "backup", info.Name, "created", "Backup written via MCP", "", "")
	return jsonResult(map[string]any{
		"name":    info.Name,
		"size":    backup.FormatSize(info.Size),
		"removed": removed,
	})
}

// helpers

func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	n, err := toInt(v)
	if err != nil {
		return def
	}
	return n
}

func toInt(v any) (int, error) {
	switch val := v.(type) {
	case float64:
		return int(val), nil
	case int:
		return val, nil
	case string:
		return strconv.Atoi(val)
	case json.Number:
		n, err := val.Int64()
		return int(n), err
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
