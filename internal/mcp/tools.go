package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/gymtrack/internal/repo"
	"github.com/meltforce/gymtrack/internal/store"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises, five per page, with the total collection size. Each exercise includes the ids of the workouts it is linked to."),
	mcp.WithString("cursor", mcp.Description("Opaque pagination cursor from a previous page. Omit for the first page.")),
)

var toolGetExercise = mcp.NewTool("get_exercise",
	mcp.WithDescription("Fetch a single exercise by id, including the workouts it is linked to."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Exercise id")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List a user's workouts, five per page, with the total count for that user."),
	mcp.WithString("owner", mcp.Required(), mcp.Description("Identity subject that owns the workouts")),
	mcp.WithString("cursor", mcp.Description("Opaque pagination cursor from a previous page. Omit for the first page.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch a single workout by id. The owner must match the workout's owner; another user's workout is reported as forbidden."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Workout id")),
	mcp.WithString("owner", mcp.Required(), mcp.Description("Identity subject that owns the workout")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cursor := store.Cursor(req.GetString("cursor", ""))

	page, err := h.ds.ListExercises(ctx, cursor)
	if err != nil {
		if errors.Is(err, store.ErrBadCursor) {
			return mcp.NewToolResultError("invalid cursor"), nil
		}
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(page)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	exercise, err := h.ds.GetExercise(ctx, int64(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return mcp.NewToolResultError("no exercise with this id exists"), nil
		}
		h.log.Error("mcp get_exercise", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercise)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	owner, err := req.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError("owner parameter is required"), nil
	}

	workout, err := h.ds.GetWorkout(ctx, int64(id), owner)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return mcp.NewToolResultError("no workout with this id exists"), nil
		case errors.Is(err, repo.ErrForbidden):
			return mcp.NewToolResultError("this workout belongs to another user"), nil
		}
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workout)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := req.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError("owner parameter is required"), nil
	}
	cursor := store.Cursor(req.GetString("cursor", ""))

	page, err := h.ds.ListWorkouts(ctx, owner, cursor)
	if err != nil {
		if errors.Is(err, store.ErrBadCursor) {
			return mcp.NewToolResultError("invalid cursor"), nil
		}
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(page)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
