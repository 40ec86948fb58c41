// Package api contains the thin HTTP wrappers behind the client SDK.
// Functions here are synchronous; ordering and retry policy belong to the
// caller (usually a Session submitting through the shard executor).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	errs "github.com/habitloop/habitloop/client/internal/errors"
	"github.com/habitloop/habitloop/client/internal/types"
)

// readError classifies a non-2xx response, mapping 404 onto types.ErrNotFound.
func readError(resp *http.Response, operation string) error {
	if resp.StatusCode == http.StatusNotFound {
		return types.ErrNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return errs.NewHTTPError(resp.StatusCode, string(body), operation)
}

// CreateHabit creates a new habit for the user.
func CreateHabit(ctx context.Context, httpClient *http.Client, baseURL, userID string, req types.CreateHabitRequest) (*types.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := types.ValidateTitle(req.Title); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/users/%s/habits", baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("create habit", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, readError(resp, "create habit")
	}

	var h types.Habit
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHabits retrieves all habits for the user, active and inactive.
func ListHabits(ctx context.Context, httpClient *http.Client, baseURL, userID string) ([]types.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/users/%s/habits", baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("list habits", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp, "list habits")
	}

	var lr types.ListHabitsResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, err
	}
	return lr.Habits, nil
}

// GetHabit retrieves a single habit.
func GetHabit(ctx context.Context, httpClient *http.Client, baseURL, userID, habitID string) (*types.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(habitID, "habitId"); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/users/%s/habits/%s", baseURL, userID, habitID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("get habit", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp, "get habit")
	}

	var h types.Habit
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

// UpdateHabit patches the mutable habit fields.
func UpdateHabit(ctx context.Context, httpClient *http.Client, baseURL, userID, habitID string, req types.UpdateHabitRequest) (*types.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(habitID, "habitId"); err != nil {
		return nil, err
	}
	if req.Title != nil {
		if err := types.ValidateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/users/%s/habits/%s", baseURL, userID, habitID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("update habit", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp, "update habit")
	}

	var h types.Habit
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHabit removes a habit. hard=false deactivates, hard=true deletes
// the habit and its completion history.
func DeleteHabit(ctx context.Context, httpClient *http.Client, baseURL, userID, habitID string, hard bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(habitID, "habitId"); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/users/%s/habits/%s", baseURL, userID, habitID)
	if hard {
		url += "?hard=true"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errs.NewNetworkError("delete habit", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return readError(resp, "delete habit")
	}
	return nil
}

// ToggleHabit flips the habit's completion state for one day.
func ToggleHabit(ctx context.Context, httpClient *http.Client, baseURL, userID, habitID string, req types.ToggleHabitRequest) (*types.ToggleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(habitID, "habitId"); err != nil {
		return nil, err
	}
	if err := types.ValidateDate(req.Date); err != nil {
		return nil, err
	}
	var body io.Reader
	if req.Date != "" {
		b, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(b)
	}
	url := fmt.Sprintf("%s/api/users/%s/habits/%s/toggle", baseURL, userID, habitID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("toggle habit", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp, "toggle habit")
	}

	var res types.ToggleResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
