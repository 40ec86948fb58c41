package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	errs "github.com/habitloop/habitloop/client/internal/errors"
	"github.com/habitloop/habitloop/client/internal/types"
)

// GetDashboard retrieves the derived dashboard snapshot for the user.
func GetDashboard(ctx context.Context, httpClient *http.Client, baseURL, userID string) (*types.DashboardSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/users/%s/dashboard", baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NewNetworkError("get dashboard", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp, "get dashboard")
	}

	var snap types.DashboardSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
