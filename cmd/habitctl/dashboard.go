package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the user's dashboard (streak, weekly series, today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			resp, err := check(api().R().Get(fmt.Sprintf("/api/users/%s/dashboard", userFlag)))
			if err != nil {
				return err
			}
			summary, _ := cmd.Flags().GetBool("summary")
			if !summary {
				return printJSON(resp.Body())
			}

			var snap struct {
				TodayStatus []struct {
					Title     string `json:"title"`
					Completed bool   `json:"completed"`
				} `json:"todayStatus"`
				CurrentStreak int `json:"currentStreak"`
				WeeklyAverage int `json:"weeklyAverage"`
			}
			if err := json.Unmarshal(resp.Body(), &snap); err != nil {
				return err
			}
			fmt.Printf("streak: %d day(s)   weekly: %d%%\n", snap.CurrentStreak, snap.WeeklyAverage)
			for _, s := range snap.TodayStatus {
				mark := " "
				if s.Completed {
					mark = "x"
				}
				fmt.Printf("  [%s] %s\n", mark, s.Title)
			}
			return nil
		},
	}
	cmd.Flags().Bool("summary", false, "Human-readable summary instead of JSON")
	return cmd
}
