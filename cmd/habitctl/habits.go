package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHabitCmd() *cobra.Command {
	habitCmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a habit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			title, _ := cmd.Flags().GetString("title")
			desc, _ := cmd.Flags().GetString("description")
			freq, _ := cmd.Flags().GetString("frequency")
			body := map[string]string{"title": title}
			if desc != "" {
				body["description"] = desc
			}
			if freq != "" {
				body["frequency"] = freq
			}
			resp, err := check(api().R().SetBody(body).Post(fmt.Sprintf("/api/users/%s/habits", userFlag)))
			if err != nil {
				return err
			}
			return printJSON(resp.Body())
		},
	}
	createCmd.Flags().StringP("title", "t", "", "Habit title (required)")
	createCmd.Flags().StringP("description", "d", "", "Habit description")
	createCmd.Flags().StringP("frequency", "f", "", "daily|weekly|monthly (default daily)")
	_ = createCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			resp, err := check(api().R().Get(fmt.Sprintf("/api/users/%s/habits", userFlag)))
			if err != nil {
				return err
			}
			return printJSON(resp.Body())
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <habitId>",
		Short: "Show one habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			resp, err := check(api().R().Get(fmt.Sprintf("/api/users/%s/habits/%s", userFlag, args[0])))
			if err != nil {
				return err
			}
			return printJSON(resp.Body())
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <habitId>",
		Short: "Update habit fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			body := map[string]interface{}{}
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				body["title"] = v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				body["description"] = v
			}
			if cmd.Flags().Changed("frequency") {
				v, _ := cmd.Flags().GetString("frequency")
				body["frequency"] = v
			}
			if cmd.Flags().Changed("active") {
				v, _ := cmd.Flags().GetBool("active")
				body["active"] = v
			}
			if len(body) == 0 {
				return fmt.Errorf("nothing to update")
			}
			resp, err := check(api().R().SetBody(body).Patch(fmt.Sprintf("/api/users/%s/habits/%s", userFlag, args[0])))
			if err != nil {
				return err
			}
			return printJSON(resp.Body())
		},
	}
	updateCmd.Flags().StringP("title", "t", "", "New title")
	updateCmd.Flags().StringP("description", "d", "", "New description")
	updateCmd.Flags().StringP("frequency", "f", "", "daily|weekly|monthly")
	updateCmd.Flags().Bool("active", true, "Activate or deactivate")

	deleteCmd := &cobra.Command{
		Use:   "delete <habitId>",
		Short: "Deactivate a habit (--hard removes it and its history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			hard, _ := cmd.Flags().GetBool("hard")
			url := fmt.Sprintf("/api/users/%s/habits/%s", userFlag, args[0])
			req := api().R()
			if hard {
				req.SetQueryParam("hard", "true")
			}
			if _, err := check(req.Delete(url)); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
	deleteCmd.Flags().Bool("hard", false, "Remove the habit and its completion history")

	toggleCmd := &cobra.Command{
		Use:   "toggle <habitId>",
		Short: "Flip a habit's completion for a day (default today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			req := api().R()
			if date != "" {
				req.SetBody(map[string]string{"date": date})
			}
			resp, err := check(req.Post(fmt.Sprintf("/api/users/%s/habits/%s/toggle", userFlag, args[0])))
			if err != nil {
				return err
			}
			return printJSON(resp.Body())
		},
	}
	toggleCmd.Flags().StringP("date", "D", "", "Day to toggle, YYYY-MM-DD")

	habitCmd.AddCommand(createCmd, listCmd, getCmd, updateCmd, deleteCmd, toggleCmd)
	return habitCmd
}
