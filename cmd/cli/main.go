package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	apiKey  string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "khata-cli",
		Short: "Khata CLI tool",
		Long:  `A command line interface for interacting with the Khata ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Khata API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (if the server requires one)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(clientCmd())
	rootCmd.AddCommand(workCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(cleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Client directory operations",
	}

	var name, phone, email string
	var workTypes []string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/clients/", map[string]any{
				"name":       name,
				"phone":      phone,
				"email":      email,
				"work_types": workTypes,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Client name (required)")
	createCmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	createCmd.Flags().StringVar(&email, "email", "", "Email address")
	createCmd.Flags().StringSliceVar(&workTypes, "work-type", nil, "Work types (repeatable)")
	createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/clients/")
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/clients/" + args[0])
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show a client's balance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/clients/" + args[0] + "/balance/history")
		},
	}

	cmd.AddCommand(createCmd, listCmd, getCmd, historyCmd)

	return cmd
}

func workCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Work transaction operations",
	}

	var clientID, date, description string
	var total, paid int64
	var workTypes []string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a work transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/works/", map[string]any{
				"client_id":   clientID,
				"date":        date,
				"total_price": total,
				"paid_amount": paid,
				"work_types":  workTypes,
				"description": description,
			})
		},
	}
	addCmd.Flags().StringVar(&clientID, "client", "", "Owning client ID (required)")
	addCmd.Flags().StringVar(&date, "date", "", "Work date as DD/MM/YYYY (required)")
	addCmd.Flags().Int64Var(&total, "total", 0, "Total price in minor units")
	addCmd.Flags().Int64Var(&paid, "paid", 0, "Paid amount in minor units")
	addCmd.Flags().StringSliceVar(&workTypes, "work-type", nil, "Work types (repeatable)")
	addCmd.Flags().StringVar(&description, "description", "", "Free-form description")
	addCmd.MarkFlagRequired("client")
	addCmd.MarkFlagRequired("date")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List work transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/works/"
			if clientID != "" {
				path += "?client_id=" + clientID
			}
			return getJSON(path)
		},
	}
	listCmd.Flags().StringVar(&clientID, "client", "", "Filter by client ID")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a work transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodDelete, "/api/v1/works/"+args[0], nil)
		},
	}

	cmd.AddCommand(addCmd, listCmd, deleteCmd)

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate work statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/works/stats")
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [client-id]",
		Short: "Reconcile balances (all clients, or one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return postJSON("/api/v1/clients/"+args[0]+"/balance/reconcile", nil)
			}
			return postJSON("/api/v1/admin/reconcile", nil)
		},
	}
}

func cleanupCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Prune old balance history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/admin/history/cleanup", map[string]any{
				"keep_last_n": keep,
			})
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "History entries to keep per client (0 uses the server default)")

	return cmd
}

func getJSON(path string) error {
	return doRequest(http.MethodGet, path, nil)
}

func postJSON(path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	return doRequest(http.MethodPost, path, body)
}

func doRequest(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(data), 200))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		fmt.Printf("OK (status %d)\n", resp.StatusCode)
		return nil
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		fmt.Println(string(data))
		return nil
	}

	printJSON(decoded)

	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-3] + "..."
}
