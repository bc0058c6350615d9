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
	baseURL  string
	tenantID string
	timeout  time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mitrabooks-cli",
		Short: "MitraBooks CLI tool",
		Long:  `A command line interface for operating the MitraBooks accounting API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the MitraBooks API")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "Tenant ID sent as X-Tenant-ID")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(), periodsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var business string
	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that debit and credit totals match",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/ledger/consistency"
			if business != "" {
				path += "?business=" + business
			}
			return doRequest(http.MethodGet, path, nil)
		},
	}
	consistencyCmd.Flags().StringVar(&business, "business", "", "Restrict the check to one business")

	cmd.AddCommand(consistencyCmd)
	return cmd
}

func periodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Accounting period operations",
	}

	var business string
	cmd.PersistentFlags().StringVar(&business, "business", "", "Business ID")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounting periods for a business",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, periodPath(business, ""), nil)
		},
	}

	var byUser string
	transition := func(action, short string) *cobra.Command {
		c := &cobra.Command{
			Use:   action + " <period-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				body := map[string]string{"by_user": byUser}
				return doRequest(http.MethodPost, periodPath(business, args[0])+"/"+action, body)
			},
		}
		c.Flags().StringVar(&byUser, "by", "cli", "User recorded on the transition")
		return c
	}

	cmd.AddCommand(
		listCmd,
		transition("close", "Close an open period"),
		transition("reopen", "Reopen a closed period"),
		transition("lock", "Permanently lock a closed period"),
	)
	return cmd
}

func periodPath(business, periodID string) string {
	path := fmt.Sprintf("/api/v1/businesses/%s/accounting-periods", business)
	if periodID != "" {
		path += "/" + periodID
	}
	return path
}

func doRequest(method, path string, body any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var payload any
	if err := json.Unmarshal(respBody, &payload); err != nil {
		fmt.Println(string(respBody))
		return nil
	}
	printJSON(payload)
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(data))
}
