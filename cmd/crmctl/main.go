package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	leadtransport "roofing_crm_backend/internal/leads/transport"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "Operator tool for the roofing CRM API",
	Long:  `crmctl pushes lead spreadsheets into a running CRM server and resolves map embeds from the command line.`,
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import leads from a CSV export",
	Long: `Import leads from a CSV export. The first row must hold the column headers;
columns are matched to lead fields by the server.

Examples:
  crmctl import leads.csv -u admin              # Import unassigned
  crmctl import leads.csv -u admin --assign 3   # Assign every lead to member 3
  crmctl import leads.csv -u jane --preview     # Show the detected mapping only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		headers, rows, err := readSheet(f)
		if err != nil {
			return err
		}

		assignTo, _ := cmd.Flags().GetInt64("assign")
		preview, _ := cmd.Flags().GetBool("preview")

		client, err := loggedInClient(cmd)
		if err != nil {
			return err
		}

		req := leadtransport.ImportRequest{Headers: headers, Rows: rows, AssignedToID: assignTo}
		if preview {
			resp, err := client.previewImport(cmd.Context(), req)
			if err != nil {
				return err
			}
			for _, field := range resp.Fields {
				header := field.Header
				if header == "" {
					header = "(not mapped)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s <- %s\n", field.Label, header)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d leads would be imported\n", len(resp.Leads))
			return nil
		}

		resp, err := client.importLeads(cmd.Context(), req)
		if err != nil {
			return err
		}
		assignee := resp.AssignedTo
		if assignee == "" {
			assignee = "Unassigned"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d leads, assigned to %s\n", resp.Imported, assignee)
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <address>",
	Short: "Resolve the map embed URL for an address",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loggedInClient(cmd)
		if err != nil {
			return err
		}
		resp, err := client.mapEmbed(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if resp.PlaceID != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Place ID: %s\n", resp.PlaceID)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.EmbedURI)
		return nil
	},
}

func loggedInClient(cmd *cobra.Command) (*apiClient, error) {
	server, _ := cmd.Flags().GetString("server")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("CRM_PASSWORD")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required (use --password or CRM_PASSWORD)")
	}

	client := newAPIClient(server)
	if _, err := client.login(cmd.Context(), username, password); err != nil {
		return nil, err
	}
	return client, nil
}

func init() {
	rootCmd.PersistentFlags().String("server", envOr("CRM_SERVER", "http://localhost:8080"), "API server base URL")
	rootCmd.PersistentFlags().StringP("username", "u", os.Getenv("CRM_USERNAME"), "Login username")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Login password (defaults to CRM_PASSWORD)")

	importCmd.Flags().Int64("assign", 0, "Team member id to assign every imported lead to")
	importCmd.Flags().Bool("preview", false, "Only show the detected column mapping")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(mapCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
