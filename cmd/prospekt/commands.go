package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mazurko/prospekt/internal/config"
	"github.com/mazurko/prospekt/internal/pdfspan"
	"github.com/mazurko/prospekt/internal/profile"
)

// --- submit ---

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Queue a SharePoint document for conversion",
	Long: `Queue a SharePoint document for conversion.

Examples:
  prospekt submit --url https://graph.microsoft.com/v1.0/drives/b!xyz/items/ABC123
  prospekt submit --url https://graph.microsoft.com/v1.0/drives/b!xyz/items/ABC123 --ref "sites/ops/profiles/a-smith.pdf"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		itemURL, _ := cmd.Flags().GetString("url")
		ref, _ := cmd.Flags().GetString("ref")

		if itemURL == "" {
			return fmt.Errorf("--url is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]string{"url": itemURL}
		if ref != "" {
			req["ref"] = ref
		}

		resp, err := client.post(cmd.Context(), "/conversions", req)
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Queued conversion %s", result["id"])
		return nil
	},
}

func init() {
	submitCmd.Flags().String("url", "", "Microsoft Graph drive item URL")
	submitCmd.Flags().String("ref", "", "SharePoint path recorded on the resulting profile")
}

// --- convert ---

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>",
	Short: "Convert a local slide export without the server",
	Long: `Convert a local slide export without the server.

Reads the PDF, parses it into a normalized profile document and writes
the document JSON to stdout or --output. No credentials needed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ref, _ := cmd.Flags().GetString("ref")
		output, _ := cmd.Flags().GetString("output")
		normalize, _ := cmd.Flags().GetBool("normalize-bullets")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("normalize-bullets") {
			normalize = cfg.Parse.BulletNormalization
		}

		spans, err := pdfspan.Extract(path)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}

		parser := profile.NewParser()
		parser.BulletNormalization = normalize
		doc := parser.Parse(spans, ref)

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if output != "" {
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			printSuccess("Document written to %s", output)
			return nil
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	convertCmd.Flags().String("ref", "", "source path recorded in the document")
	convertCmd.Flags().String("output", "", "output file path (default: stdout)")
	convertCmd.Flags().Bool("normalize-bullets", false, "collapse bullet glyph runs (overrides config)")
}

// --- conversions ---

var conversionsCmd = &cobra.Command{
	Use:   "conversions",
	Short: "Inspect submitted conversions",
}

var conversionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/conversions?limit=%d", limit)
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var conversions []struct {
			ID        string `json:"id"`
			SourceURL string `json:"source_url"`
			Status    string `json:"status"`
			CreatedAt string `json:"created_at"`
		}
		if err := decodeJSON(resp, &conversions); err != nil {
			return err
		}

		if len(conversions) == 0 {
			fmt.Println("No conversions found.")
			return nil
		}

		for _, c := range conversions {
			src := c.SourceURL
			if len(src) > 60 {
				src = src[:60] + "..."
			}
			fmt.Printf("%s  %s  %-10s  %s\n",
				colorize(colorCyan, c.ID[:8]),
				c.CreatedAt,
				c.Status,
				src,
			)
		}
		return nil
	},
}

var conversionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single conversion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/conversions/"+args[0])
		if err != nil {
			return err
		}

		var conversion any
		if err := decodeJSON(resp, &conversion); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(conversion)
	},
}

func init() {
	conversionsListCmd.Flags().Int("limit", 20, "maximum number of conversions to list")
	conversionsCmd.AddCommand(conversionsListCmd)
	conversionsCmd.AddCommand(conversionsShowCmd)
}

// --- profiles ---

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage converted profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List converted profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/profiles?limit=%d&offset=%d", limit, offset)
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var profiles []struct {
			ID        string `json:"id"`
			SourceRef string `json:"source_ref"`
			CreatedAt string `json:"created_at"`
		}
		if err := decodeJSON(resp, &profiles); err != nil {
			return err
		}

		if len(profiles) == 0 {
			fmt.Println("No profiles found.")
			return nil
		}

		for _, p := range profiles {
			ref := p.SourceRef
			if ref == "" {
				ref = "(no source ref)"
			}
			fmt.Printf("%s  %s  %s\n",
				colorize(colorCyan, p.ID[:8]),
				p.CreatedAt,
				ref,
			)
		}
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a profile with its document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profiles/"+args[0])
		if err != nil {
			return err
		}

		var prof any
		if err := decodeJSON(resp, &prof); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prof)
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile and its exported document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/profiles/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted profile %s", args[0])
		return nil
	},
}

func init() {
	profilesListCmd.Flags().Int("limit", 20, "maximum number of profiles to list")
	profilesListCmd.Flags().Int("offset", 0, "number of profiles to skip")
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
