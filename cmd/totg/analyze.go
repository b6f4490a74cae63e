package totg

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soundprediction/totg"
	"github.com/soundprediction/totg/pkg/config"
	"github.com/soundprediction/totg/pkg/telemetry"
	"github.com/soundprediction/totg/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <snapshot.json>",
	Short: "Run long-chain analysis over a graph snapshot",
	Long: `Load a graph snapshot written by the export endpoint or SaveSnapshot
and run chunked long-chain analysis over it.

The analysis walks the timeline from the start document in fixed-size
chunks, carrying a bounded summary between chunks, and prints the
critical events, causal links, and key entities it finds.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeStart   string
	analyzeEnd     string
	analyzeMaxDays int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "Start document id (required)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "End document id (optional)")
	analyzeCmd.Flags().IntVar(&analyzeMaxDays, "max-days", 0, "Maximum days to analyze (default 1825)")
	analyzeCmd.MarkFlagRequired("start")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := initializeClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize TOTG: %w", err)
	}

	if err := loadSnapshot(client, args[0]); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	result, err := client.AnalyzeLongChain(cmd.Context(), analyzeStart, analyzeEnd, analyzeMaxDays)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println(result.Summary())

	if cfg.Telemetry.Enabled {
		writer, err := telemetry.NewMetricsWriter(cfg.Telemetry.ParquetPath)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize metrics writer: %v\n", err)
			return nil
		}
		path, err := writer.RecordAnalysis(uuid.New().String(), result)
		if err != nil {
			fmt.Printf("Warning: Failed to record analysis metrics: %v\n", err)
		} else if path != "" {
			fmt.Printf("Analysis metrics written to: %s\n", path)
		}
	}

	return nil
}

// loadSnapshot rebuilds a graph from an exported snapshot file.
func loadSnapshot(client *totg.Client, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var snapshot types.GraphExport
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	for _, node := range snapshot.Nodes {
		if _, err := client.AddDocumentISO(node.ID, node.Content, node.Timestamp, node.Metadata); err != nil {
			return fmt.Errorf("document %s: %w", node.ID, err)
		}
	}
	for _, edge := range snapshot.Edges {
		if _, err := client.AddRelationship(edge.From, edge.To, edge.Relation, edge.Weight, edge.Metadata); err != nil {
			return fmt.Errorf("relationship %s->%s: %w", edge.From, edge.To, err)
		}
	}

	fmt.Printf("Loaded %d documents and %d relationships\n", len(snapshot.Nodes), len(snapshot.Edges))
	return nil
}
