package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"voc-backend/internal/analysis"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var req analysis.Request
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one VOC through the analysis pipeline",
		Long: `Run one VOC through the RAG, rule-based and direct LLM tiers and print the result.

Example:
  vocctl analyze --title "결제 오류" --content "결제 중 타임아웃이 발생합니다"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			built, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer built.Close()

			res, err := built.AnalysisService.Analyze(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			return a.printJSON(res)
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "VOC title")
	cmd.Flags().StringVar(&req.Content, "content", "", "VOC body")
	cmd.Flags().StringVar(&req.ServiceName, "service", "", "service name that pins the log category")
	return cmd
}
