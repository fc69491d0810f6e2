package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/printworks/answer-engine/internal/answer"
	"github.com/printworks/answer-engine/internal/app"
)

// newQueryCmd creates the query subcommand.
func newQueryCmd() *cobra.Command {
	var (
		language  string
		maxUpsell int
		firstTime bool
	)

	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Run a query through the full answer pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queryText := strings.Join(args, " ")

			engine, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}
			defer engine.Close()

			callerContext := map[string]string{}
			if firstTime {
				callerContext["is_first_time"] = "true"
			}

			var resp *answer.Response
			if outputJSON {
				resp = runQuery(cmd.Context(), engine, queryText, language, callerContext, maxUpsell)
			} else {
				sp := newSpinner("thinking...")
				sp.Start()
				resp = runQuery(cmd.Context(), engine, queryText, language, callerContext, maxUpsell)
				sp.Stop()
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(resp)
			}

			printResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "response language (uk, ru)")
	cmd.Flags().IntVar(&maxUpsell, "max-upsell", 0, "override the maximum number of suggestions")
	cmd.Flags().BoolVar(&firstTime, "first-time", false, "treat the caller as a first-time customer")

	return cmd
}

func runQuery(ctx context.Context, engine *app.App, text, language string, callerContext map[string]string, maxUpsell int) *answer.Response {
	return engine.Service.Answer(ctx, answer.Request{
		Query:         text,
		Language:      language,
		CallerContext: callerContext,
		MaxUpsell:     maxUpsell,
	})
}

func printResponse(resp *answer.Response) {
	if !resp.Answered {
		warnf("no answer (%s)", resp.NoAnswerReason)
		fmt.Println(resp.Message)
		return
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	fmt.Println(resp.Message)
	fmt.Println()
	bold.Printf("anchor: ")
	fmt.Printf("%s (%s)\n", resp.AnchorID, resp.Category)
	if len(resp.UpsellIDs) > 0 {
		bold.Printf("upsells: ")
		fmt.Println(strings.Join(resp.UpsellIDs, ", "))
	}
	if len(resp.Tags) > 0 {
		names := make([]string, 0, len(resp.Tags))
		for _, t := range resp.Tags {
			names = append(names, fmt.Sprintf("%s(%.1f)", t.Name, t.Weight))
		}
		dim.Printf("tags: %s\n", strings.Join(names, " "))
	}
	dim.Printf("latency: %dms\n", resp.Elapsed.Milliseconds())
}
