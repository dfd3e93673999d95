package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/output"
	"github.com/dsablic/healthlog/internal/score"
)

type revisionView struct {
	Hash    string              `json:"hash"`
	When    string              `json:"when"`
	Message string              `json:"message"`
	Score   int                 `json:"score"`
	Entry   model.DailyLogEntry `json:"entry"`
}

func newHistoryCmd(a *app) *cobra.Command {
	var date string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List every recorded version of a day's log from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := model.NewDay(time.Now())
			if date != "" {
				parsed, err := model.ParseDay(date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				d = parsed
			}

			store, err := a.journal()
			if err != nil {
				return err
			}
			revs, err := store.Revisions(d)
			if err != nil {
				return fmt.Errorf("history for %s: %w", d, err)
			}
			engine, _, err := a.scoringOptions()
			if err != nil {
				return err
			}

			views := make([]revisionView, 0, len(revs))
			for _, r := range revs {
				views = append(views, revisionView{
					Hash:    r.Hash,
					When:    r.When.Format(time.RFC3339),
					Message: r.Message,
					Score:   engine.Composite(r.Entry),
					Entry:   r.Entry,
				})
			}

			if asJSON {
				return output.WriteJSON(os.Stdout, views)
			}
			for _, v := range views {
				e := v.Entry
				fmt.Fprintf(os.Stdout, "%s  %s  score %3d (%s)  mood %g sleep %g water %g nutrition %g exercise %g stress %g\n",
					v.Hash[:8], v.When, v.Score, score.Classify(v.Score),
					e.Mood.Float(), e.SleepHours.Float(), e.WaterConsumed.Float(),
					e.Nutrition.Float(), e.ExerciseDuration.Float(), e.StressLevel.Float())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to inspect (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of text")
	return cmd
}
