package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dsablic/healthlog/internal/backend"
	"github.com/dsablic/healthlog/internal/journal"
	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/ui"
)

var fieldFlags = []string{"mood", "sleep", "water", "nutrition", "exercise", "stress", "notes"}

func newLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record the log for a day",
		Long: "Record the log for a day. With no metric flags an interactive form is shown, " +
			"prefilled from the journal. An existing log for the day is replaced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, a)
		},
	}
	cmd.Flags().String("date", "", "Day to log (YYYY-MM-DD, default today)")
	cmd.Flags().Float64("mood", 0, "Mood, 0-100")
	cmd.Flags().Float64("sleep", 0, "Hours slept")
	cmd.Flags().Float64("water", 0, "Glasses of water")
	cmd.Flags().Float64("nutrition", 0, "Nutrition score, 0-100")
	cmd.Flags().Float64("exercise", 0, "Minutes of exercise")
	cmd.Flags().Float64("stress", 0, "Stress level, 0-100")
	cmd.Flags().String("notes", "", "Free-form notes")
	return cmd
}

func runLog(cmd *cobra.Command, a *app) error {
	date := model.NewDay(time.Now())
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		d, err := model.ParseDay(s)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", s, err)
		}
		date = d
	}

	store, err := a.journal()
	if err != nil {
		return err
	}
	var existing *model.DailyLogEntry
	if e, err := store.Get(date); err == nil {
		existing = &e
	} else if !errors.Is(err, journal.ErrNotFound) {
		return err
	}

	entry, err := entryFromFlags(cmd, date, existing)
	if err != nil {
		return err
	}

	if !a.offline {
		c, err := a.client()
		if err != nil {
			return err
		}
		saved, err := c.SubmitLog(cmd.Context(), entry)
		if errors.Is(err, backend.ErrConflict) {
			a.log.Debug().Str("date", date.String()).Msg("log exists, replacing")
			saved, err = c.UpdateLog(cmd.Context(), entry)
		}
		if err != nil {
			return err
		}
		if !saved.Date.IsZero() {
			entry = saved
		}
	}

	if _, err := store.Save(entry, "Log "+date.String()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Logged %s.\n", date)
	return nil
}

func entryFromFlags(cmd *cobra.Command, date model.Day, existing *model.DailyLogEntry) (model.DailyLogEntry, error) {
	anySet := false
	for _, name := range fieldFlags {
		anySet = anySet || cmd.Flags().Changed(name)
	}

	if !anySet {
		if !ui.IsInputTTY() {
			return model.DailyLogEntry{}, fmt.Errorf("no field flags given and stdin is not a terminal")
		}
		values := ui.NewLogFormValues(date, existing)
		if err := ui.LogForm(values).RunWithContext(cmd.Context()); err != nil {
			return model.DailyLogEntry{}, err
		}
		return values.Entry()
	}

	entry := model.DailyLogEntry{Date: date}
	if existing != nil {
		entry = *existing
		entry.Date = date
	}
	fields := []struct {
		name string
		dst  *model.Metric
	}{
		{"mood", &entry.Mood},
		{"sleep", &entry.SleepHours},
		{"water", &entry.WaterConsumed},
		{"nutrition", &entry.Nutrition},
		{"exercise", &entry.ExerciseDuration},
		{"stress", &entry.StressLevel},
	}
	for _, f := range fields {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, _ := cmd.Flags().GetFloat64(f.name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.DailyLogEntry{}, fmt.Errorf("--%s must be a finite number", f.name)
		}
		*f.dst = model.Metric(v)
	}
	if cmd.Flags().Changed("notes") {
		entry.Notes, _ = cmd.Flags().GetString("notes")
	}
	return entry, nil
}
