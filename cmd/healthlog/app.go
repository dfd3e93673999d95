package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dsablic/healthlog/internal/auth"
	"github.com/dsablic/healthlog/internal/backend"
	"github.com/dsablic/healthlog/internal/config"
	"github.com/dsablic/healthlog/internal/dashboard"
	"github.com/dsablic/healthlog/internal/insight"
	"github.com/dsablic/healthlog/internal/journal"
	"github.com/dsablic/healthlog/internal/logging"
	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/score"
	"github.com/dsablic/healthlog/internal/ui"
)

// app carries the state shared by every command.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	creds   *auth.FileStore
	offline bool
}

func (a *app) init(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("profile"); p != "" {
		cfg.Profile = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	a.offline, _ = cmd.Flags().GetBool("offline")

	a.cfg = cfg
	a.log = logging.New(os.Stderr, cfg.LogLevel, ui.IsStderrTTY())
	a.creds = auth.NewFileStore(auth.DefaultStorePath(config.DefaultDir()))
	a.log.Debug().Str("backend", cfg.BackendURL).Str("profile", cfg.Profile).Msg("configuration loaded")
	return nil
}

// client returns a backend client for the active profile's session.
func (a *app) client() (*backend.Client, error) {
	cred, err := a.creds.LoadWithEnv(a.cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("not logged in (run `healthlog auth login`): %w", err)
	}
	if cred.Expired() {
		return nil, fmt.Errorf("session for profile %q expired at %s; run `healthlog auth login`",
			a.cfg.Profile, cred.ExpiresAt.Format(time.RFC3339))
	}
	return backend.New(a.cfg.BackendURL, cred.AccessToken, a.cfg.RequestsPerSecond), nil
}

func (a *app) journal() (*journal.Store, error) {
	return journal.Open(a.cfg.JournalDir)
}

// fetch returns logs for [from, to]. Online, it pulls from the backend and
// caches the result in the journal; if that fails it falls back to the
// journal and reports the failure in the returned error strings.
func (a *app) fetch(ctx context.Context, from, to model.Day) ([]model.DailyLogEntry, []string, error) {
	store, err := a.journal()
	if err != nil {
		return nil, nil, err
	}

	var errs []string
	if !a.offline {
		entries, err := a.fetchRemote(ctx, store, from, to)
		if err == nil {
			return entries, nil, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		a.log.Warn().Err(err).Msg("backend unavailable, using local journal")
		errs = append(errs, err.Error())
	}

	entries, err := store.Range(from, to)
	if err != nil {
		return nil, errs, err
	}
	return entries, errs, nil
}

func (a *app) fetchRemote(ctx context.Context, store *journal.Store, from, to model.Day) ([]model.DailyLogEntry, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	entries, err := c.ListLogs(ctx, from, to)
	if err != nil {
		return nil, err
	}
	n, err := store.SaveAll(entries, fmt.Sprintf("Sync %s..%s", from, to))
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to cache logs in journal")
	} else {
		a.log.Info().Int("fetched", len(entries)).Int("changed", n).Msg("synced logs")
	}
	return entries, nil
}

// scoringOptions builds the engine and rules from configuration. The rules
// file may also carry a top-level weights section.
func (a *app) scoringOptions() (*score.Engine, *insight.Generator, error) {
	weights := score.DefaultWeights()
	rules := insight.Default()

	if a.cfg.RulesFile != "" {
		loaded, err := insight.LoadRules(a.cfg.RulesFile)
		if err != nil {
			return nil, nil, err
		}
		rules = loaded

		data, err := os.ReadFile(a.cfg.RulesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("reading rules file: %w", err)
		}
		var file struct {
			Weights *score.Weights `yaml:"weights"`
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, nil, fmt.Errorf("parsing weights: %w", err)
		}
		if file.Weights != nil {
			weights = *file.Weights
		}
	}
	return score.New(weights, a.cfg.ActivityDivisor), rules, nil
}

// windowFlags are shared by the commands that build a dashboard.
type windowFlags struct {
	date   string
	window int
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Last day of the window (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&f.window, "window", 0, "Window size in days (default from HEALTHLOG_WINDOW_SIZE)")
}

func (f *windowFlags) resolve(cfg *config.Config) (model.Day, int, error) {
	end := model.NewDay(time.Now())
	if f.date != "" {
		d, err := model.ParseDay(f.date)
		if err != nil {
			return model.Day{}, 0, fmt.Errorf("invalid --date %q: %w", f.date, err)
		}
		end = d
	}
	size := f.window
	if size <= 0 {
		size = cfg.WindowSize
	}
	return end, size, nil
}

func (a *app) buildDashboard(ctx context.Context, f *windowFlags) (model.Dashboard, error) {
	end, size, err := f.resolve(a.cfg)
	if err != nil {
		return model.Dashboard{}, err
	}
	engine, rules, err := a.scoringOptions()
	if err != nil {
		return model.Dashboard{}, err
	}

	entries, errs, err := a.fetch(ctx, end.AddDays(1-size), end)
	if err != nil {
		return model.Dashboard{}, err
	}

	d := dashboard.Build(entries, dashboard.Options{
		WindowSize: size,
		EndDate:    end,
		Engine:     engine,
		Rules:      rules,
		Now:        time.Now(),
	})
	d.Errors = errs
	return d, nil
}
