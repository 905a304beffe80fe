package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintools/proceeds/pkg/models/domain"
	"github.com/fintools/proceeds/pkg/runtime/terminal/export"
	"github.com/fintools/proceeds/pkg/services/config"
	"github.com/fintools/proceeds/pkg/services/currency"
	"github.com/fintools/proceeds/pkg/services/fiscal"
	"github.com/fintools/proceeds/pkg/services/proceeds"
	"github.com/fintools/proceeds/pkg/store/cache"
	"github.com/fintools/proceeds/pkg/store/client"
)

type ReportCmd struct {
	credentialsPath string
	settingsPath    string
	profile         string
	periodID        string
	currencyCode    string
	noCache         bool
	reporter        *export.Reporter
}

func NewReportCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch and display proceeds for a fiscal period",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.credentialsPath, "credentials", defaultCredentialsPath(),
		"Path to the credentials file")
	cmd.Flags().StringVar(&rc.settingsPath, "config", "", "Path to the settings file")
	cmd.Flags().StringVar(&rc.profile, "profile", "default", "Credentials profile to use")
	cmd.Flags().StringVar(&rc.periodID, "period", "",
		"Fiscal period to report on (e.g. 2026-01; default is the most recent)")
	cmd.Flags().StringVar(&rc.currencyCode, "currency", "", "Target currency override")
	cmd.Flags().BoolVar(&rc.noCache, "no-cache", false, "Bypass the local report cache")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	settings := config.DefaultSettings()
	if rc.settingsPath != "" {
		loaded, err := config.LoadSettings(rc.settingsPath)
		if err != nil {
			return err
		}
		settings = loaded
	}
	if rc.currencyCode != "" {
		settings.TargetCurrency = rc.currencyCode
	}

	registry, err := config.NewRegistry(rc.credentialsPath)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	profile, err := registry.GetProfile(ctx, rc.profile)
	if err != nil {
		return err
	}

	month, err := rc.resolvePeriod()
	if err != nil {
		return err
	}

	ctrl, store, err := buildPipeline(profile, settings, rc.noCache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	result, err := ctrl.GetReport(ctx, month, time.Now())
	if errors.Is(err, client.ErrReportNotFound) {
		return fmt.Errorf("no report available for %s yet, try an earlier period", month.PeriodID)
	}
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	return rc.reporter.Handle(result)
}

func (rc *ReportCmd) resolvePeriod() (domain.CalendarMonth, error) {
	if rc.periodID == "" {
		return fiscal.RecentPeriods(time.Now(), 1)[0], nil
	}

	var fiscalYear, fiscalMonth int
	if _, err := fmt.Sscanf(rc.periodID, "%d-%d", &fiscalYear, &fiscalMonth); err != nil ||
		fiscalMonth < 1 || fiscalMonth > 12 {
		return domain.CalendarMonth{}, fmt.Errorf("period must look like 2026-01, got %q", rc.periodID)
	}
	year, month := fiscal.FromFiscal(fiscalYear, fiscalMonth)
	return fiscal.Month(year, month), nil
}

func buildPipeline(profile *domain.Profile, settings *config.Settings, noCache bool) (*proceeds.Controller, *cache.Store, error) {
	tokens, err := client.NewES256TokenProvider(profile.KeyID, profile.IssuerID, profile.KeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	appStore := client.NewAppStoreClient(tokens, profile.Vendor)
	rates := client.NewRateClient(settings.RatesURL)
	converter := currency.NewConverter(rates, settings.TargetCurrency)

	var store *cache.Store
	if !noCache {
		store, err = cache.Open(settings.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open cache: %w", err)
		}
	}

	return proceeds.NewController(appStore, appStore, converter, store), store, nil
}
