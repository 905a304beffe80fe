package main

import (
	"fmt"
	"net"
	"os"
	"os/user"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fintools/proceeds/pkg/server"
	"github.com/fintools/proceeds/pkg/services/config"
	"github.com/fintools/proceeds/pkg/services/currency"
	"github.com/fintools/proceeds/pkg/services/proceeds"
	"github.com/fintools/proceeds/pkg/store/cache"
	"github.com/fintools/proceeds/pkg/store/client"
)

var (
	credentialsPath string
	settingsPath    string
	profileName     string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the proceeds API",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&credentialsPath, "credentials", "c", defaultCredentialsPath(),
		"Path to the credentials file (default is $HOME/.proceeds/credentials)")
	rootCmd.Flags().StringVar(&settingsPath, "config", "", "Path to the settings file")
	rootCmd.Flags().StringVar(&profileName, "profile", "default", "Credentials profile to use")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func defaultCredentialsPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".proceeds/credentials"
	}
	return fmt.Sprintf("%s/.proceeds/credentials", usr.HomeDir)
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings := config.DefaultSettings()
	if settingsPath != "" {
		loaded, err := config.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
		settings = loaded
	}

	registry, err := config.NewRegistry(credentialsPath)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	profile, err := registry.GetProfile(ctx, profileName)
	if err != nil {
		return err
	}
	logger.Info().Msgf("Using credentials profile `%s`.", profile)

	tokens, err := client.NewES256TokenProvider(profile.KeyID, profile.IssuerID, profile.KeyPath)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}

	store, err := cache.Open(settings.CachePath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	appStore := client.NewAppStoreClient(tokens, profile.Vendor)
	converter := currency.NewConverter(client.NewRateClient(settings.RatesURL), settings.TargetCurrency)
	ctrl := proceeds.NewController(appStore, appStore, converter, store)

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Reports: ctrl,
		},
	})

	return api.Start()
}
