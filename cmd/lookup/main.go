package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/zap"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/infrastructure/config"
	"github.com/davidleathers/caller-identity/internal/infrastructure/directory"
	"github.com/davidleathers/caller-identity/internal/service/lookup"
)

const (
	exitFound    = 0
	exitNotFound = 1
	exitBadInput = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		contacts   = flag.String("contacts", "", "Path to the contacts CSV file")
		region     = flag.String("region", "", "Default region for national-format numbers (e.g. US, GB)")
		number     = flag.String("number", "", "Phone number to identify")
	)
	flag.Parse()

	// The number may also be given as the sole positional argument.
	if *number == "" && flag.NArg() == 1 {
		*number = flag.Arg(0)
	}
	if *number == "" {
		fmt.Fprintln(os.Stderr, "usage: lookup [-config path] [-contacts path] [-region XX] <number>")
		return exitBadInput
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitBadInput
	}
	if *contacts != "" {
		cfg.Directory.Path = *contacts
	}
	if *region != "" {
		cfg.Directory.DefaultRegion = *region
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	var dir lookup.Directory
	idx, err := directory.Load(cfg.Directory.Path, directory.Options{
		PhoneColumn:   cfg.Directory.PhoneColumn,
		NameColumn:    cfg.Directory.NameColumn,
		DefaultRegion: cfg.Directory.DefaultRegion,
	}, zap.NewNop())
	if err != nil {
		// A contacts file the user asked for by name must exist; the
		// built-in default is allowed to be absent.
		if *contacts != "" {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitBadInput
		}
		logger.Warn("continuing without local directory", "error", err)
	} else {
		dir = idx
	}

	svc := lookup.NewService(dir, lookup.DefaultProviders(lookup.ProvidersConfig{
		Timeout:               cfg.Providers.Timeout,
		TwilioAccountSID:      cfg.Providers.Twilio.AccountSID,
		TwilioAuthToken:       cfg.Providers.Twilio.AuthToken,
		NumverifyAPIKey:       cfg.Providers.Numverify.APIKey,
		YelpAPIKey:            cfg.Providers.Yelp.APIKey,
		GooglePlacesAPIKey:    cfg.Providers.GooglePlaces.APIKey,
		OpenCorporatesAPIKey:  cfg.Providers.OpenCorporates.APIKey,
		OpenCorporatesEnabled: cfg.Providers.OpenCorporates.Enabled,
	}), lookup.Options{
		DefaultRegion: cfg.Directory.DefaultRegion,
		Logger:        logger,
	})

	outcome := svc.Resolve(context.Background(), *number)
	return report(outcome)
}

func report(o identity.ResolutionOutcome) int {
	switch o.Kind {
	case identity.OutcomeParseFailure:
		fmt.Fprintf(os.Stderr, "error: unparseable number: %s\n", o.Reason)
		return exitBadInput

	case identity.OutcomeLocalMatch:
		fmt.Printf("%s\t%s\t(contacts)\n", o.Number, o.Name)
		return exitFound

	case identity.OutcomeRemoteMatch:
		fmt.Printf("%s\t%s\t(%s)\n", o.Number, o.Name, o.Provider)
		return exitFound

	case identity.OutcomeHint:
		fmt.Printf("%s\tno name found\n", o.Number)
		fmt.Printf("hint (%s): %s\n", o.Provider, o.Hint)
		return exitNotFound

	default:
		fmt.Printf("%s\tno name found\n", o.Number)
		info := o.Info
		if info.Region != "" {
			fmt.Printf("region: %s\n", info.Region)
		}
		if info.Description != "" {
			fmt.Printf("location: %s\n", info.Description)
		}
		if info.Carrier != "" {
			fmt.Printf("carrier: %s\n", info.Carrier)
		}
		if info.LineType != "" {
			fmt.Printf("line type: %s\n", info.LineType)
		}
		return exitNotFound
	}
}
