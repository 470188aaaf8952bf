package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"studiobooking/internal/config"
	"studiobooking/internal/database"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/repository"
)

func main() {
	before := flag.String("before", "", "delete bookings created before this date (YYYY-MM-DD); empty deletes all")
	yes := flag.Bool("yes", false, "confirm deleting every booking when -before is empty")
	flag.Parse()

	cutoff, err := parseCutoff(*before)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cutoff.IsZero() && !*yes {
		fmt.Fprintln(os.Stderr, "refusing to delete all bookings without -yes")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: true})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer database.Close(db)

	res, err := repository.NewBookingRepository(db).DeleteBookings(context.Background(), cutoff)
	if err != nil {
		log.Fatal().Err(err).Msg("booking cleanup failed")
	}

	log.Info().
		Int64("bookings", res.Bookings).
		Int64("line_items", res.LineItems).
		Int64("payments", res.Payments).
		Int64("payment_links", res.PaymentLinks).
		Msg("booking cleanup completed")
}

// parseCutoff reads a UTC calendar date. An empty value means no cutoff.
func parseCutoff(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -before %q: want YYYY-MM-DD", s)
	}
	return t, nil
}
