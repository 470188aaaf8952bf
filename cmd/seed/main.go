package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"studiobooking/internal/config"
	"studiobooking/internal/database"
	"studiobooking/internal/domain"
	"studiobooking/internal/modules/catalog"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: true})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}

	res, err := seed(context.Background(), db)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().
		Int("packages", res.Packages).
		Int("additional_services", res.Services).
		Int("studios", res.Studios).
		Msg("Seed completed")
}

type result struct {
	Packages int
	Services int
	Studios  int
}

var defaultPackages = []catalog.PackageInput{
	{
		Name:         "Recording (Video + Audio)",
		Description:  "Professional recording package with multi-camera setup and high-quality audio",
		PricePerHour: decimal.NewFromInt(600),
		DeliveryTime: "24 hours",
		Perks: []domain.Perk{
			{Name: "Raw video in multiple resolutions (1080p/4K)"},
			{Name: "Audio files in multiple formats (MP3, WAV, MP4)"},
			{Name: "Audio/ video syncing"},
			{Name: "Color grading"},
			{Name: "Noise reduction"},
			{Name: "Revisions", Count: 2},
			{Name: "Transcript"},
			{Name: "SEO optimized show notes"},
		},
	},
	{
		Name:         "Recording + Professional Edit",
		Description:  "Complete recording and professional editing package with revisions",
		PricePerHour: decimal.NewFromInt(950),
		DeliveryTime: "72 hours",
		Perks: []domain.Perk{
			{Name: "Raw video in multiple resolutions (1080p/4K)"},
			{Name: "Audio files in multiple formats (MP3, WAV, MP4)"},
		},
	},
}

var defaultServices = []catalog.CreateServiceRequest{
	{
		Title:       "Standard Edit (Short Form)",
		Type:        string(domain.ServiceStandardEditShortForm),
		Price:       decimal.NewFromInt(176),
		Description: "Short-form video clips optimized for social media, using simple transitions and branding.",
	},
	{
		Title:       "Custom Edit (Short Form)",
		Type:        string(domain.ServiceCustomEditShortForm),
		Price:       decimal.NewFromInt(440),
		Description: "High-quality, premium reels with advanced editing, motion graphics, and engaging cuts.",
	},
	{
		Title:       "Standard Edit (Long Form)",
		Type:        string(domain.ServiceStandardEditLongForm),
		Price:       decimal.NewFromInt(440),
		Description: "Basic podcast episode editing, including noise reduction, filler word removal, and audio balancing.",
	},
	{
		Title:       "Custom Edit (Long Form)",
		Type:        string(domain.ServiceCustomEditLongForm),
		Price:       decimal.NewFromInt(960),
		Description: "Professional-grade editing with in-depth sound design, smooth transitions, and high production quality.",
	},
	{
		Title:       "Live Video Cutting with Synced Audio",
		Type:        string(domain.ServiceLiveVideoCutting),
		Price:       decimal.NewFromInt(150),
		Description: "Real-time video switching and cutting with perfectly synced audio for a polished final content.",
	},
	{
		Title:       "Subtitles (per session)",
		Type:        string(domain.ServiceSubtitles),
		Price:       decimal.NewFromInt(440),
		Description: "Accurate subtitles and captions to improve accessibility and engagement for video content.",
	},
	{
		Title:       "Teleprompter Support",
		Type:        string(domain.ServiceTeleprompterSupport),
		Price:       decimal.NewFromInt(80),
		Description: "On-screen script assistance for seamless delivery, perfect for structured interviews and presentations.",
	},
}

var defaultStudio = catalog.CreateStudioRequest{
	Name:        "Setup 1",
	Location:    "Dubai",
	TotalSeats:  4,
	OpeningTime: "10:00",
	ClosingTime: "21:00",
}

// seed inserts the default catalog through the catalog service. Each group is
// skipped when its table already has rows, so reruns are harmless.
func seed(ctx context.Context, db *gorm.DB) (result, error) {
	var res result
	svc := catalog.NewService(
		repository.NewStudioRepository(db),
		repository.NewPackageRepository(db),
		repository.NewAdditionalServiceRepository(db),
		nil,
	)

	if empty, err := isEmpty(db, &domain.Package{}); err != nil {
		return res, err
	} else if empty {
		for _, in := range defaultPackages {
			if _, err := svc.CreatePackage(ctx, catalog.CreatePackageRequest{PackageInput: in}); err != nil {
				return res, fmt.Errorf("create package %q: %w", in.Name, err)
			}
			res.Packages++
		}
	}

	if empty, err := isEmpty(db, &domain.AdditionalService{}); err != nil {
		return res, err
	} else if empty {
		for _, in := range defaultServices {
			if _, err := svc.CreateService(ctx, in); err != nil {
				return res, fmt.Errorf("create additional service %q: %w", in.Title, err)
			}
			res.Services++
		}
	}

	if empty, err := isEmpty(db, &domain.Studio{}); err != nil {
		return res, err
	} else if empty {
		if _, err := svc.CreateStudio(ctx, defaultStudio); err != nil {
			return res, fmt.Errorf("create studio %q: %w", defaultStudio.Name, err)
		}
		res.Studios++
	}

	return res, nil
}

func isEmpty(db *gorm.DB, model any) (bool, error) {
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}
