package discount

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/pricing"
	"studiobooking/internal/repository"
)

var fixedNow = time.Date(2030, time.March, 1, 8, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:discount_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewService(repository.NewStore(db), repository.NewDiscountRepository(db), repository.NewBookingRepository(db))
	svc.now = func() time.Time { return fixedNow }
	return svc, db
}

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// seedBooking stores a booking for a lead with the given email.
func seedBooking(t *testing.T, db *gorm.DB, email string, discountID *uuid.UUID) {
	t.Helper()
	lead := &domain.Lead{FullName: "Guest", Email: &email}
	require.NoError(t, db.Create(lead).Error)
	studio := &domain.Studio{Name: "Setup " + email, Slug: uuid.NewString(), TotalSeats: 2, OpeningTime: "10:00", ClosingTime: "21:00"}
	require.NoError(t, db.Create(studio).Error)
	pkg := &domain.Package{Name: "Recording Only", PricePerHour: decimal.NewFromInt(600)}
	require.NoError(t, db.Create(pkg).Error)

	start := fixedNow.AddDate(0, 0, 3)
	require.NoError(t, db.Create(&domain.Booking{
		StudioID:       studio.ID,
		PackageID:      pkg.ID,
		LeadID:         lead.ID,
		DiscountCodeID: discountID,
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
		DurationHours:  1,
		NumberOfSeats:  1,
		BaseCost:       decimal.NewFromInt(600),
		TotalCost:      decimal.NewFromInt(630),
	}).Error)
}

func TestService_Create_Defaults(t *testing.T) {
	svc, _ := newTestService(t)

	d, err := svc.Create(context.Background(), CreateDiscountRequest{Code: "  summer10 ", Value: decimal.NewFromInt(10)})
	require.NoError(t, err)

	assert.Equal(t, "SUMMER10", d.Code)
	assert.Equal(t, domain.DiscountPercentage, d.Type)
	assert.True(t, d.IsActive)
	assert.True(t, d.StartDate.Equal(fixedNow))
	assert.True(t, d.EndDate.Equal(fixedNow.AddDate(1, 0, 0)))
}

func TestService_Create_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateDiscountRequest{Code: "TAKEN", Value: decimal.NewFromInt(5)})
	require.NoError(t, err)

	start := fixedNow.AddDate(0, 1, 0)
	end := fixedNow

	tests := []struct {
		name string
		req  CreateDiscountRequest
		want error
	}{
		{name: "duplicate code any case", req: CreateDiscountRequest{Code: "taken", Value: decimal.NewFromInt(5)}, want: ErrDuplicateCode},
		{name: "zero value", req: CreateDiscountRequest{Code: "ZERO"}, want: ErrInvalidValue},
		{name: "percentage above 100", req: CreateDiscountRequest{Code: "HUGE", Value: decimal.NewFromInt(150)}, want: ErrInvalidValue},
		{name: "end before start", req: CreateDiscountRequest{Code: "BACKWARDS", Value: decimal.NewFromInt(5), StartDate: &start, EndDate: &end}, want: ErrInvalidPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = svc.Create(ctx, CreateDiscountRequest{Code: "BADTYPE", Type: "BOGO", Value: decimal.NewFromInt(5)})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "oneof", e.Details["type"])
}

func TestService_Create_Inactive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	inactive := false

	d, err := svc.Create(ctx, CreateDiscountRequest{Code: "LATER", Type: "FIXED_AMOUNT", Value: decimal.NewFromInt(200), IsActive: &inactive})
	require.NoError(t, err)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, domain.DiscountFixedAmount, got.Type)
}

func TestService_Update(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateDiscountRequest{Code: "SPRING", Value: decimal.NewFromInt(10), MaxUses: intPtr(5)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateDiscountRequest{Code: "OTHER", Value: decimal.NewFromInt(10)})
	require.NoError(t, err)

	inactive := false
	desc := "spring promo"
	updated, err := svc.Update(ctx, d.ID, UpdateDiscountRequest{
		Description: &desc,
		Value:       decPtr("15"),
		MinAmount:   decPtr("500"),
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "spring promo", updated.Description)
	assert.Equal(t, "15.00", updated.Value.StringFixed(2))
	assert.True(t, updated.MinAmount.Valid)
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.MaxUses)
	assert.Equal(t, 5, *updated.MaxUses)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	other := "other"
	_, err = svc.Update(ctx, d.ID, UpdateDiscountRequest{Code: &other})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	_, err = svc.Update(ctx, d.ID, UpdateDiscountRequest{Value: decPtr("101")})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.Update(ctx, uuid.New(), UpdateDiscountRequest{Description: &desc})
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestService_Update_KeepsUsedCount(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateDiscountRequest{Code: "ONCE", Value: decimal.NewFromInt(10), MaxUses: intPtr(1)})
	require.NoError(t, err)

	store := repository.NewStore(db)
	require.NoError(t, store.Transaction(ctx, func(tx *repository.Tx) error {
		return tx.IncrementDiscountUsage(ctx, d.ID)
	}))

	desc := "edited"
	code := "once"
	updated, err := svc.Update(ctx, d.ID, UpdateDiscountRequest{Code: &code, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "ONCE", updated.Code)
	assert.Equal(t, 1, updated.UsedCount)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Description)
	assert.Equal(t, 1, got.UsedCount)

	err = store.Transaction(ctx, func(tx *repository.Tx) error {
		return tx.IncrementDiscountUsage(ctx, d.ID)
	})
	assert.ErrorIs(t, err, repository.ErrLimitReached)
}

func TestService_Delete(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	used, err := svc.Create(ctx, CreateDiscountRequest{Code: "USED", Value: decimal.NewFromInt(10)})
	require.NoError(t, err)
	unused, err := svc.Create(ctx, CreateDiscountRequest{Code: "UNUSED", Value: decimal.NewFromInt(10)})
	require.NoError(t, err)

	seedBooking(t, db, "a@example.com", &used.ID)

	assert.ErrorIs(t, svc.Delete(ctx, used.ID), ErrDiscountInUse)
	require.NoError(t, svc.Delete(ctx, unused.ID))

	_, err = svc.Get(ctx, unused.ID)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, unused.ID), ErrDiscountNotFound)
}

func TestService_Validate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateDiscountRequest{Code: "TEN", Value: decimal.NewFromInt(10), MinAmount: decPtr("500")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateDiscountRequest{Code: "WELCOME", Type: "FIXED_AMOUNT", Value: decimal.NewFromInt(100), FirstTimeOnly: true})
	require.NoError(t, err)

	seedBooking(t, db, "returning@example.com", nil)

	tests := []struct {
		name     string
		q        ValidateQuery
		valid    bool
		reason   string
		discount string
	}{
		{name: "percentage", q: ValidateQuery{Code: "ten", Amount: "1200"}, valid: true, discount: "120.00"},
		{name: "below minimum", q: ValidateQuery{Code: "TEN", Amount: "300"}, reason: "DISCOUNT_BELOW_MINIMUM", discount: "0.00"},
		{name: "unknown code", q: ValidateQuery{Code: "NOPE", Amount: "300"}, reason: "INVALID_DISCOUNT_CODE", discount: "0.00"},
		{name: "first time without email", q: ValidateQuery{Code: "WELCOME", Amount: "300"}, reason: pricing.ErrDiscountNeedsEmail.Code, discount: "0.00"},
		{name: "first time new customer", q: ValidateQuery{Code: "WELCOME", Amount: "300", Email: "new@example.com"}, valid: true, discount: "100.00"},
		{name: "first time returning customer", q: ValidateQuery{Code: "WELCOME", Amount: "300", Email: "Returning@Example.com"}, reason: pricing.ErrDiscountFirstTime.Code, discount: "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Validate(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, out.Valid)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, tt.discount, out.DiscountAmount.StringFixed(2))
		})
	}

	_, err = svc.Validate(ctx, ValidateQuery{Code: "TEN", Amount: "abc"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Validate(ctx, ValidateQuery{Amount: "10"})
	assert.True(t, apperr.IsValidation(err))
}
