package lead

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/repository"
)

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) Enabled() bool { return true }

func (m *MockCRM) CreateLeadEntry(ctx context.Context, l *domain.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:lead_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

func newTestService(t *testing.T, crm CRM) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewService(repository.NewLeadRepository(db), repository.NewBookingRepository(db), crm, time.Second)
	svc.dispatch = func(fn func()) { fn() }
	return svc, db
}

func TestService_Create_UpsertsByEmail(t *testing.T) {
	crm := new(MockCRM)
	crm.On("CreateLeadEntry", mock.Anything, mock.AnythingOfType("*domain.Lead")).Return(nil).Twice()
	svc, _ := newTestService(t, crm)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateLeadRequest{FullName: "Omar Haddad", Email: "Omar@Example.com", PhoneNumber: "+971500000001"})
	require.NoError(t, err)
	assert.Equal(t, "omar@example.com", first.EmailValue())

	second, err := svc.Create(ctx, CreateLeadRequest{FullName: "Omar H.", Email: "omar@example.com", PhoneNumber: "+971500000002", WhatsappNumber: "+971500000002"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Omar H.", second.FullName)
	assert.Equal(t, "+971500000002", second.PhoneNumber)

	crm.AssertExpectations(t)
}

func TestService_Create_WithoutEmailAlwaysInserts(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateLeadRequest{FullName: "Walk In", PhoneNumber: "+971500000010"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateLeadRequest{FullName: "Walk In", PhoneNumber: "+971500000010"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Email)
}

func TestService_Create_CRMFailureDoesNotFailRequest(t *testing.T) {
	crm := new(MockCRM)
	crm.On("CreateLeadEntry", mock.Anything, mock.Anything).Return(errors.New("notion down")).Once()
	svc, _ := newTestService(t, crm)

	l, err := svc.Create(context.Background(), CreateLeadRequest{FullName: "Sara", Email: "sara@example.com", PhoneNumber: "+971500000004"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, l.ID)
	crm.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(context.Background(), CreateLeadRequest{Email: "not-an-email"})
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "required", e.Details["full_name"])
	assert.Equal(t, "required", e.Details["phone_number"])
	assert.Equal(t, "email", e.Details["email"])
}

func TestService_List_SearchAndPagination(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, CreateLeadRequest{
			FullName:    fmt.Sprintf("Guest %d", i),
			Email:       fmt.Sprintf("guest%d@example.com", i),
			PhoneNumber: fmt.Sprintf("+97150000010%d", i),
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, CreateLeadRequest{FullName: "Layla Noor", Email: "layla@example.com", PhoneNumber: "+971500000200"})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListQuery{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Leads, 2)

	found, err := svc.List(ctx, ListQuery{Search: "LAYLA"})
	require.NoError(t, err)
	require.Len(t, found.Leads, 1)
	assert.Equal(t, "Layla Noor", found.Leads[0].FullName)
	assert.Equal(t, defaultPageSize, found.PerPage)

	none, err := svc.List(ctx, ListQuery{Search: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none.Leads)
	assert.Empty(t, none.Leads)

	_, err = svc.List(ctx, ListQuery{Limit: 500})
	assert.True(t, apperr.IsValidation(err))
}

func TestService_Get_IncludesRecentBookings(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()

	l, err := svc.Create(ctx, CreateLeadRequest{FullName: "Omar", Email: "omar@example.com", PhoneNumber: "+971500000001"})
	require.NoError(t, err)

	studio := &domain.Studio{Name: "Setup A", Slug: "setup-a", TotalSeats: 4, OpeningTime: "10:00", ClosingTime: "21:00"}
	require.NoError(t, db.Create(studio).Error)
	pkg := &domain.Package{Name: "Recording Only", PricePerHour: decimal.NewFromInt(600)}
	require.NoError(t, db.Create(pkg).Error)

	start := time.Date(2030, time.March, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&domain.Booking{
		StudioID:      studio.ID,
		PackageID:     pkg.ID,
		LeadID:        l.ID,
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		DurationHours: 2,
		NumberOfSeats: 1,
		BaseCost:      decimal.NewFromInt(1200),
		TotalCost:     decimal.NewFromInt(1260),
	}).Error)

	detail, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, detail.Bookings, 1)
	require.NotNil(t, detail.Bookings[0].Studio)
	assert.Equal(t, "Setup A", detail.Bookings[0].Studio.Name)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
