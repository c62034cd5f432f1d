package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/dom/daily-checkin/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestDefinitionService_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services, notifier := newTestServices(t, testDB.DB, nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	jan1 := testutil.Day(t, "2024-01-01")
	jan5 := testutil.Day(t, "2024-01-05")

	tests := []struct {
		name    string
		input   service.CreateDefinitionInput
		wantErr error
		check   func(*testing.T, *domain.Definition)
	}{
		{
			name: "recurring every day",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindRecurring,
				Description: "  Drink water ",
			},
			check: func(t *testing.T, def *domain.Definition) {
				assert.Equal(t, domain.DefinitionKindRecurring, def.Kind)
				assert.Equal(t, "Drink water", def.Description)
				assert.Empty(t, def.Weekdays)
				assert.False(t, def.IsTemporary())
			},
		},
		{
			name: "recurring weekdays are deduped and sorted",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindRecurring,
				Description: "Run",
				Weekdays:    []int{5, 1, 3, 1},
			},
			check: func(t *testing.T, def *domain.Definition) {
				assert.Equal(t, []int{1, 3, 5}, def.Weekdays)
			},
		},
		{
			name: "temporary",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindTemporary,
				Description: "Pack for trip",
				StartDate:   timePtr(jan1),
				EndDate:     timePtr(jan5),
			},
			check: func(t *testing.T, def *domain.Definition) {
				assert.True(t, def.IsTemporary())
				require.NotNil(t, def.StartDate)
				require.NotNil(t, def.EndDate)
				assert.Equal(t, jan1, *def.StartDate)
				assert.Equal(t, jan5, *def.EndDate)
			},
		},
		{
			name: "single day temporary",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindTemporary,
				Description: "Dentist",
				StartDate:   timePtr(jan5),
				EndDate:     timePtr(jan5),
			},
		},
		{
			name: "empty description",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindRecurring,
				Description: "   ",
			},
			wantErr: domain.ErrDescriptionEmpty,
		},
		{
			name: "description too long",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindRecurring,
				Description: strings.Repeat("a", domain.MaxDescriptionLength+1),
			},
			wantErr: domain.ErrDescriptionTooLong,
		},
		{
			name: "weekday out of range",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindRecurring,
				Description: "Run",
				Weekdays:    []int{7},
			},
			wantErr: domain.ErrInvalidWeekday,
		},
		{
			name: "range ends before it starts",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindTemporary,
				Description: "Trip",
				StartDate:   timePtr(jan5),
				EndDate:     timePtr(jan1),
			},
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name: "temporary without dates",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindTemporary,
				Description: "Trip",
			},
			wantErr: domain.ErrInvalidDate,
		},
		{
			name: "recurring with a date range",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindRecurring,
				Description: "Run",
				StartDate:   timePtr(jan1),
			},
			wantErr: domain.ErrKindMismatch,
		},
		{
			name: "temporary with weekdays",
			input: service.CreateDefinitionInput{
				Kind:        domain.DefinitionKindTemporary,
				Description: "Trip",
				Weekdays:    []int{1},
				StartDate:   timePtr(jan1),
				EndDate:     timePtr(jan5),
			},
			wantErr: domain.ErrKindMismatch,
		},
		{
			name: "unknown kind",
			input: service.CreateDefinitionInput{
				Kind:        "weekly",
				Description: "Run",
			},
			wantErr: domain.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := services.Definition.Create(ctx, user.ID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, def.ID)
			assert.Equal(t, user.ID, def.UserID)
			if tt.check != nil {
				tt.check(t, def)
			}

			stored, err := services.Definition.Get(ctx, user.ID, def.ID)
			require.NoError(t, err)
			assert.Equal(t, def.Kind, stored.Kind)
			assert.Equal(t, def.Description, stored.Description)
		})
	}

	for _, eventType := range notifier.Types() {
		assert.Equal(t, domain.EventDefinitionChanged, eventType)
	}
	assert.Len(t, notifier.Types(), 4)
}

func TestDefinitionService_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services, _ := newTestServices(t, testDB.DB, nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	run := testutil.NewRecurringBuilder().WithOwner(user).WithDescription("Run").WithWeekdays(1).Build(t, testDB.DB)
	trip := testutil.NewTemporaryBuilder().
		WithOwner(user).
		WithDescription("Trip").
		Between(testutil.Day(t, "2024-01-01"), testutil.Day(t, "2024-01-03")).
		Build(t, testDB.DB)
	testutil.NewEntryBuilder(user.ID, run.ID).On(testutil.Day(t, "2024-01-01")).Build(t, testDB.DB)

	newDescription := "Run 5k"
	weekdays := []int{2, 4}
	def, err := services.Definition.Update(ctx, user.ID, run.ID, service.UpdateDefinitionInput{
		Description: &newDescription,
		Weekdays:    &weekdays,
	})
	require.NoError(t, err)
	assert.Equal(t, "Run 5k", def.Description)
	assert.Equal(t, []int{2, 4}, def.Weekdays)

	// Entries are untouched by a patch
	assert.Equal(t, int64(1), testutil.CountEntries(t, testDB.DB, run.ID))

	everyDay := []int{}
	def, err = services.Definition.Update(ctx, user.ID, run.ID, service.UpdateDefinitionInput{Weekdays: &everyDay})
	require.NoError(t, err)
	assert.Empty(t, def.Weekdays)

	def, err = services.Definition.Update(ctx, user.ID, trip.ID, service.UpdateDefinitionInput{
		EndDate: timePtr(testutil.Day(t, "2024-01-10")),
	})
	require.NoError(t, err)
	assert.Equal(t, testutil.Day(t, "2024-01-01"), *def.StartDate)
	assert.Equal(t, testutil.Day(t, "2024-01-10"), *def.EndDate)

	tests := []struct {
		name    string
		userID  uuid.UUID
		id      uuid.UUID
		input   service.UpdateDefinitionInput
		wantErr error
	}{
		{
			name:    "weekdays on a temporary definition",
			userID:  user.ID,
			id:      trip.ID,
			input:   service.UpdateDefinitionInput{Weekdays: &weekdays},
			wantErr: domain.ErrKindMismatch,
		},
		{
			name:    "dates on a recurring definition",
			userID:  user.ID,
			id:      run.ID,
			input:   service.UpdateDefinitionInput{StartDate: timePtr(testutil.Day(t, "2024-01-01"))},
			wantErr: domain.ErrKindMismatch,
		},
		{
			name:    "start moved past end",
			userID:  user.ID,
			id:      trip.ID,
			input:   service.UpdateDefinitionInput{StartDate: timePtr(testutil.Day(t, "2024-02-01"))},
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name:    "blank description",
			userID:  user.ID,
			id:      run.ID,
			input:   service.UpdateDefinitionInput{Description: strPtr(" ")},
			wantErr: domain.ErrDescriptionEmpty,
		},
		{
			name:    "another user's definition",
			userID:  other.ID,
			id:      run.ID,
			input:   service.UpdateDefinitionInput{Description: strPtr("mine now")},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.Definition.Update(ctx, tt.userID, tt.id, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := services.Definition.Get(ctx, user.ID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run 5k", stored.Description)
}

func TestDefinitionService_DeleteCascades(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services, notifier := newTestServices(t, testDB.DB, nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	doomed := testutil.NewRecurringBuilder().WithOwner(user).Build(t, testDB.DB)
	kept := testutil.NewRecurringBuilder().WithOwner(user).Build(t, testDB.DB)
	trip := testutil.NewTemporaryBuilder().
		WithOwner(user).
		Between(testutil.Day(t, "2024-01-01"), testutil.Day(t, "2024-01-02")).
		Build(t, testDB.DB)

	start := testutil.Day(t, "2024-01-01")
	for i := 0; i < 3; i++ {
		testutil.NewEntryBuilder(user.ID, doomed.ID).On(start.AddDate(0, 0, i)).Build(t, testDB.DB)
	}
	testutil.NewEntryBuilder(user.ID, kept.ID).On(start).Build(t, testDB.DB)
	testutil.NewEntryBuilder(user.ID, trip.ID).On(start).Build(t, testDB.DB)

	// Ownership is checked before anything is removed
	err := services.Definition.Delete(ctx, other.ID, doomed.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(3), testutil.CountEntries(t, testDB.DB, doomed.ID))

	require.NoError(t, services.Definition.Delete(ctx, user.ID, doomed.ID))
	assert.Equal(t, int64(0), testutil.CountEntries(t, testDB.DB, doomed.ID))
	assert.Equal(t, int64(1), testutil.CountEntries(t, testDB.DB, kept.ID))

	_, err = services.Definition.Get(ctx, user.ID, doomed.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = services.Definition.Delete(ctx, user.ID, doomed.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Patching a deleted definition must not bring it back
	_, err = services.Definition.Update(ctx, user.ID, doomed.ID, service.UpdateDefinitionInput{Description: strPtr("back again")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = services.Definition.Get(ctx, user.ID, doomed.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, services.Definition.Delete(ctx, user.ID, trip.ID))
	assert.Equal(t, int64(0), testutil.CountEntries(t, testDB.DB, trip.ID))

	items, err := services.Schedule.Resolve(ctx, user.ID, start)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].DefinitionID)

	assert.Equal(t, []domain.ScheduleEventType{domain.EventDefinitionDeleted, domain.EventDefinitionDeleted}, notifier.Types())
}

func TestDefinitionService_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	services, _ := newTestServices(t, testDB.DB, nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	testutil.NewTemporaryBuilder().WithOwner(user).WithDescription("temp").CreatedAt(base).Build(t, testDB.DB)
	testutil.NewRecurringBuilder().WithOwner(user).WithDescription("second").CreatedAt(base.Add(2 * time.Minute)).Build(t, testDB.DB)
	testutil.NewRecurringBuilder().WithOwner(user).WithDescription("first").CreatedAt(base.Add(time.Minute)).Build(t, testDB.DB)
	testutil.NewRecurringBuilder().WithDescription("someone else").Build(t, testDB.DB)

	defs, err := services.Definition.List(ctx, user.ID)
	require.NoError(t, err)

	got := make([]string, len(defs))
	for i, def := range defs {
		got[i] = def.Description
	}
	assert.Equal(t, []string{"first", "second", "temp"}, got)
}
