package itinerary

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPreferenceReader is a mock implementation of PreferenceReader
type MockPreferenceReader struct {
	mock.Mock
}

func (m *MockPreferenceReader) GetPreference(ctx context.Context, id int) (*types.UserPreference, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserPreference), args.Error(1)
}

// MockGeoResolver is a mock implementation of GeoResolver
type MockGeoResolver struct {
	mock.Mock
}

func (m *MockGeoResolver) Resolve(ctx context.Context, placeName string) (types.Coordinates, error) {
	args := m.Called(ctx, placeName)
	return args.Get(0).(types.Coordinates), args.Error(1)
}

// MockDirectionsProvider is a mock implementation of DirectionsProvider
type MockDirectionsProvider struct {
	mock.Mock
}

func (m *MockDirectionsProvider) Route(ctx context.Context, from, to types.Coordinates) (types.TransportLeg, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(types.TransportLeg), args.Error(1)
}

var (
	testParis  = types.Coordinates{Lat: 48.8566, Lng: 2.3522}
	testBerlin = types.Coordinates{Lat: 52.52, Lng: 13.405}
)

// richProvider answers every query with plenty of unique, priced records.
func richProvider() *fakeProvider {
	return &fakeProvider{
		name: "primary",
		searchFn: func(q SearchQuery) ([]types.PlaceRecord, error) {
			return namedRecords(q.Category, 12), nil
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

func parisPreference(duration int, interests string) *types.UserPreference {
	return &types.UserPreference{
		ID:          42,
		Source:      "Berlin",
		Destination: "Paris",
		Duration:    duration,
		Budget:      floatPtr(2000),
		Interests:   interests,
	}
}

func setupServiceTest(chain []PlaceProvider) (*ServiceImpl, *MockPreferenceReader, *MockGeoResolver, *MockDirectionsProvider) {
	prefs := new(MockPreferenceReader)
	geo := new(MockGeoResolver)
	directions := new(MockDirectionsProvider)
	agg := NewAggregator(chain, nil, testLogger())
	service := NewServiceImpl(prefs, geo, directions, agg, nil, testLogger())
	return service, prefs, geo, directions
}

func expectHappyGeo(geo *MockGeoResolver, directions *MockDirectionsProvider) {
	geo.On("Resolve", mock.Anything, "Paris").Return(testParis, nil)
	geo.On("Resolve", mock.Anything, "Berlin").Return(testBerlin, nil)
	directions.On("Route", mock.Anything, testBerlin, testParis).
		Return(types.TransportLeg{DistanceKm: 1050, DurationMin: 620, Mode: types.ModeDriving}, nil)
}

func TestGenerateItinerary_RichProviders(t *testing.T) {
	service, prefs, geo, directions := setupServiceTest([]PlaceProvider{richProvider()})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(3, "art,food"), nil)
	expectHappyGeo(geo, directions)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, itin)

	assert.Equal(t, "Paris", itin.Destination)
	require.Len(t, itin.Days, 3)

	t.Run("lodging is identical across all days", func(t *testing.T) {
		require.NotEmpty(t, itin.Days[0].Hotels)
		for _, day := range itin.Days {
			assert.Equal(t, itin.Days[0].Hotels, day.Hotels)
		}
	})

	t.Run("no place repeats across days", func(t *testing.T) {
		for _, lists := range []func(types.DayPlan) []string{
			func(d types.DayPlan) []string { return d.Attractions },
			func(d types.DayPlan) []string { return d.Dining },
			func(d types.DayPlan) []string { return d.Activities },
		} {
			seen := make(map[string]string)
			for _, day := range itin.Days {
				for _, name := range lists(day) {
					if prevDay, dup := seen[name]; dup {
						t.Errorf("place %q appears on both %s and %s", name, prevDay, day.Day)
					}
					seen[name] = day.Day
				}
			}
		}
	})

	t.Run("cost breakdown sums to the day estimate", func(t *testing.T) {
		for _, day := range itin.Days {
			var sum float64
			for _, v := range day.CostBreakdown {
				sum += v
			}
			assert.InDelta(t, day.EstimatedCost, sum, 0.01, "day %s", day.Day)
		}
	})

	t.Run("inter-city travel is attributed to day 1 only", func(t *testing.T) {
		assert.Positive(t, itin.Days[0].TravelCost)
		assert.Positive(t, itin.Days[0].TravelDistance)
		for _, day := range itin.Days[1:] {
			assert.Zero(t, day.TravelCost)
			assert.Zero(t, day.TravelDistance)
		}
	})

	t.Run("total budget reconciles with lodging counted once", func(t *testing.T) {
		var categories, lodging, total float64
		for _, day := range itin.Days {
			categories += day.CostBreakdown["attractions"] +
				day.CostBreakdown["dining"] +
				day.CostBreakdown["activities"] +
				day.CostBreakdown["local_transport"]
			lodging += day.CostBreakdown["lodging"]
			total += day.EstimatedCost
		}
		want := itin.Days[0].TravelCost + categories + lodging
		assert.InDelta(t, want, itin.TotalBudget, 0.05)
		assert.InDelta(t, total, itin.TotalBudget, 0.05)
	})
}

func TestGenerateItinerary_AllProvidersEmpty(t *testing.T) {
	service, prefs, geo, directions := setupServiceTest([]PlaceProvider{
		failingProvider("primary"),
		failingProvider("fallback1"),
		failingProvider("fallback2"),
	})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(2, "art"), nil)
	expectHappyGeo(geo, directions)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.NoError(t, err, "provider failures must never fail generation")
	require.Len(t, itin.Days, 2)

	for _, day := range itin.Days {
		for _, list := range [][]string{day.Attractions, day.Dining, day.Activities, day.Hotels} {
			require.NotEmpty(t, list, "no slot may be empty on %s", day.Day)
			for _, name := range list {
				assert.Contains(t, name, "Paris", "placeholder must reference the destination: %q", name)
			}
		}
	}
	assert.GreaterOrEqual(t, itin.TotalBudget, 0.0)
}

func TestGenerateItinerary_PoolExhaustion(t *testing.T) {
	// 12-record pools drain after four days at three picks per day; day 5
	// must fall back to placeholders rather than repeat earlier places.
	service, prefs, geo, directions := setupServiceTest([]PlaceProvider{richProvider()})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(5, "art"), nil)
	expectHappyGeo(geo, directions)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, itin.Days, 5)

	lastDay := itin.Days[4]
	for _, lists := range []struct {
		names  []string
		prefix string
	}{
		{lastDay.Attractions, "Suggested attraction"},
		{lastDay.Dining, "Suggested restaurant"},
	} {
		require.NotEmpty(t, lists.names)
		for _, name := range lists.names {
			assert.True(t, strings.HasPrefix(name, lists.prefix),
				"exhausted pool must yield placeholders, got %q", name)
		}
	}

	seen := make(map[string]struct{})
	for _, day := range itin.Days {
		for _, name := range append(append([]string{}, day.Attractions...), day.Dining...) {
			if strings.HasPrefix(name, "Suggested ") {
				continue
			}
			_, dup := seen[name]
			assert.False(t, dup, "place %q repeated across days", name)
			seen[name] = struct{}{}
		}
	}
	assert.Len(t, seen, 24, "all twelve attractions and twelve restaurants should be spent")

	var total float64
	for _, day := range itin.Days {
		total += day.EstimatedCost
	}
	assert.InDelta(t, total, itin.TotalBudget, 0.10, "budget must reconcile even with placeholder days")
}

func TestGenerateItinerary_DestinationGeocodingFails(t *testing.T) {
	service, prefs, geo, directions := setupServiceTest([]PlaceProvider{richProvider()})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(3, "art,food"), nil)
	geo.On("Resolve", mock.Anything, "Paris").Return(types.Coordinates{}, types.ErrNotFound)
	geo.On("Resolve", mock.Anything, "Berlin").Return(testBerlin, nil)
	directions.On("Route", mock.Anything, testBerlin, defaultDestinationCoords).
		Return(types.TransportLeg{DistanceKm: 1050, Mode: types.ModeDriving}, nil)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.NoError(t, err, "geocoding failure must degrade, not abort")
	assert.Len(t, itin.Days, 3)
}

func TestGenerateItinerary_SourceGeocodingFails(t *testing.T) {
	service, prefs, geo, directions := setupServiceTest([]PlaceProvider{richProvider()})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(2, "art"), nil)
	geo.On("Resolve", mock.Anything, "Paris").Return(testParis, nil)
	geo.On("Resolve", mock.Anything, "Berlin").Return(types.Coordinates{}, types.ErrNotFound)
	directions.On("Route", mock.Anything, mock.Anything, testParis).
		Return(types.TransportLeg{}, assert.AnError)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, itin.Days, 2)
	// Offset fallback plus haversine fallback still yields a small nonzero leg.
	assert.Positive(t, itin.Days[0].TravelDistance)
}

func TestGenerateItinerary_EmptyInterests(t *testing.T) {
	var (
		mu            sync.Mutex
		gotCategories []string
	)
	provider := &fakeProvider{
		name: "primary",
		searchFn: func(q SearchQuery) ([]types.PlaceRecord, error) {
			mu.Lock()
			gotCategories = append(gotCategories, q.Category)
			mu.Unlock()
			return namedRecords(q.Category, 12), nil
		},
	}
	service, prefs, geo, directions := setupServiceTest([]PlaceProvider{provider})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(2, "  ,  "), nil)
	expectHappyGeo(geo, directions)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, itin.Days, 2)
	assert.Contains(t, gotCategories, defaultInterest, "empty interests must default to %q", defaultInterest)
	assert.True(t, strings.HasPrefix(itin.Days[0].Activities[0], defaultInterest),
		"activities should be drawn from the default interest pool")
}

func TestGenerateItinerary_InterestRotation(t *testing.T) {
	service, prefs, geo, directions := setupServiceTest([]PlaceProvider{richProvider()})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(3, "art,food"), nil)
	expectHappyGeo(geo, directions)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, itin.Days, 3)

	// (day-1) mod len(interests): art, food, art.
	assert.True(t, strings.HasPrefix(itin.Days[0].Activities[0], "art"))
	assert.True(t, strings.HasPrefix(itin.Days[1].Activities[0], "food"))
	assert.True(t, strings.HasPrefix(itin.Days[2].Activities[0], "art"))
}

func TestGenerateItinerary_PreferenceNotFound(t *testing.T) {
	service, prefs, _, _ := setupServiceTest([]PlaceProvider{richProvider()})
	prefs.On("GetPreference", mock.Anything, 99).Return(nil, types.ErrNotFound)

	itin, err := service.GenerateItinerary(context.Background(), 99)
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Nil(t, itin)
}

func TestGenerateItinerary_InvalidDuration(t *testing.T) {
	service, prefs, _, _ := setupServiceTest([]PlaceProvider{richProvider()})
	prefs.On("GetPreference", mock.Anything, 42).Return(parisPreference(0, "art"), nil)

	itin, err := service.GenerateItinerary(context.Background(), 42)
	require.ErrorIs(t, err, types.ErrInvalidDuration)
	assert.Nil(t, itin)
}
