package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Fixed per-day pick counts. These are deliberate product constants, not
// configuration.
const (
	attractionsPerDay = 3
	diningPerDay      = 3
	activitiesPerDay  = 2
)

// Minimum filtered-pool sizes below which a destination-qualified top-up
// query is issued before selecting.
const (
	minPoolMajor = 3 // attractions, dining
	minPoolMinor = 2 // activities, hotels
)

// placeTypeHints maps pool categories to the OSM-style feature tags the
// broadest fallback tier understands. Interest tags have no mapping, so the
// hint-only tier is skipped for them.
var placeTypeHints = map[string]string{
	types.CategoryAttraction: "tourism=attraction",
	types.CategoryRestaurant: "amenity=restaurant",
	types.CategoryHotel:      "tourism=hotel",
	types.CategoryActivity:   "leisure=park",
}

// planner carries the state of one itinerary generation run. Used-sets
// accumulate across the whole run so no place repeats between days; lodging
// is chosen once before the day loop and is exempt by design.
type planner struct {
	logger      *slog.Logger
	agg         *Aggregator
	est         *CostEstimator
	destination string
	destCoords  types.Coordinates
	interests   []string
	budgetLevel int
	duration    int
	dietary     string // provider keyword hint, e.g. "halal" or "vegetarian"

	hotelName      string
	hotelRecord    types.PlaceRecord
	dailyHotelCost float64

	mu    sync.Mutex
	pools map[string][]types.PlaceRecord

	usedAttractions map[string]struct{}
	usedRestaurants map[string]struct{}
	usedActivities  map[string]struct{}
}

func newPlanner(agg *Aggregator, est *CostEstimator, pref *types.UserPreference, destCoords types.Coordinates, interests []string, logger *slog.Logger) *planner {
	dietary := ""
	if pref.Halal {
		dietary = "halal"
	} else if pref.Vegetarian {
		dietary = "vegetarian"
	}
	return &planner{
		logger:          logger,
		agg:             agg,
		est:             est,
		destination:     pref.Destination,
		destCoords:      destCoords,
		interests:       interests,
		budgetLevel:     pref.BudgetLevel(),
		duration:        pref.Duration,
		dietary:         dietary,
		pools:           make(map[string][]types.PlaceRecord),
		usedAttractions: make(map[string]struct{}),
		usedRestaurants: make(map[string]struct{}),
		usedActivities:  make(map[string]struct{}),
	}
}

// providerQuery is the search term a pool key translates to. Dietary flags
// narrow restaurant queries.
func (p *planner) providerQuery(poolKey string) string {
	if poolKey == types.CategoryRestaurant && p.dietary != "" {
		return p.dietary + " " + types.CategoryRestaurant
	}
	return poolKey
}

// poolFor fetches (or reuses) the candidate pool for a key. Safe for the
// concurrent prefetch fan-out; afterwards only the planning task touches it.
func (p *planner) poolFor(ctx context.Context, poolKey string) []types.PlaceRecord {
	p.mu.Lock()
	pool, ok := p.pools[poolKey]
	p.mu.Unlock()
	if ok {
		return pool
	}

	priceTier := TierForBudgetLevel(p.budgetLevel)
	pool = p.agg.Pooled(ctx, p.destCoords, p.providerQuery(poolKey), placeTypeHints[poolKey], priceTier)

	p.mu.Lock()
	p.pools[poolKey] = pool
	p.mu.Unlock()
	return pool
}

// prefetch warms a pool; used by the assembler's concurrent fan-out.
func (p *planner) prefetch(ctx context.Context, poolKey string) {
	p.poolFor(ctx, poolKey)
}

// chooseHotel picks the lodging for the whole stay: highest-rated candidate,
// a placeholder when every provider came back empty. Called once, before the
// day loop.
func (p *planner) chooseHotel(ctx context.Context) {
	pool := p.poolFor(ctx, types.CategoryHotel)
	if len(pool) < minPoolMinor {
		pool = p.mergeTopUp(ctx, types.CategoryHotel, pool, nil)
	}

	best := types.PlaceRecord{}
	for _, rec := range pool {
		if best.Name == "" || rec.Rating > best.Rating {
			best = rec
		}
	}
	if best.Name == "" {
		p.hotelName = placeholderName(types.CategoryHotel, p.destination, 1)
		p.hotelRecord = types.PlaceRecord{Location: p.destCoords}
	} else {
		p.hotelName = best.Name
		p.hotelRecord = best
	}
	p.dailyHotelCost = p.est.PlaceCost(p.hotelRecord, types.CategoryHotel, p.budgetLevel)
}

// mergeTopUp issues the narrower destination-qualified query and merges
// non-duplicate results into the pool.
func (p *planner) mergeTopUp(ctx context.Context, poolKey string, pool []types.PlaceRecord, used map[string]struct{}) []types.PlaceRecord {
	keyword := fmt.Sprintf("%s %s", p.destination, p.providerQuery(poolKey))
	extra := p.agg.TopUp(ctx, p.destCoords, p.providerQuery(poolKey), keyword, placeTypeHints[poolKey])

	present := make(map[string]struct{}, len(pool))
	for _, rec := range pool {
		present[rec.Name] = struct{}{}
	}
	for _, rec := range extra {
		if _, dup := present[rec.Name]; dup {
			continue
		}
		if used != nil {
			if _, taken := used[rec.Name]; taken {
				continue
			}
		}
		present[rec.Name] = struct{}{}
		pool = append(pool, rec)
	}
	return pool
}

type selection struct {
	names   []string
	records []types.PlaceRecord // real records only; placeholders carry none
	cost    float64
}

// selectForDay draws up to count unused places from a pool, topping the pool
// up when it runs below minAvailable, and falls back to deterministic
// placeholders so no slot is ever empty. Selected names go into the used-set
// immediately so later days cannot reselect them.
func (p *planner) selectForDay(ctx context.Context, poolKey, costCategory string, used map[string]struct{}, count, minAvailable int) selection {
	pool := p.poolFor(ctx, poolKey)

	available := make([]types.PlaceRecord, 0, len(pool))
	for _, rec := range pool {
		if _, taken := used[rec.Name]; !taken {
			available = append(available, rec)
		}
	}
	if len(available) < minAvailable {
		available = p.mergeTopUp(ctx, poolKey, available, used)
	}

	var sel selection
	for _, rec := range available {
		if len(sel.names) == count {
			break
		}
		sel.names = append(sel.names, rec.Name)
		sel.records = append(sel.records, rec)
		sel.cost += p.est.PlaceCost(rec, costCategory, p.budgetLevel)
		used[rec.Name] = struct{}{}
	}

	if len(sel.names) == 0 {
		for i := 1; i <= count; i++ {
			sel.names = append(sel.names, placeholderName(costCategory, p.destination, i))
			sel.cost += p.est.PlaceCost(types.PlaceRecord{}, costCategory, p.budgetLevel)
		}
	}
	return sel
}

// planDay builds one DayPlan. The inter-city leg is attributed to day 1 only.
func (p *planner) planDay(ctx context.Context, day int, intercity types.TransportLeg, intercityCost float64) types.DayPlan {
	interest := p.interests[(day-1)%len(p.interests)]

	attractions := p.selectForDay(ctx, types.CategoryAttraction, types.CategoryAttraction, p.usedAttractions, attractionsPerDay, minPoolMajor)
	dining := p.selectForDay(ctx, types.CategoryRestaurant, types.CategoryRestaurant, p.usedRestaurants, diningPerDay, minPoolMajor)
	activities := p.selectForDay(ctx, interest, types.CategoryActivity, p.usedActivities, activitiesPerDay, minPoolMinor)

	localKm := p.localDistance(append(attractions.records, activities.records...))
	localCost := p.est.TransportCost(localKm, types.ModeDriving)

	breakdown := map[string]float64{
		"attractions":     Round2(attractions.cost),
		"dining":          Round2(dining.cost),
		"activities":      Round2(activities.cost),
		"lodging":         Round2(p.dailyHotelCost),
		"local_transport": Round2(localCost),
	}

	plan := types.DayPlan{
		Day:                 fmt.Sprintf("Day %d", day),
		Attractions:         attractions.names,
		Dining:              dining.names,
		Activities:          activities.names,
		Hotels:              []string{p.hotelName},
		CostBreakdown:       breakdown,
		LocalTravelDistance: Round2(localKm),
	}
	if day == 1 {
		breakdown["intercity_travel"] = Round2(intercityCost)
		plan.TravelCost = Round2(intercityCost)
		plan.TravelDistance = Round2(intercity.DistanceKm)
	}

	var total float64
	for _, v := range breakdown {
		total += v
	}
	plan.EstimatedCost = Round2(total)
	return plan
}

// localDistance routes from lodging through each stop in selection order and
// back, summing consecutive haversine legs. Placeholder slots carry no
// coordinates and are skipped.
func (p *planner) localDistance(stops []types.PlaceRecord) float64 {
	current := p.hotelRecord.Location
	var km float64
	visited := false
	for _, stop := range stops {
		if stop.Location.Lat == 0 && stop.Location.Lng == 0 {
			continue
		}
		km += Haversine(current, stop.Location)
		current = stop.Location
		visited = true
	}
	if visited {
		km += Haversine(current, p.hotelRecord.Location)
	}
	return km
}

func placeholderName(category, destination string, n int) string {
	return fmt.Sprintf("Suggested %s #%d near %s", category, n, destination)
}
