package feed

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/amoro/amoro-server/internal/db"
	svcErr "github.com/amoro/amoro-server/internal/errors"
)

// Params are the transient discovery parameters supplied per request.
type Params struct {
	InterestedGenders string  // "males", "females" or the "femalesAndMales" sentinel
	InterestedAge     string  // "min-max" in years, optional
	InterestedCity    string  // "lng,lat", optional
	MaxDistanceKm     int     // radius around InterestedCity
	RandomSeed        float64 // session ordering seed
	IsSwipe           bool    // fuller projection for the swipe feed
}

// Filter is the resolved predicate over the user directory.
type Filter struct {
	Gender      string // singular value, "" = any
	BirthAfter  *time.Time
	BirthBefore *time.Time
	CityIDs     []uint64
	Seed        float64
}

// buildFilter translates request parameters into a directory predicate,
// resolving the interested city into a set of city ids within the radius.
func (s *Service) buildFilter(ctx context.Context, p Params) (Filter, error) {
	f := Filter{Seed: p.RandomSeed}

	f.Gender = genderValue(p.InterestedGenders)

	if p.InterestedAge != "" {
		after, before, err := parseAgeRange(p.InterestedAge, time.Now())
		if err != nil {
			return Filter{}, err
		}
		f.BirthAfter = &after
		f.BirthBefore = &before
	}

	if p.InterestedCity != "" && p.MaxDistanceKm > 0 {
		lat, lng, err := parseCoordinate(p.InterestedCity)
		if err != nil {
			return Filter{}, err
		}
		ids, err := s.cityRepo.WithinRadius(ctx, lat, lng, float64(p.MaxDistanceKm)*1000)
		if err != nil {
			return Filter{}, svcErr.Unavailable("failed to resolve cities", err)
		}
		f.CityIDs = ids
	}

	return f, nil
}

// genderValue maps the stored plural preference token to the singular gender
// it targets. The "both" sentinel and unknown tokens mean no restriction.
func genderValue(token string) string {
	switch token {
	case db.GendersMales:
		return "male"
	case db.GendersFemales:
		return "female"
	default:
		return ""
	}
}

// parseAgeRange converts a "min-max" year range into a birth-date window at
// the reference time. The older bound produces the earlier birth date.
func parseAgeRange(s string, now time.Time) (after, before time.Time, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return after, before, svcErr.InvalidArgument("age range must be of the form min-max")
	}

	minAge, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	maxAge, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return after, before, svcErr.InvalidArgument("age range must be of the form min-max")
	}

	after = now.AddDate(-maxAge, 0, 0)  // oldest acceptable birth date
	before = now.AddDate(-minAge, 0, 0) // youngest acceptable birth date
	return after, before, nil
}

// parseCoordinate parses a "lng,lat" pair.
func parseCoordinate(s string) (lat, lng float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, svcErr.InvalidArgument("city coordinate must be of the form lng,lat")
	}

	lng, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, svcErr.InvalidArgument("city coordinate must be of the form lng,lat")
	}
	return lat, lng, nil
}
