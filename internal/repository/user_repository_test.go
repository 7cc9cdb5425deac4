package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/db"
	"github.com/amoro/amoro-server/internal/repository"
)

func seedCities(t *testing.T, gdb *gorm.DB) []db.City {
	t.Helper()
	cities := []db.City{
		{Name: "Warszawa", Province: "mazowieckie", Lat: 52.2297, Lng: 21.0122},
		{Name: "Piaseczno", Province: "mazowieckie", Lat: 52.0783, Lng: 21.0244},
		{Name: "Gdańsk", Province: "pomorskie", Lat: 54.3520, Lng: 18.6466},
	}
	require.NoError(t, gdb.Create(&cities).Error)
	return cities
}

func birthDate(age int) time.Time {
	return time.Now().AddDate(-age, 0, -10)
}

func TestWithinRadius(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	cities := seedCities(t, gdb)
	repo := repository.NewCityRepository(gdb)

	// 30 km around Warszawa covers Piaseczno (~17 km) but not Gdańsk
	ids, err := repo.WithinRadius(ctx, 52.2297, 21.0122, 30_000)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{cities[0].ID, cities[1].ID}, ids)

	// zero radius means no restriction
	ids, err = repo.WithinRadius(ctx, 52.2297, 21.0122, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFindCandidatesFilters(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	cities := seedCities(t, gdb)
	repo := repository.NewUserRepository(gdb)

	warszawa := cities[0].ID
	gdansk := cities[2].ID

	users := []db.User{
		{ID: 1, Name: "Anna", Surname: "A", Email: "a@test.com", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: birthDate(25), HomeCityID: &warszawa, RandomLat: 10},
		{ID: 2, Name: "Beata", Surname: "B", Email: "b@test.com", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: birthDate(45), HomeCityID: &warszawa, RandomLat: 20},
		{ID: 3, Name: "Celina", Surname: "C", Email: "c@test.com", PasswordHash: "x", Gender: "female", Status: db.UserBlocked, BirthDate: birthDate(25), HomeCityID: &warszawa, RandomLat: 30},
		{ID: 4, Name: "Darek", Surname: "D", Email: "d@test.com", PasswordHash: "x", Gender: "male", Status: db.UserActive, BirthDate: birthDate(25), HomeCityID: &warszawa, RandomLat: 40},
		{ID: 5, Name: "Ewa", Surname: "E", Email: "e@test.com", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: birthDate(25), HomeCityID: &gdansk, RandomLat: 50},
		{ID: 6, Name: "Felka", Surname: "F", Email: "f@test.com", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: birthDate(25), HomeCityID: &warszawa, RandomLat: 60},
	}
	require.NoError(t, gdb.Create(&users).Error)

	after := birthDate(40)
	before := birthDate(18)

	q := repository.CandidateQuery{
		RequesterID: 6, // requester herself matches every filter
		Gender:      "female",
		BirthAfter:  &after,
		BirthBefore: &before,
		CityIDs:     []uint64{warszawa},
		ExcludeIDs:  []uint64{5},
		Limit:       10,
	}

	found, err := repo.FindCandidates(ctx, q)
	require.NoError(t, err)

	// 1 passes; 2 too old, 3 blocked, 4 wrong gender, 5 excluded (and wrong
	// city), 6 is the requester
	require.Len(t, found, 1)
	assert.Equal(t, uint64(1), found[0].ID)
	require.NotNil(t, found[0].Home)
	assert.Equal(t, "Warszawa", found[0].Home.Name)

	count, err := repo.CountCandidates(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFindCandidatesOrderingIsSeedStable(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	users := []db.User{
		{ID: 1, Name: "U1", Surname: "S", Email: "1@test.com", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: birthDate(25), RandomLat: 5},
		{ID: 2, Name: "U2", Surname: "S", Email: "2@test.com", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: birthDate(25), RandomLat: 40},
		{ID: 3, Name: "U3", Surname: "S", Email: "3@test.com", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: birthDate(25), RandomLat: 21},
	}
	require.NoError(t, gdb.Create(&users).Error)

	q := repository.CandidateQuery{RequesterID: 99, Seed: 20, Limit: 10}

	found, err := repo.FindCandidates(ctx, q)
	require.NoError(t, err)
	require.Len(t, found, 3)

	// distance to seed 20: user 3 (1), user 1 (15), user 2 (20)
	assert.Equal(t, uint64(3), found[0].ID)
	assert.Equal(t, uint64(1), found[1].ID)
	assert.Equal(t, uint64(2), found[2].ID)

	// same seed, paginated: the order holds across pages
	q.Limit = 1
	q.Offset = 1
	page2, err := repo.FindCandidates(ctx, q)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, uint64(1), page2[0].ID)

	// a different seed produces a different order
	q2 := repository.CandidateQuery{RequesterID: 99, Seed: 42, Limit: 10}
	reordered, err := repo.FindCandidates(ctx, q2)
	require.NoError(t, err)
	require.Len(t, reordered, 3)
	assert.Equal(t, uint64(2), reordered[0].ID)
}
