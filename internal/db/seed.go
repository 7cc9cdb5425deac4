package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo cities, users
// and matches.
//
// Behavior:
//  1. Clears existing data in `matches`, `messages`, `users` and `cities`.
//  2. Creates a handful of cities with real coordinates.
//  3. Creates 20 users (10 male, 10 female) with hashed passwords, random
//     ordering points and saved discovery filters.
//  4. Creates a few matches in different phases (pending request, mutual,
//     plain swipes).
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "users", "cities"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE cities AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'cities'")
	}

	log.Println("Cleared existing data")

	// --- Seed Cities ---
	cities := []City{
		{Name: "Warszawa", Province: "mazowieckie", Lat: 52.2297, Lng: 21.0122},
		{Name: "Kraków", Province: "małopolskie", Lat: 50.0647, Lng: 19.9450},
		{Name: "Gdańsk", Province: "pomorskie", Lat: 54.3520, Lng: 18.6466},
		{Name: "Wrocław", Province: "dolnośląskie", Lat: 51.1079, Lng: 17.0385},
		{Name: "Poznań", Province: "wielkopolskie", Lat: 52.4064, Lng: 16.9252},
		{Name: "Piaseczno", Province: "mazowieckie", Lat: 52.0783, Lng: 21.0244},
	}
	if err := db.Create(&cities).Error; err != nil {
		return fmt.Errorf("failed to seed cities: %w", err)
	}
	log.Printf("Seeded %d cities.", len(cities))

	// --- Seed Users (10 male, 10 female) ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var users []User
	for i := 1; i <= 20; i++ {
		gender := "male"
		interested := GendersFemales
		if i > 10 {
			gender = "female"
			interested = GendersMales
		}

		home := cities[r.Intn(len(cities))].ID
		age := 20 + r.Intn(15)

		user := User{
			Name:                fmt.Sprintf("User%d", i),
			Surname:             fmt.Sprintf("Demo%d", i),
			Email:               fmt.Sprintf("user%d@example.com", i),
			PasswordHash:        string(hash),
			Gender:              gender,
			BirthDate:           time.Now().AddDate(-age, 0, -r.Intn(300)),
			Status:              UserActive,
			HomeCityID:          &home,
			RandomLat:           r.Float64()*180 - 90,
			RandomLng:           r.Float64()*360 - 180,
			FilterGenders:       interested,
			FilterAgeRange:      "18-40",
			FilterMaxDistanceKm: 100,
		}
		users = append(users, user)
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users.", len(users))

	// --- Seed Matches in assorted phases ---
	matches := []Match{
		// mutual match between users[0] and users[10]
		func() Match {
			a, b := NormalizePair(users[0].ID, users[10].ID)
			return Match{
				ID: uuid.NewString(), UserAID: a, UserBID: b,
				StatusA: StatusMatch, StatusB: StatusMatch,
				NewA: true, NewB: true, Matched: true, Active: true,
			}
		}(),
		// pending request from users[1] toward users[11]
		func() Match {
			a, b := NormalizePair(users[1].ID, users[11].ID)
			m := Match{ID: uuid.NewString(), UserAID: a, UserBID: b, Active: true,
				StatusA: StatusNone, StatusB: StatusNone}
			m.SetStatus(users[1].ID, StatusRequest)
			m.SetNew(users[11].ID, true)
			return m
		}(),
		// silent right swipe from users[2] toward users[12]
		func() Match {
			a, b := NormalizePair(users[2].ID, users[12].ID)
			m := Match{ID: uuid.NewString(), UserAID: a, UserBID: b, Active: true,
				StatusA: StatusNone, StatusB: StatusNone}
			m.SetStatus(users[2].ID, StatusRight)
			return m
		}(),
	}
	if err := db.Create(&matches).Error; err != nil {
		return fmt.Errorf("failed to seed matches: %w", err)
	}

	// one unread message on the mutual match
	msg := Message{
		ID:         uuid.NewString(),
		MatchID:    matches[0].ID,
		SenderID:   users[0].ID,
		ReceiverID: users[10].ID,
		Content:    "Cześć!",
	}
	if err := db.Create(&msg).Error; err != nil {
		return fmt.Errorf("failed to seed message: %w", err)
	}

	log.Println("Seeded matches and messages.")
	return nil
}
