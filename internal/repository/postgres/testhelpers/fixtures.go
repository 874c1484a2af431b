package testhelpers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/property-service/internal/domain"
)

// PropertyFixture - минимальный набор полей для вставки тестового объекта
type PropertyFixture struct {
	Name              string
	City              string
	State             string
	Address           string
	PropertyType      domain.PropertyType
	Price             *float64
	Rating            *float64
	Stars             *int
	DistanceKm        *float64
	WifiAvailable     bool
	FreeCancellation  bool
	BreakfastIncluded bool
	Amenities         domain.AmenityMap
	IsApproved        *bool
	CreatedAt         time.Time
}

// InsertProperty вставляет объект напрямую, минуя нормализацию репозитория
func InsertProperty(ctx context.Context, db *sqlx.DB, f PropertyFixture) (uuid.UUID, error) {
	id := uuid.New()

	if f.PropertyType == "" {
		f.PropertyType = domain.PropertyTypeFlat
	}
	if f.Address == "" {
		f.Address = "1 Test Street"
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if f.Amenities == nil {
		f.Amenities = domain.AmenityMap{}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO properties (
			id, owner_id, name, property_type, address, city, state,
			price_per_room, rating, property_stars, distance_to_center_km,
			wifi_available, free_cancellation, breakfast_included, amenities,
			is_approved, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
	`,
		id, uuid.New(), f.Name, string(f.PropertyType), f.Address, f.City, f.State,
		f.Price, f.Rating, f.Stars, f.DistanceKm,
		f.WifiAvailable, f.FreeCancellation, f.BreakfastIncluded, f.Amenities,
		f.IsApproved, f.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert property fixture %q: %w", f.Name, err)
	}

	return id, nil
}

// InsertRoomWithBeds добавляет комнату с заданным числом коек
func InsertRoomWithBeds(ctx context.Context, db *sqlx.DB, propertyID uuid.UUID, roomNumber string, beds int) (uuid.UUID, error) {
	roomID := uuid.New()
	_, err := db.ExecContext(ctx,
		`INSERT INTO rooms (id, property_id, room_number, capacity) VALUES ($1, $2, $3, $4)`,
		roomID, propertyID, roomNumber, beds,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert room fixture: %w", err)
	}

	for i := 1; i <= beds; i++ {
		_, err := db.ExecContext(ctx,
			`INSERT INTO beds (room_id, bed_number) VALUES ($1, $2)`,
			roomID, fmt.Sprintf("%s-%d", roomNumber, i),
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert bed fixture: %w", err)
		}
	}

	return roomID, nil
}
