package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/domain/repository"
	"github.com/property-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type propertyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPropertyRepository(db *DB) repository.PropertyRepository {
	return &propertyRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *propertyRepository) Search(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	query, args := buildSearchQuery(filter)

	properties := make([]*domain.Property, 0)
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		r.logger.Error("Failed to search properties", zap.Any("filter", filter), zap.Error(err))
		return nil, errors.ErrQueryFailed
	}

	if err := r.attachRooms(ctx, properties); err != nil {
		r.logger.Error("Failed to load rooms for search", zap.Int("properties", len(properties)), zap.Error(err))
		return nil, errors.ErrQueryFailed
	}

	r.logger.Debug("Properties search",
		zap.Int("conditions_args", len(args)),
		zap.String("sort", string(filter.Sort)),
		zap.Int("count", len(properties)),
	)

	return properties, nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	var property domain.Property
	err := r.db.GetContext(ctx, &property, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrPropertyNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get property by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := r.attachRooms(ctx, []*domain.Property{&property}); err != nil {
		r.logger.Error("Failed to load rooms", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &property, nil
}

// attachRooms загружает комнаты и койки двумя запросами и раскладывает их по родителям
func (r *propertyRepository) attachRooms(ctx context.Context, properties []*domain.Property) error {
	if len(properties) == 0 {
		return nil
	}

	propertyIDs := make([]string, 0, len(properties))
	byID := make(map[uuid.UUID]*domain.Property, len(properties))
	for _, p := range properties {
		p.Rooms = []domain.Room{}
		propertyIDs = append(propertyIDs, p.ID.String())
		byID[p.ID] = p
	}

	var rooms []domain.Room
	err := r.db.SelectContext(ctx, &rooms, `
		SELECT id, property_id, room_number, room_type, price_per_month, capacity, is_available, created_at
		FROM rooms
		WHERE property_id = ANY($1::uuid[])
		ORDER BY property_id, room_number, id
	`, pq.StringArray(propertyIDs))
	if err != nil {
		return fmt.Errorf("select rooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil
	}

	roomIDs := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID.String())
	}

	var beds []domain.Bed
	err = r.db.SelectContext(ctx, &beds, `
		SELECT id, room_id, bed_number, price_per_month, is_available, created_at
		FROM beds
		WHERE room_id = ANY($1::uuid[])
		ORDER BY room_id, bed_number, id
	`, pq.StringArray(roomIDs))
	if err != nil {
		return fmt.Errorf("select beds: %w", err)
	}

	bedsByRoom := make(map[uuid.UUID][]domain.Bed, len(rooms))
	for _, bed := range beds {
		bedsByRoom[bed.RoomID] = append(bedsByRoom[bed.RoomID], bed)
	}

	for _, room := range rooms {
		room.Beds = bedsByRoom[room.ID]
		if room.Beds == nil {
			room.Beds = []domain.Bed{}
		}
		if p, ok := byID[room.PropertyID]; ok {
			p.Rooms = append(p.Rooms, room)
		}
	}

	return nil
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	property.NormalizeAmenities()

	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO properties (
			id, owner_id, name, description, property_type, address, city, state, zip_code,
			latitude, longitude, price_per_room, rating, rating_count, property_stars, distance_to_center_km,
			wifi_available, free_cancellation, pay_at_property, breakfast_included, amenities,
			is_approved, created_at, updated_at
		) VALUES (
			:id, :owner_id, :name, :description, :property_type, :address, :city, :state, :zip_code,
			:latitude, :longitude, :price_per_room, :rating, :rating_count, :property_stars, :distance_to_center_km,
			:wifi_available, :free_cancellation, :pay_at_property, :breakfast_included, :amenities,
			:is_approved, :created_at, :updated_at
		)`, property)
	if err != nil {
		r.logger.Error("Failed to insert property", zap.String("id", property.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	for i := range property.Rooms {
		room := &property.Rooms[i]
		if room.ID == uuid.Nil {
			room.ID = uuid.New()
		}
		room.PropertyID = property.ID
		room.CreatedAt = now

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO rooms (id, property_id, room_number, room_type, price_per_month, capacity, is_available, created_at)
			VALUES (:id, :property_id, :room_number, :room_type, :price_per_month, :capacity, :is_available, :created_at)
		`, room)
		if err != nil {
			r.logger.Error("Failed to insert room", zap.String("property_id", property.ID.String()), zap.Error(err))
			return errors.ErrDatabaseError
		}

		for j := range room.Beds {
			bed := &room.Beds[j]
			if bed.ID == uuid.Nil {
				bed.ID = uuid.New()
			}
			bed.RoomID = room.ID
			bed.CreatedAt = now

			_, err = tx.NamedExecContext(ctx, `
				INSERT INTO beds (id, room_id, bed_number, price_per_month, is_available, created_at)
				VALUES (:id, :room_id, :bed_number, :price_per_month, :is_available, :created_at)
			`, bed)
			if err != nil {
				r.logger.Error("Failed to insert bed", zap.String("room_id", room.ID.String()), zap.Error(err))
				return errors.ErrDatabaseError
			}
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit property", zap.String("id", property.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

// SetApproval - nil означает отклонён, false - на модерации, true - опубликован
func (r *propertyRepository) SetApproval(ctx context.Context, id uuid.UUID, approved *bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE properties SET is_approved = $2, updated_at = now() WHERE id = $1`,
		id, approved,
	)
	if err != nil {
		r.logger.Error("Failed to set approval", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseError
	}
	if affected == 0 {
		return errors.ErrPropertyNotFound
	}
	return nil
}

func (r *propertyRepository) GetLocationCache(ctx context.Context, id uuid.UUID) (*domain.LocationCache, error) {
	var row struct {
		Latitude             *float64                `db:"latitude"`
		Longitude            *float64                `db:"longitude"`
		NearbyAmenities      *domain.NearbyAmenities `db:"nearby_amenities"`
		AmenitiesLastUpdated *time.Time              `db:"amenities_last_updated"`
	}

	err := r.db.GetContext(ctx, &row, `
		SELECT latitude, longitude, nearby_amenities, amenities_last_updated
		FROM properties
		WHERE id = $1
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrPropertyNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get location cache", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	property := domain.Property{
		Latitude:             row.Latitude,
		Longitude:            row.Longitude,
		NearbyAmenities:      row.NearbyAmenities,
		AmenitiesLastUpdated: row.AmenitiesLastUpdated,
	}
	cache := property.LocationCache()
	return &cache, nil
}

// UpdateLocation записывает координаты и кеш объектов рядом.
// Запись условная: строка обновляется только если amenities_last_updated не менялся с момента чтения.
func (r *propertyRepository) UpdateLocation(ctx context.Context, id uuid.UUID, update domain.LocationUpdate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE properties
		SET latitude = $2,
		    longitude = $3,
		    nearby_amenities = $4,
		    amenities_last_updated = $5,
		    updated_at = now()
		WHERE id = $1
		  AND amenities_last_updated IS NOT DISTINCT FROM $6::timestamptz
	`,
		id,
		update.Coordinates.Lat,
		update.Coordinates.Lng,
		update.NearbyAmenities,
		update.UpdatedAt,
		update.ExpectedLastUpdated,
	)
	if err != nil {
		r.logger.Error("Failed to update location", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseError
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM properties WHERE id = $1)`, id); err != nil {
		r.logger.Error("Failed to check property existence", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if !exists {
		return errors.ErrPropertyNotFound
	}
	return domain.ErrLocationWriteConflict
}
