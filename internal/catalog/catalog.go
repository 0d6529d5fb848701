// Package catalog maintains the shared Building / Property / Channel
// lookup tables. All writes are conservative: insert when absent, fill
// null fields when present, never overwrite a non-null value. Catalog
// writes run in their own short transactions so booking transactions can
// reference the rows they produce.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oceanstay/booking-service/internal/listing"
)

// Catalog wraps the catalog tables
type Catalog struct {
	pool *pgxpool.Pool
}

// New creates a Catalog on the given pool
func New(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

// EnsureChannel returns the id of the named channel, creating it if needed
func (c *Catalog) EnsureChannel(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.pool.QueryRow(ctx, `
		INSERT INTO channels (channel_name)
		VALUES ($1)
		ON CONFLICT (channel_name) DO UPDATE SET channel_name = EXCLUDED.channel_name
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure channel %s: %w", name, err)
	}
	return id, nil
}

// EnsureListing makes sure the catalog has a Building and Property for the
// resolved listing and returns the property id. A listing that resolved to
// nothing yields (nil, nil); the booking still carries the raw text.
func (c *Catalog) EnsureListing(ctx context.Context, listingRaw string, res *listing.Resolution) (*int64, error) {
	if res == nil || (res.BuildingName == nil && res.PropertyShort == nil) {
		return nil, nil
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var buildingID *int64
	if res.BuildingName != nil {
		id, err := ensureBuilding(ctx, tx, *res.BuildingName, res.BuildingCode)
		if err != nil {
			return nil, err
		}
		buildingID = &id
	}

	propertyID, err := ensureProperty(ctx, tx, listingRaw, buildingID, res)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit catalog transaction: %w", err)
	}
	return &propertyID, nil
}

func ensureBuilding(ctx context.Context, tx pgx.Tx, name string, code *string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO buildings (building_name, building_code)
		VALUES ($1, $2)
		ON CONFLICT (building_name) DO UPDATE
		SET building_code = COALESCE(buildings.building_code, EXCLUDED.building_code)
		RETURNING id
	`, name, code).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure building %s: %w", name, err)
	}
	return id, nil
}

func ensureProperty(ctx context.Context, tx pgx.Tx, listingRaw string, buildingID *int64, res *listing.Resolution) (int64, error) {
	// Listing titles are matched against airbnb_name first, then the
	// internal property_name
	var id int64
	err := tx.QueryRow(ctx, `
		SELECT id FROM properties WHERE airbnb_name = $1 LIMIT 1
	`, listingRaw).Scan(&id)
	if err == pgx.ErrNoRows {
		err = tx.QueryRow(ctx, `
			SELECT id FROM properties WHERE property_name = $1 LIMIT 1
		`, listingRaw).Scan(&id)
	}

	if err == pgx.ErrNoRows {
		err = tx.QueryRow(ctx, `
			INSERT INTO properties (airbnb_name, building_id, building_name, building_code, unit_number, unit_short, property_short)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, listingRaw, buildingID, res.BuildingName, res.BuildingCode, res.UnitNumber, res.UnitShort, res.PropertyShort).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to insert property for %s: %w", listingRaw, err)
		}
		return id, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up property for %s: %w", listingRaw, err)
	}

	// Fill nulls only; concurrent ingests must not clobber each other
	_, err = tx.Exec(ctx, `
		UPDATE properties
		SET building_id = COALESCE(building_id, $2),
		    building_name = COALESCE(building_name, $3),
		    building_code = COALESCE(building_code, $4),
		    unit_number = COALESCE(unit_number, $5),
		    unit_short = COALESCE(unit_short, $6),
		    property_short = COALESCE(property_short, $7),
		    updated_at = NOW()
		WHERE id = $1
	`, id, buildingID, res.BuildingName, res.BuildingCode, res.UnitNumber, res.UnitShort, res.PropertyShort)
	if err != nil {
		return 0, fmt.Errorf("failed to update property %d: %w", id, err)
	}

	return id, nil
}
