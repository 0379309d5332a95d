package repositories

import (
	"context"
	"fmt"
	"sort"

	"ride-analytics-backend/db/models"
	"ride-analytics-backend/rides/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RideImportRepository persists one import batch at a time plus the
// per-row error records that live outside batch atomicity.
type RideImportRepository interface {
	LogImportError(ctx context.Context, importError *models.ImportError) error
	UpsertBatch(ctx context.Context, rows []*services.RideRow, sourceFile string) error
}

type rideImportRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRideImportRepository(db *gorm.DB, logger *zap.Logger) RideImportRepository {
	return &rideImportRepository{
		db:     db,
		logger: logger,
	}
}

// LogImportError writes one error record through the base connection pool,
// never the open batch transaction, so it commits on its own and survives
// a later batch rollback. Nothing is retained between writes.
func (r *rideImportRepository) LogImportError(ctx context.Context, importError *models.ImportError) error {
	return r.db.WithContext(ctx).Create(importError).Error
}

// UpsertBatch applies one batch atomically: stations first, then rides,
// inside a single transaction. Any failure rolls the whole batch back and
// propagates to the caller; previously committed batches are untouched.
func (r *rideImportRepository) UpsertBatch(ctx context.Context, rows []*services.RideRow, sourceFile string) error {
	if len(rows) == 0 {
		return nil
	}

	candidates := services.BuildStationCandidates(rows)

	// The batch session suspends model hooks for throughput. The session is
	// scoped to this call, so the setting cannot leak into later batches,
	// commit or rollback alike.
	tx := r.db.WithContext(ctx).Session(&gorm.Session{SkipHooks: true}).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin batch transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	// Rides may reference station ids, so stations must be staged first
	// within the same uncommitted transaction.
	if err := r.upsertStations(tx, candidates); err != nil {
		r.logger.Error("Batch failed, rolling back",
			zap.String("file", sourceFile), zap.Error(err))
		return err
	}
	if err := r.upsertRides(tx, rows); err != nil {
		r.logger.Error("Batch failed, rolling back",
			zap.String("file", sourceFile), zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		r.logger.Error("Batch commit failed, rolling back",
			zap.String("file", sourceFile), zap.Error(err))
		return fmt.Errorf("commit batch: %w", err)
	}
	committed = true
	return nil
}

// fetchExistingStations resolves which of the given station ids already
// exist, chunking the key set to respect the bound-parameter ceiling.
func fetchExistingStations(tx *gorm.DB, stationIDs []string) (map[string]*models.Station, error) {
	existing := make(map[string]*models.Station, len(stationIDs))
	for _, chunk := range chunkKeys(stationIDs, paramSafeChunkSize) {
		var found []models.Station
		if err := tx.Where("station_id IN ?", chunk).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("fetch existing stations: %w", err)
		}
		for i := range found {
			existing[found[i].StationID] = &found[i]
		}
	}
	return existing, nil
}

func fetchExistingRides(tx *gorm.DB, rideIDs []string) (map[string]*models.Ride, error) {
	existing := make(map[string]*models.Ride, len(rideIDs))
	for _, chunk := range chunkKeys(rideIDs, paramSafeChunkSize) {
		var found []models.Ride
		if err := tx.Where("ride_id IN ?", chunk).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("fetch existing rides: %w", err)
		}
		for i := range found {
			existing[found[i].RideID] = &found[i]
		}
	}
	return existing, nil
}

func (r *rideImportRepository) upsertStations(tx *gorm.DB, candidates map[string]*services.StationCandidate) error {
	if len(candidates) == 0 {
		return nil
	}

	stationIDs := make([]string, 0, len(candidates))
	for id := range candidates {
		stationIDs = append(stationIDs, id)
	}
	sort.Strings(stationIDs)

	existing, err := fetchExistingStations(tx, stationIDs)
	if err != nil {
		return err
	}

	var inserts []models.Station
	for _, id := range stationIDs {
		candidate := candidates[id]

		station, ok := existing[id]
		if !ok {
			inserts = append(inserts, models.Station{
				StationID:   candidate.StationID,
				Name:        candidate.Name,
				Lat:         candidate.Lat,
				Lng:         candidate.Lng,
				FirstSeenAt: candidate.FirstSeenAt,
				LastSeenAt:  candidate.LastSeenAt,
			})
			continue
		}

		// Non-destructive merge against the persisted values: absent
		// incoming fields never erase existing data, and the observation
		// window only widens.
		if candidate.Name != nil {
			station.Name = candidate.Name
		}
		if candidate.Lat != nil {
			station.Lat = candidate.Lat
		}
		if candidate.Lng != nil {
			station.Lng = candidate.Lng
		}
		if candidate.FirstSeenAt.Before(station.FirstSeenAt) {
			station.FirstSeenAt = candidate.FirstSeenAt
		}
		if candidate.LastSeenAt.After(station.LastSeenAt) {
			station.LastSeenAt = candidate.LastSeenAt
		}

		if err := tx.Save(station).Error; err != nil {
			return fmt.Errorf("update station %s: %w", station.StationID, err)
		}
	}

	if len(inserts) > 0 {
		if err := tx.CreateInBatches(&inserts, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert stations: %w", err)
		}
	}
	return nil
}

func (r *rideImportRepository) upsertRides(tx *gorm.DB, rows []*services.RideRow) error {
	rideIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		rideIDs = append(rideIDs, row.RideID)
	}

	existing, err := fetchExistingRides(tx, rideIDs)
	if err != nil {
		return err
	}

	var inserts []models.Ride
	for _, row := range rows {
		ride, ok := existing[row.RideID]
		if !ok {
			fresh := models.Ride{RideID: row.RideID}
			applyRideRow(row, &fresh)
			inserts = append(inserts, fresh)
			continue
		}

		applyRideRow(row, ride)
		if err := tx.Save(ride).Error; err != nil {
			return fmt.Errorf("update ride %s: %w", ride.RideID, err)
		}
	}

	if len(inserts) > 0 {
		if err := tx.CreateInBatches(&inserts, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert rides: %w", err)
		}
	}
	return nil
}

// applyRideRow copies one incoming row onto a ride record. Timestamps and
// member type are required and overwrite unconditionally; optional fields
// overwrite only when the incoming value is present.
func applyRideRow(row *services.RideRow, ride *models.Ride) {
	if row.RideableType != "" {
		rideableType := row.RideableType
		ride.RideableType = &rideableType
	}

	ride.StartedAt = row.StartedAt
	ride.EndedAt = row.EndedAt
	ride.MemberType = models.MemberTypeFromCSV(row.MemberCasual)

	if row.StartStationID != nil {
		ride.StartStationID = row.StartStationID
	}
	if row.EndStationID != nil {
		ride.EndStationID = row.EndStationID
	}

	if row.StartLat != nil {
		ride.StartLat = row.StartLat
	}
	if row.StartLng != nil {
		ride.StartLng = row.StartLng
	}
	if row.EndLat != nil {
		ride.EndLat = row.EndLat
	}
	if row.EndLng != nil {
		ride.EndLng = row.EndLng
	}
}
