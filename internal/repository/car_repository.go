package repository

import (
	"errors"

	"github.com/elvinq/carbazar/internal/models"
	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

// preloadListing attaches images (display order) and features to a car query.
func preloadListing(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Features")
}

func (r *CarRepository) CreateCar(car *models.Car) error {
	return r.db.Create(car).Error
}

// GetActiveByID returns an active listing with its images and features, or
// (nil, nil) when absent or soft-deleted.
func (r *CarRepository) GetActiveByID(id uint) (*models.Car, error) {
	var car models.Car
	err := preloadListing(r.db).Where("id = ? AND is_active = ?", id, true).First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &car, nil
}

// GetByID returns a listing regardless of its active flag, without preloads.
func (r *CarRepository) GetByID(id uint) (*models.Car, error) {
	var car models.Car
	err := r.db.First(&car, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &car, nil
}

// ListActive returns one page of active listings, newest first, together with
// the total count of active listings.
func (r *CarRepository) ListActive(offset, limit int) ([]models.Car, int64, error) {
	var total int64
	if err := r.db.Model(&models.Car{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cars []models.Car
	err := preloadListing(r.db.Where("is_active = ?", true)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&cars).Error
	if err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

// ListAll returns every listing, newest first, optionally filtered by the
// active flag. Used by the moderation surface; no preloads, no pagination.
func (r *CarRepository) ListAll(active *bool) ([]models.Car, error) {
	q := r.db.Model(&models.Car{})
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}

	var cars []models.Car
	if err := q.Order("created_at DESC").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// UpdateWithFeatures saves the listing's scalar fields and replaces the whole
// feature set in one transaction. Replace-all is the contract: features are
// deleted and reinserted, never diffed.
func (r *CarRepository) UpdateWithFeatures(car *models.Car, features []models.CarFeature) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(car).Select("title", "brand", "model", "year", "price").Updates(map[string]interface{}{
			"title": car.Title,
			"brand": car.Brand,
			"model": car.Model,
			"year":  car.Year,
			"price": car.Price,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("car_id = ?", car.ID).Delete(&models.CarFeature{}).Error; err != nil {
			return err
		}

		if len(features) == 0 {
			return nil
		}
		for i := range features {
			features[i].CarID = car.ID
		}
		return tx.Create(&features).Error
	})
}

// SetActive flips the soft-delete flag. Returns gorm.ErrRecordNotFound when
// no such listing exists.
func (r *CarRepository) SetActive(id uint, active bool) error {
	res := r.db.Model(&models.Car{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
