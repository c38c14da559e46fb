package repository

import (
	"errors"

	"github.com/elvinq/carbazar/internal/models"
	"gorm.io/gorm"
)

type CarImageRepository struct {
	db *gorm.DB
}

func NewCarImageRepository(db *gorm.DB) *CarImageRepository {
	return &CarImageRepository{db: db}
}

// ListByCar returns a listing's images in display order.
func (r *CarImageRepository) ListByCar(carID uint) ([]models.CarImage, error) {
	var images []models.CarImage
	err := r.db.Where("car_id = ?", carID).Order("sort_order ASC").Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// GetByID returns an image only if it belongs to the given listing,
// (nil, nil) otherwise.
func (r *CarImageRepository) GetByID(carID, imageID uint) (*models.CarImage, error) {
	var image models.CarImage
	err := r.db.Where("id = ? AND car_id = ?", imageID, carID).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// CreateBatch inserts a batch of images atomically.
func (r *CarImageRepository) CreateBatch(images []models.CarImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&images).Error
	})
}

// SetMain marks one image as main and clears the flag on every sibling, in a
// single transaction so a mid-operation failure never leaves two mains.
func (r *CarImageRepository) SetMain(carID, imageID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CarImage{}).
			Where("car_id = ? AND id <> ?", carID, imageID).
			Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.CarImage{}).
			Where("car_id = ? AND id = ?", carID, imageID).
			Update("is_main", true).Error
	})
}

// DeleteAndPromote removes an image row and, when the removed image was main,
// promotes the lowest-ordered survivor. Both steps run in one transaction.
func (r *CarImageRepository) DeleteAndPromote(image *models.CarImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CarImage{}, image.ID).Error; err != nil {
			return err
		}

		if !image.IsMain {
			return nil
		}

		var first models.CarImage
		err := tx.Where("car_id = ?", image.CarID).Order("sort_order ASC").First(&first).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // no images left
			}
			return err
		}
		return tx.Model(&first).Update("is_main", true).Error
	})
}

// UpdateOrders assigns sort_order = index for each image id, in input order.
// Ids omitted from the slice keep their previous sort_order.
func (r *CarImageRepository) UpdateOrders(carID uint, imageIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range imageIDs {
			if err := tx.Model(&models.CarImage{}).
				Where("car_id = ? AND id = ?", carID, id).
				Update("sort_order", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
