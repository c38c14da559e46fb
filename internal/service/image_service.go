package service

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/internal/storage"
	"github.com/elvinq/carbazar/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MiB per file

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadFile is one incoming image file, decoupled from the HTTP transport.
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

type ImageService struct {
	carRepo   *repository.CarRepository
	imageRepo *repository.CarImageRepository
	guard     *Guard
	files     *storage.FileStore
}

func NewImageService(carRepo *repository.CarRepository, imageRepo *repository.CarImageRepository, guard *Guard, files *storage.FileStore) *ImageService {
	return &ImageService{
		carRepo:   carRepo,
		imageRepo: imageRepo,
		guard:     guard,
		files:     files,
	}
}

// Upload stores a batch of images for an active listing and returns the
// listing's full image set in display order. The first image a listing ever
// receives becomes main; order values continue from the current maximum.
func (s *ImageService) Upload(carID uint, actor Actor, files []UploadFile) ([]models.CarImage, error) {
	if len(files) == 0 {
		return nil, newValidationError("files", "no files submitted")
	}

	car, err := s.carRepo.GetActiveByID(carID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}

	if err := s.guard.CanMutate(actor, car.UserID); err != nil {
		return nil, err
	}

	// Validate the whole batch before touching the filesystem so a bad file
	// mid-batch leaves nothing behind.
	exts := make([]string, 0, len(files))
	accepted := make([]UploadFile, 0, len(files))
	for _, f := range files {
		if f.Size <= 0 {
			continue
		}
		if f.Size > maxImageSize {
			return nil, newValidationError("file-too-large", "image exceeds 5MB")
		}
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, newValidationError("not-image", "only image files are accepted")
		}
		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext == "" {
			ext = ".jpg"
		}
		if !allowedImageExts[ext] {
			return nil, newValidationError("bad-extension", "only jpg, jpeg, png, webp are accepted")
		}
		accepted = append(accepted, f)
		exts = append(exts, ext)
	}

	nextOrder := 0
	for _, img := range car.Images {
		if img.SortOrder >= nextOrder {
			nextOrder = img.SortOrder + 1
		}
	}
	hasMain := false
	for _, img := range car.Images {
		if img.IsMain {
			hasMain = true
			break
		}
	}

	var stored []models.CarImage
	for i, f := range accepted {
		name := strings.ReplaceAll(uuid.New().String(), "-", "") + exts[i]

		url, err := s.files.Save(carID, name, f.Reader)
		if err != nil {
			logger.Log.Error("Failed to store image file",
				zap.Uint("car_id", carID),
				zap.String("file", name),
				zap.Error(err),
			)
			s.removeStored(stored)
			return nil, err
		}

		stored = append(stored, models.CarImage{
			CarID:     carID,
			ImageURL:  url,
			IsMain:    !hasMain,
			SortOrder: nextOrder,
		})
		hasMain = true
		nextOrder++
	}

	if err := s.imageRepo.CreateBatch(stored); err != nil {
		logger.Log.Error("Failed to insert image rows",
			zap.Uint("car_id", carID),
			zap.Error(err),
		)
		s.removeStored(stored)
		return nil, err
	}

	logger.Log.Info("Images uploaded",
		zap.Uint("car_id", carID),
		zap.Uint("actor_id", actor.ID),
		zap.Int("count", len(stored)),
	)

	return s.imageRepo.ListByCar(carID)
}

// SetMain marks one image as the listing's main image and clears the flag on
// every sibling.
func (s *ImageService) SetMain(carID, imageID uint, actor Actor) error {
	car, err := s.carRepo.GetActiveByID(carID)
	if err != nil {
		return err
	}
	if car == nil {
		return ErrNotFound
	}

	if err := s.guard.CanMutate(actor, car.UserID); err != nil {
		return err
	}

	image, err := s.imageRepo.GetByID(carID, imageID)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrImageNotFound
	}

	if err := s.imageRepo.SetMain(carID, imageID); err != nil {
		logger.Log.Error("Failed to set main image",
			zap.Uint("car_id", carID),
			zap.Uint("image_id", imageID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Main image changed",
		zap.Uint("car_id", carID),
		zap.Uint("image_id", imageID),
	)
	return nil
}

// Delete removes the stored file and the row. When the deleted image was
// main, the lowest-ordered survivor is promoted.
func (s *ImageService) Delete(carID, imageID uint, actor Actor) error {
	car, err := s.carRepo.GetActiveByID(carID)
	if err != nil {
		return err
	}
	if car == nil {
		return ErrNotFound
	}

	if err := s.guard.CanMutate(actor, car.UserID); err != nil {
		return err
	}

	image, err := s.imageRepo.GetByID(carID, imageID)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrImageNotFound
	}

	// A file already missing on disk is fine; the row is the source of truth.
	if err := s.files.Remove(image.ImageURL); err != nil {
		logger.Log.Error("Failed to remove image file",
			zap.String("url", image.ImageURL),
			zap.Error(err),
		)
		return err
	}

	if err := s.imageRepo.DeleteAndPromote(image); err != nil {
		logger.Log.Error("Failed to delete image row",
			zap.Uint("image_id", imageID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Image deleted",
		zap.Uint("car_id", carID),
		zap.Uint("image_id", imageID),
		zap.Bool("was_main", image.IsMain),
	)
	return nil
}

// Reorder assigns display order by position in imageIDs. Every id must belong
// to the listing; on any foreign id nothing is mutated. Ids the caller omits
// keep their previous order value.
func (s *ImageService) Reorder(carID uint, actor Actor, imageIDs []uint) error {
	if len(imageIDs) == 0 {
		return newValidationError("image-ids", "must not be empty")
	}

	car, err := s.carRepo.GetActiveByID(carID)
	if err != nil {
		return err
	}
	if car == nil {
		return ErrNotFound
	}

	if err := s.guard.CanMutate(actor, car.UserID); err != nil {
		return err
	}

	owned := make(map[uint]bool, len(car.Images))
	for _, img := range car.Images {
		owned[img.ID] = true
	}
	for _, id := range imageIDs {
		if !owned[id] {
			return newValidationError("foreign-image-id", "image does not belong to this listing")
		}
	}

	if err := s.imageRepo.UpdateOrders(carID, imageIDs); err != nil {
		logger.Log.Error("Failed to reorder images",
			zap.Uint("car_id", carID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Images reordered",
		zap.Uint("car_id", carID),
		zap.Int("count", len(imageIDs)),
	)
	return nil
}

func (s *ImageService) removeStored(images []models.CarImage) {
	for _, img := range images {
		if err := s.files.Remove(img.ImageURL); err != nil {
			logger.Log.Warn("Failed to clean up stored file",
				zap.String("url", img.ImageURL),
				zap.Error(err),
			)
		}
	}
}
