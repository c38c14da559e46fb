package service

import (
	"strings"
	"time"

	"github.com/elvinq/carbazar/internal/audit"
	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/internal/utils"
	"github.com/elvinq/carbazar/pkg/logger"
	"go.uber.org/zap"
)

// Listings may not predate minCarYear; the upper bound is next year, to allow
// upcoming model years.
const minCarYear = 1950

// FeatureInput is one key/value pair supplied with a listing.
type FeatureInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CarInput carries the client-supplied listing fields for create and update.
type CarInput struct {
	Title    string         `json:"title"`
	Brand    string         `json:"brand"`
	Model    string         `json:"model"`
	Year     int            `json:"year"`
	Price    float64        `json:"price"`
	Features []FeatureInput `json:"features"`
}

// CarPage is one page of active listings plus the total for pagination UI.
type CarPage struct {
	Items    []models.Car
	Total    int64
	Page     int
	PageSize int
}

type CarService struct {
	carRepo *repository.CarRepository
	guard   *Guard
	audit   *audit.Log
}

func NewCarService(carRepo *repository.CarRepository, guard *Guard, auditLog *audit.Log) *CarService {
	return &CarService{
		carRepo: carRepo,
		guard:   guard,
		audit:   auditLog,
	}
}

// List returns one page of active listings, newest first. Page and pageSize
// are clamped to sane bounds before use.
func (s *CarService) List(page, pageSize int) (*CarPage, error) {
	p := utils.ClampPagination(page, pageSize)

	cars, total, err := s.carRepo.ListActive(p.Offset(), p.PageSize)
	if err != nil {
		logger.Log.Error("Failed to list cars", zap.Error(err))
		return nil, err
	}

	return &CarPage{
		Items:    cars,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

// GetByID returns an active listing with ordered images and features.
// Soft-deleted listings are not visible here regardless of caller.
func (s *CarService) GetByID(id uint) (*models.Car, error) {
	car, err := s.carRepo.GetActiveByID(id)
	if err != nil {
		logger.Log.Error("Failed to get car",
			zap.Uint("car_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}
	return car, nil
}

// Create validates the input and stores a new active listing owned by the
// actor. Listings have no owner yet, so the guard applies the block check
// only.
func (s *CarService) Create(actor Actor, input CarInput) (*models.Car, error) {
	if err := s.guard.CanCreate(actor); err != nil {
		return nil, err
	}

	if err := validateCarInput(input); err != nil {
		logger.Log.Warn("Car validation failed",
			zap.Uint("actor_id", actor.ID),
			zap.Error(err),
		)
		return nil, err
	}

	car := &models.Car{
		Title:    strings.TrimSpace(input.Title),
		Brand:    strings.TrimSpace(input.Brand),
		Model:    strings.TrimSpace(input.Model),
		Year:     input.Year,
		Price:    input.Price,
		UserID:   actor.ID,
		IsActive: true,
		Features: filterFeatures(input.Features),
	}

	if err := s.carRepo.CreateCar(car); err != nil {
		logger.Log.Error("Failed to create car",
			zap.Uint("actor_id", actor.ID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Car created",
		zap.Uint("car_id", car.ID),
		zap.Uint("owner_id", actor.ID),
	)
	return car, nil
}

// Update validates the input, checks the guard against the current owner, and
// saves the listing. The feature set is replaced wholesale.
func (s *CarService) Update(id uint, actor Actor, input CarInput) error {
	if err := validateCarInput(input); err != nil {
		logger.Log.Warn("Car validation failed",
			zap.Uint("car_id", id),
			zap.Error(err),
		)
		return err
	}

	car, err := s.carRepo.GetActiveByID(id)
	if err != nil {
		return err
	}
	if car == nil {
		return ErrNotFound
	}

	if err := s.guard.CanMutate(actor, car.UserID); err != nil {
		return err
	}

	car.Title = strings.TrimSpace(input.Title)
	car.Brand = strings.TrimSpace(input.Brand)
	car.Model = strings.TrimSpace(input.Model)
	car.Year = input.Year
	car.Price = input.Price

	if err := s.carRepo.UpdateWithFeatures(car, filterFeatures(input.Features)); err != nil {
		logger.Log.Error("Failed to update car",
			zap.Uint("car_id", id),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Car updated",
		zap.Uint("car_id", id),
		zap.Uint("actor_id", actor.ID),
	)
	return nil
}

// SoftDelete marks the listing inactive. The row, its images and its
// features all stay in place.
func (s *CarService) SoftDelete(id uint, actor Actor) error {
	car, err := s.carRepo.GetActiveByID(id)
	if err != nil {
		return err
	}
	if car == nil {
		return ErrNotFound
	}

	if err := s.guard.CanMutate(actor, car.UserID); err != nil {
		return err
	}

	if err := s.carRepo.SetActive(id, false); err != nil {
		logger.Log.Error("Failed to soft-delete car",
			zap.Uint("car_id", id),
			zap.Error(err),
		)
		return err
	}

	if err := s.audit.Record(audit.Entry{
		ActorID:  actor.ID,
		Action:   audit.ActionCarDelete,
		Entity:   "car",
		EntityID: id,
	}); err != nil {
		logger.Log.Warn("Audit record failed", zap.Error(err))
	}

	logger.Log.Info("Car soft-deleted",
		zap.Uint("car_id", id),
		zap.Uint("actor_id", actor.ID),
	)
	return nil
}

// validateCarInput applies the field checks in contract order; the first
// failure wins.
func validateCarInput(input CarInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return newValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(input.Brand) == "" {
		return newValidationError("brand", "must not be empty")
	}
	if strings.TrimSpace(input.Model) == "" {
		return newValidationError("model", "must not be empty")
	}
	if input.Year < minCarYear || input.Year > time.Now().UTC().Year()+1 {
		return newValidationError("year", "out of range")
	}
	if input.Price <= 0 {
		return newValidationError("price", "must be greater than zero")
	}
	return nil
}

// filterFeatures trims keys and values and drops pairs where either side is
// empty.
func filterFeatures(features []FeatureInput) []models.CarFeature {
	var out []models.CarFeature
	for _, f := range features {
		key := strings.TrimSpace(f.Key)
		value := strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, models.CarFeature{Key: key, Value: value})
	}
	return out
}
