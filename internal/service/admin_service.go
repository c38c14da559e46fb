package service

import (
	"errors"

	"github.com/elvinq/carbazar/internal/audit"
	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService is the moderation surface. Its operations are unconditional:
// routing guarantees the caller is an admin, so no ownership or block checks
// apply here. Every action lands in the audit trail.
type AdminService struct {
	userRepo *repository.UserRepository
	carRepo  *repository.CarRepository
	audit    *audit.Log
}

func NewAdminService(userRepo *repository.UserRepository, carRepo *repository.CarRepository, auditLog *audit.Log) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		carRepo:  carRepo,
		audit:    auditLog,
	}
}

// SetUserBlocked toggles a user's block flag. Blocking denies future logins
// and guard-checked mutations; tokens issued before the block stay valid
// until they expire.
func (s *AdminService) SetUserBlocked(adminID, userID uint, blocked bool) error {
	if err := s.userRepo.SetBlocked(userID, blocked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		logger.Log.Error("Failed to update block flag",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	action := audit.ActionUserBlock
	if !blocked {
		action = audit.ActionUserUnblock
	}
	if err := s.audit.Record(audit.Entry{
		ActorID:  adminID,
		Action:   action,
		Entity:   "user",
		EntityID: userID,
	}); err != nil {
		logger.Log.Warn("Audit record failed", zap.Error(err))
	}

	logger.Log.Info("User block flag updated",
		zap.Uint("admin_id", adminID),
		zap.Uint("user_id", userID),
		zap.Bool("blocked", blocked),
	)
	return nil
}

// SetCarActive toggles a listing's active flag, for takedown and
// reinstatement alike.
func (s *AdminService) SetCarActive(adminID, carID uint, active bool) error {
	if err := s.carRepo.SetActive(carID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		logger.Log.Error("Failed to update active flag",
			zap.Uint("car_id", carID),
			zap.Error(err),
		)
		return err
	}

	action := audit.ActionCarReinstate
	if !active {
		action = audit.ActionCarTakedown
	}
	if err := s.audit.Record(audit.Entry{
		ActorID:  adminID,
		Action:   action,
		Entity:   "car",
		EntityID: carID,
	}); err != nil {
		logger.Log.Warn("Audit record failed", zap.Error(err))
	}

	logger.Log.Info("Car active flag updated",
		zap.Uint("admin_id", adminID),
		zap.Uint("car_id", carID),
		zap.Bool("active", active),
	)
	return nil
}

// ListCars returns every listing for moderation review, newest first,
// inactive ones included unless the filter narrows them out.
func (s *AdminService) ListCars(active *bool) ([]models.Car, error) {
	cars, err := s.carRepo.ListAll(active)
	if err != nil {
		logger.Log.Error("Failed to list cars for moderation", zap.Error(err))
		return nil, err
	}
	return cars, nil
}
