package userrepo

import (
	"context"
	"errors"

	"github.com/fazamuttaqien/lending/internal/domain"
	"github.com/fazamuttaqien/lending/internal/model"
	"github.com/fazamuttaqien/lending/internal/repository"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

// FindByID implements repository.UserRepository.
func (u *userRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	ctx, span := u.tracer.Start(ctx, "repository.user.FindByID")
	defer span.End()

	var user model.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, err
	}

	return model.UserToEntity(user), nil
}

// FindByEmail implements repository.UserRepository.
func (u *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := u.tracer.Start(ctx, "repository.user.FindByEmail")
	defer span.End()

	var user model.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, err
	}

	return model.UserToEntity(user), nil
}

// Create implements repository.UserRepository.
func (u *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := u.tracer.Start(ctx, "repository.user.Create")
	defer span.End()

	data := model.UserFromEntity(user)
	if err := u.db.WithContext(ctx).Create(&data).Error; err != nil {
		span.RecordError(err)
		return nil, err
	}

	u.log.Debug("User created", zap.Uint64("user_id", data.ID), zap.String("role", data.Role))

	return model.UserToEntity(data), nil
}

func NewUserRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.UserRepository {
	return &userRepository{
		db:     db,
		meter:  meter,
		tracer: tracer,
		log:    log,
	}
}
