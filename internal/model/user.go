package model

import (
	"github.com/fazamuttaqien/lending/internal/domain"
)

func UserFromEntity(data *domain.User) User {
	return User{
		ID:       data.ID,
		Email:    data.Email,
		Password: data.Password,
		Role:     string(data.Role),
	}
}

func UserToEntity(data User) *domain.User {
	return &domain.User{
		ID:        data.ID,
		Email:     data.Email,
		Password:  data.Password,
		Role:      domain.Role(data.Role),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
