package models

import (
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// UpsertProfileRequest заполнение профиля райдера
type UpsertProfileRequest struct {
	RiderID int64  `json:"-"`
	Name    string `json:"name"`
	Phone   string `json:"phone"` // +7XXXXXXXXXX
	Email   string `json:"email"`
}

// ProfileResponse профиль райдера
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Rank      string    `json:"rank"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainRider конвертирует domain модель в DTO
func FromDomainRider(r *domain.Rider) *ProfileResponse {
	if r == nil {
		return nil
	}
	return &ProfileResponse{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		Rank:      string(r.Rank),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
