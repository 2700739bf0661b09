package models

import (
	"sort"
	"time"

	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// Request модели

// UpdatePolicyRequest запрос на изменение часов работы для вида дня
type UpdatePolicyRequest struct {
	Actor     domain.Actor `json:"-"`
	Kind      string       `json:"-"`
	OpenTime  string       `json:"openTime"`  // "10:00"
	CloseTime string       `json:"closeTime"` // "22:00", допускается "24:00"
}

// GetOverridesRequest запрос исключений за период (включительно)
type GetOverridesRequest struct {
	From time.Time
	To   time.Time
}

// UpsertOverrideRequest запрос на установку исключения на дату.
// Для закрытого дня время не указывается.
type UpsertOverrideRequest struct {
	Actor     domain.Actor `json:"-"`
	Date      time.Time    `json:"-"`
	OpenTime  *string      `json:"openTime,omitempty"`
	CloseTime *string      `json:"closeTime,omitempty"`
	IsClosed  bool         `json:"isClosed"`
}

// Response модели

// PolicyResponse часы работы для вида дня
type PolicyResponse struct {
	Kind      string     `json:"kind"`
	OpenTime  string     `json:"openTime"`
	CloseTime string     `json:"closeTime"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// PoliciesResponse все политики, сначала будни
type PoliciesResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// OverrideResponse исключение на дату
type OverrideResponse struct {
	Date      string     `json:"date"`
	OpenTime  *string    `json:"openTime,omitempty"`
	CloseTime *string    `json:"closeTime,omitempty"`
	IsClosed  bool       `json:"isClosed"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// OverrideListResponse список исключений
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.DayPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}
	resp := &PolicyResponse{
		Kind:      string(p.Kind),
		OpenTime:  p.OpenTime.String(),
		CloseTime: p.CloseTime.String(),
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// FromDomainSchedule конвертирует набор политик в DTO
func FromDomainSchedule(schedule domain.Schedule) *PoliciesResponse {
	resp := &PoliciesResponse{Policies: make([]PolicyResponse, 0, len(schedule))}
	for _, p := range schedule {
		resp.Policies = append(resp.Policies, *FromDomainPolicy(&p))
	}
	sort.Slice(resp.Policies, func(i, j int) bool {
		return resp.Policies[i].Kind > resp.Policies[j].Kind
	})
	return resp
}

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o *domain.DayOverride) *OverrideResponse {
	if o == nil {
		return nil
	}
	resp := &OverrideResponse{
		Date:     o.Date.Format(domain.DateFormat),
		IsClosed: o.IsClosed,
	}
	if o.OpenTime != nil {
		s := o.OpenTime.String()
		resp.OpenTime = &s
	}
	if o.CloseTime != nil {
		s := o.CloseTime.String()
		resp.CloseTime = &s
	}
	if !o.UpdatedAt.IsZero() {
		updatedAt := o.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// FromDomainOverrideList конвертирует список исключений в DTO
func FromDomainOverrideList(overrides []*domain.DayOverride) *OverrideListResponse {
	resp := &OverrideListResponse{Overrides: make([]OverrideResponse, 0, len(overrides))}
	for _, o := range overrides {
		if r := FromDomainOverride(o); r != nil {
			resp.Overrides = append(resp.Overrides, *r)
		}
	}
	return resp
}
