package model

import "time"

// SurveyInstance is one deployed survey window for a company.
// It carries no computed state; reports are derived from its responses.
type SurveyInstance struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	CompanyID string     `json:"companyId" bson:"companyId"`
	Title     string     `json:"title" bson:"title"`
	StartDate time.Time  `json:"startDate" bson:"startDate"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	IsActive  bool       `json:"isActive" bson:"isActive"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// IsOpen reports whether the instance accepts responses at t
func (s *SurveyInstance) IsOpen(t time.Time) bool {
	if !s.IsActive {
		return false
	}
	if t.Before(s.StartDate) {
		return false
	}
	return s.ExpiresAt == nil || t.Before(*s.ExpiresAt)
}

// Company is the tenant whose employees answer the surveys
type Company struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	EmployeeCount int       `json:"employeeCount" bson:"employeeCount"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}
