package domain

import (
	"time"
)

// Record status values shared by members and donations
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusInactive = "inactive"
)

// MemberCodePrefix is the human-facing member code prefix (e.g. SSS000003)
const MemberCodePrefix = "SSS"

// Member domain model (members table)
type Member struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code            string     `gorm:"column:code;uniqueIndex;size:20" json:"code"`
	Name            string     `gorm:"column:name;size:100" json:"name"`
	Email           string     `gorm:"column:email;size:255" json:"email"`
	Phone           string     `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Address         string     `gorm:"column:address;size:500" json:"address,omitempty"`
	Occupation      string     `gorm:"column:occupation;size:100" json:"occupation,omitempty"`
	Plan            string     `gorm:"column:plan;size:30" json:"plan"`
	PhotoPath       string     `gorm:"column:photo_path;size:500" json:"photo_path,omitempty"`
	Status          string     `gorm:"column:status;size:20;index;default:pending" json:"status"`
	ApprovedBy      string     `gorm:"column:approved_by;size:50" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;size:500" json:"rejection_reason,omitempty"`
	ValidTill       *time.Time `gorm:"column:valid_till" json:"valid_till,omitempty"`
	CardPath        string     `gorm:"column:card_path;size:500" json:"card_path,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse is the API response format for a member
type MemberResponse struct {
	ID              uint       `json:"id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	Plan            string     `json:"plan"`
	PhotoPath       string     `json:"photo_path,omitempty"`
	Status          string     `json:"status"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ValidTill       *time.Time `json:"valid_till,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts Member to MemberResponse
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:              m.ID,
		Code:            m.Code,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Address:         m.Address,
		Plan:            m.Plan,
		PhotoPath:       m.PhotoPath,
		Status:          m.Status,
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      m.ApprovedAt,
		RejectionReason: m.RejectionReason,
		ValidTill:       m.ValidTill,
		CreatedAt:       m.CreatedAt,
	}
}

// CreateMemberRequest is the public membership application body
type CreateMemberRequest struct {
	Name       string `form:"name" json:"name" binding:"required"`
	Email      string `form:"email" json:"email" binding:"required,email"`
	Phone      string `form:"phone" json:"phone"`
	Address    string `form:"address" json:"address"`
	Occupation string `form:"occupation" json:"occupation"`
	Plan       string `form:"plan" json:"plan"`
}

// RejectRequest is the staff rejection body shared by members and donations
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}
