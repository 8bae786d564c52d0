package domain

import (
	"time"
)

// DonationCodePrefix is the human-facing donation code prefix (e.g. DON000002)
const DonationCodePrefix = "DON"

// Donation domain model (donations table)
type Donation struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code            string     `gorm:"column:code;uniqueIndex;size:20" json:"code"`
	DonorName       string     `gorm:"column:donor_name;size:100" json:"donor_name"`
	Email           string     `gorm:"column:email;size:255" json:"email"`
	Phone           string     `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Address         string     `gorm:"column:address;size:500" json:"address,omitempty"`
	Amount          float64    `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Purpose         string     `gorm:"column:purpose;size:200" json:"purpose,omitempty"`
	PaymentMethod   string     `gorm:"column:payment_method;size:50" json:"payment_method,omitempty"`
	TransactionRef  string     `gorm:"column:transaction_ref;size:100" json:"transaction_ref,omitempty"`
	Anonymous       bool       `gorm:"column:anonymous" json:"anonymous"`
	Message         string     `gorm:"column:message;size:1000" json:"message,omitempty"`
	Status          string     `gorm:"column:status;size:20;index;default:pending" json:"status"`
	ApprovedBy      string     `gorm:"column:approved_by;size:50" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;size:500" json:"rejection_reason,omitempty"`
	ReceiptPath     string     `gorm:"column:receipt_path;size:500" json:"receipt_path,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Donation) TableName() string {
	return "donations"
}

// DonationResponse is the API response format for a donation
type DonationResponse struct {
	ID             uint       `json:"id"`
	Code           string     `json:"code"`
	DonorName      string     `json:"donor_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Amount         float64    `json:"amount"`
	Purpose        string     `json:"purpose,omitempty"`
	PaymentMethod  string     `json:"payment_method,omitempty"`
	TransactionRef string     `json:"transaction_ref,omitempty"`
	Anonymous      bool       `json:"anonymous"`
	Status         string     `json:"status"`
	ApprovedBy     string     `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToResponse converts Donation to DonationResponse
func (d *Donation) ToResponse() *DonationResponse {
	return &DonationResponse{
		ID:             d.ID,
		Code:           d.Code,
		DonorName:      d.DonorName,
		Email:          d.Email,
		Phone:          d.Phone,
		Amount:         d.Amount,
		Purpose:        d.Purpose,
		PaymentMethod:  d.PaymentMethod,
		TransactionRef: d.TransactionRef,
		Anonymous:      d.Anonymous,
		Status:         d.Status,
		ApprovedBy:     d.ApprovedBy,
		ApprovedAt:     d.ApprovedAt,
		CreatedAt:      d.CreatedAt,
	}
}

// CreateDonationRequest is the public donation submission body.
// Amount arrives as a string from some payment forms, so it is parsed
// by the service rather than bound numerically here.
type CreateDonationRequest struct {
	DonorName      string `json:"donor_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Amount         string `json:"amount" binding:"required"`
	Purpose        string `json:"purpose"`
	PaymentMethod  string `json:"payment_method"`
	TransactionRef string `json:"transaction_ref"`
	Anonymous      bool   `json:"anonymous"`
	Message        string `json:"message"`
}
