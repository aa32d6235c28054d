package dto

import (
	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
)

// CreateClientRequest represents a request to create a client.
type CreateClientRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone,omitempty"`
	Email     string   `json:"email,omitempty"`
	PAN       string   `json:"pan,omitempty"`
	Aadhar    string   `json:"aadhar,omitempty"`
	WorkTypes []string `json:"work_types,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateClientRequest) ToUseCaseInput() usecase.CreateClientInput {
	return usecase.CreateClientInput{
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		PAN:       r.PAN,
		Aadhar:    r.Aadhar,
		WorkTypes: r.WorkTypes,
	}
}

// UpdateClientRequest represents a partial client update. Absent fields
// keep their stored values.
type UpdateClientRequest struct {
	Name      *string  `json:"name,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Email     *string  `json:"email,omitempty"`
	PAN       *string  `json:"pan,omitempty"`
	Aadhar    *string  `json:"aadhar,omitempty"`
	WorkTypes []string `json:"work_types,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateClientRequest) ToUseCaseInput() usecase.UpdateClientInput {
	return usecase.UpdateClientInput{
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		PAN:       r.PAN,
		Aadhar:    r.Aadhar,
		WorkTypes: r.WorkTypes,
	}
}

// CreateWorkRequest represents a request to record a work transaction.
// The date travels as DD/MM/YYYY.
type CreateWorkRequest struct {
	ClientID    string          `json:"client_id"`
	Date        domain.WorkDate `json:"date"`
	TotalPrice  int64           `json:"total_price"`
	PaidAmount  int64           `json:"paid_amount"`
	WorkTypes   []string        `json:"work_types"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWorkRequest) ToUseCaseInput() usecase.CreateWorkInput {
	return usecase.CreateWorkInput{
		ClientID:    r.ClientID,
		Date:        r.Date,
		TotalPrice:  r.TotalPrice,
		PaidAmount:  r.PaidAmount,
		WorkTypes:   r.WorkTypes,
		Description: r.Description,
	}
}

// UpdateWorkRequest represents a partial work update. Absent fields keep
// their stored values.
type UpdateWorkRequest struct {
	ClientID    *string          `json:"client_id,omitempty"`
	Date        *domain.WorkDate `json:"date,omitempty"`
	TotalPrice  *int64           `json:"total_price,omitempty"`
	PaidAmount  *int64           `json:"paid_amount,omitempty"`
	WorkTypes   []string         `json:"work_types,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateWorkRequest) ToUseCaseInput() usecase.UpdateWorkInput {
	return usecase.UpdateWorkInput{
		ClientID:    r.ClientID,
		Date:        r.Date,
		TotalPrice:  r.TotalPrice,
		PaidAmount:  r.PaidAmount,
		WorkTypes:   r.WorkTypes,
		Description: r.Description,
	}
}

// AdjustBalanceRequest represents a manual balance adjustment in minor
// units. Positive amounts increase what the client owes.
type AdjustBalanceRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

// CleanupHistoryRequest represents a history retention run.
type CleanupHistoryRequest struct {
	KeepLastN int `json:"keep_last_n"`
}
