package models

type Category struct {
	ID              int     `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	Description     *string `json:"description" db:"description"`
	Color           string  `json:"color" db:"color"`
	Icon            *string `json:"icon" db:"icon"`
	TransactionType string  `json:"transaction_type" db:"transaction_type"`
	IsActive        bool    `json:"is_active" db:"is_active"`
	CreatedAt       string  `json:"created_at" db:"created_at"`
	UpdatedAt       string  `json:"updated_at" db:"updated_at"`
}

// CategoryRequest is the payload for create and full update.
type CategoryRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Description     *string `json:"description"`
	Color           string  `json:"color" validate:"omitempty,hexcolor"`
	Icon            *string `json:"icon"`
	TransactionType string  `json:"transaction_type" validate:"omitempty,oneof=expense income credit debt"`
	IsActive        *bool   `json:"is_active"`
}

// CategoryPatch carries only the fields present in a partial update.
type CategoryPatch struct {
	Name            *string `json:"name" validate:"omitempty,max=100"`
	Description     *string `json:"description"`
	Color           *string `json:"color" validate:"omitempty,hexcolor"`
	Icon            *string `json:"icon"`
	TransactionType *string `json:"transaction_type" validate:"omitempty,oneof=expense income credit debt"`
	IsActive        *bool   `json:"is_active"`
}
