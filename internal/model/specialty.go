package model

type Specialty struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	Status      string `db:"status" json:"status"`
}

type CreateSpecialtyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
