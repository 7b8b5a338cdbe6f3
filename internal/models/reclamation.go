package models

import "time"

// Статусы рекламации.
const (
	ReclamationPending  = "pending"
	ReclamationResolved = "resolved"
	ReclamationRejected = "rejected"
)

// Reclamation представляет обращение пользователя в поддержку.
// Создать обращение может кто угодно, управляют ими только администраторы.
type Reclamation struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyReclamation используется для приёма обращения из JSON-запроса.
type DummyReclamation struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// DummyReclamationStatus используется для смены статуса обращения.
type DummyReclamationStatus struct {
	Status string `json:"status" validate:"required,oneof=pending resolved rejected"`
}
