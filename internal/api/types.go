package api

import (
	"github.com/careflow/demo-api/internal/booking"
	"github.com/careflow/demo-api/internal/messaging"
)

type BookRequest struct {
	PatientRef string `json:"patient_ref" validate:"required"`
	Start      string `json:"start" validate:"required"`
	End        string `json:"end" validate:"required"`
	Provider   string `json:"provider" validate:"required"`
	VisitType  string `json:"visit_type" validate:"required"`
}

type RescheduleRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	NewStart  string `json:"new_start" validate:"required"`
	NewEnd    string `json:"new_end" validate:"required"`
}

type CancelRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Reason    string `json:"reason"`
}

type SendMessageRequest struct {
	Channel      string            `json:"channel" validate:"required"` // sms | email
	To           string            `json:"to" validate:"required"`
	Subject      string            `json:"subject"`
	TemplateName string            `json:"template_name"`
	Variables    map[string]string `json:"variables"`
}

type InsuranceVerifyRequest struct {
	Payer     string `json:"payer" validate:"required"`
	CPTCode   string `json:"cpt_code" validate:"required"`
	VisitType string `json:"visit_type"`
}

type SlotsResponse struct {
	Slots []booking.Slot `json:"slots"`
}

type BookingResponse struct {
	BookingID string          `json:"booking_id"`
	Status    string          `json:"status"`
	Booking   booking.Booking `json:"booking"`
}

type CancelResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

type SendMessageResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
}

type MessagesResponse struct {
	Messages []messaging.Record `json:"messages"`
}

type HealthResponse struct {
	OK            bool `json:"ok"`
	APIKeyPresent bool `json:"api_key_present"`
}

type ReseedResponse struct {
	Status string `json:"status"`
	Slots  int    `json:"slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
