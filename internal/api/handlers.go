package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/careflow/demo-api/internal/booking"
	"github.com/careflow/demo-api/internal/insurance"
	"github.com/careflow/demo-api/internal/messaging"
)

var validate = validator.New()

// decode parses the JSON body into dst and checks its required fields.
// Field values stay free-form; only presence is validated.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("could not parse JSON: %w", err)
	}
	return validate.Struct(dst)
}

func listSlotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		slots := svc.ListSlots(q.Get("date"), q.Get("provider"))
		writeJSON(w, http.StatusOK, SlotsResponse{Slots: slots})
	}
}

func bookHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		id, b, err := svc.Book(booking.Booking{
			PatientRef: req.PatientRef,
			Start:      req.Start,
			End:        req.End,
			Provider:   req.Provider,
			VisitType:  req.VisitType,
		})
		if err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BookingResponse{
			BookingID: id,
			Status:    "created",
			Booking:   b,
		})
	}
}

func rescheduleHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RescheduleRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		b, err := svc.Reschedule(req.BookingID, req.NewStart, req.NewEnd)
		if err != nil {
			handleRescheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, BookingResponse{
			BookingID: req.BookingID,
			Status:    "rescheduled",
			Booking:   b,
		})
	}
}

func cancelHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CancelRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		reason, err := svc.Cancel(req.BookingID, req.Reason)
		if err != nil {
			handleLookupError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CancelResponse{
			BookingID: req.BookingID,
			Status:    "canceled",
			Reason:    reason,
		})
	}
}

func getBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		b, err := svc.Get(id)
		if err != nil {
			handleLookupError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, BookingResponse{
			BookingID: id,
			Status:    "active",
			Booking:   b,
		})
	}
}

func sendMessageHandler(svc *messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		rec := svc.Send(req.Channel, req.To, req.Subject, req.TemplateName, req.Variables)

		writeJSON(w, http.StatusAccepted, SendMessageResponse{
			Status:    "queued",
			MessageID: rec.ID,
		})
	}
}

func listMessagesHandler(svc *messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if limit > 100 {
			limit = 100
		}

		writeJSON(w, http.StatusOK, MessagesResponse{Messages: svc.Recent(limit)})
	}
}

func verifyInsuranceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InsuranceVerifyRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, insurance.Verify(req.Payer, req.CPTCode, req.VisitType))
	}
}

func reseedHandler(store *booking.Store, msgs *messaging.Service, days int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := store.Reset(time.Now(), days)
		msgs.Reset()
		writeJSON(w, http.StatusOK, ReseedResponse{Status: "reseeded", Slots: n})
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrSlotNotAvailable):
		writeError(w, http.StatusBadRequest, "slot_not_available", "Slot not available")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleRescheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", "Booking not found")
	case errors.Is(err, booking.ErrSlotNotAvailable):
		writeError(w, http.StatusBadRequest, "slot_not_available", "New slot not available")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", "Booking not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
