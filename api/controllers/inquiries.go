package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/textilehouse-backend/api/responses"
	"github.com/angelmondragon/textilehouse-backend/api/validators"
	"github.com/angelmondragon/textilehouse-backend/internal/inquiries"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/models"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/pagination"
)

const maxInquiryMessage = 4000

type submitInquiryRequest struct {
	ProductSlug string  `json:"productSlug" validate:"required"`
	Name        string  `json:"name" validate:"required,max=120"`
	Email       string  `json:"email" validate:"required,email"`
	Company     *string `json:"company,omitempty" validate:"omitempty,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Message     *string `json:"message,omitempty"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	Mode        string  `json:"mode,omitempty"`
}

type updateInquiryRequest struct {
	Status string `json:"status" validate:"required,inquiry_status"`
}

type inquiryResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"productId"`
	ProductSlug string    `json:"productSlug"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     *string   `json:"company,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Message     *string   `json:"message,omitempty"`
	Mode        string    `json:"mode"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalPrice  float64   `json:"totalPrice"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type inquiryListResponse struct {
	Inquiries  []inquiryResponse `json:"inquiries"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func newInquiryResponse(in *models.Inquiry) inquiryResponse {
	return inquiryResponse{
		ID:          in.ID,
		ProductID:   in.ProductID,
		ProductSlug: in.ProductSlug,
		Name:        in.Name,
		Email:       in.Email,
		Company:     in.Company,
		Phone:       in.Phone,
		Message:     in.Message,
		Mode:        in.Mode.String(),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice.InexactFloat64(),
		TotalPrice:  in.TotalPrice.InexactFloat64(),
		Currency:    in.Currency.String(),
		Status:      in.Status.String(),
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

// SubmitInquiry records a buyer's quote request priced at submission time.
func SubmitInquiry(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		var payload submitInquiryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var message *string
		if payload.Message != nil {
			m := validators.SanitizeString(*payload.Message, maxInquiryMessage)
			message = &m
		}

		inquiry, err := svc.Submit(r.Context(), inquiries.SubmitInput{
			ProductSlug: payload.ProductSlug,
			Name:        payload.Name,
			Email:       payload.Email,
			Company:     payload.Company,
			Phone:       payload.Phone,
			Message:     message,
			Quantity:    payload.Quantity,
			Mode:        payload.Mode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newInquiryResponse(inquiry))
	}
}

func AdminListInquiries(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inquiries.ListInput{
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseInquiryStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := inquiryListResponse{
			Inquiries:  make([]inquiryResponse, 0, len(result.Inquiries)),
			NextCursor: result.NextCursor,
		}
		for i := range result.Inquiries {
			resp.Inquiries = append(resp.Inquiries, newInquiryResponse(&result.Inquiries[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

func AdminUpdateInquiry(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		inquiryID, err := uuid.Parse(chi.URLParam(r, "inquiryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inquiry id"))
			return
		}

		var payload updateInquiryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseInquiryStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		inquiry, err := svc.UpdateStatus(r.Context(), inquiryID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newInquiryResponse(inquiry))
	}
}
