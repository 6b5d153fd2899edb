package inquiries

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/internal/quotes"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/models"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/pagination"
)

// SubmitInput is a buyer's quote request.
type SubmitInput struct {
	ProductSlug string
	Name        string
	Email       string
	Company     *string
	Phone       *string
	Message     *string
	Quantity    int
	Mode        string
}

type ListInput struct {
	Status     *enums.InquiryStatus
	Pagination pagination.Params
}

type ListResult struct {
	Inquiries  []models.Inquiry
	NextCursor string
}

// Service records inquiries priced by the quote service.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Inquiry, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) (*models.Inquiry, error)
}

type service struct {
	repo     *Repository
	quotes   quotes.Service
	products product.Reader
	logg     *logger.Logger
}

func NewService(repo *Repository, quoteSvc quotes.Service, products product.Reader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inquiry repository required")
	}
	if quoteSvc == nil {
		return nil, fmt.Errorf("quote service required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, quotes: quoteSvc, products: products, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Inquiry, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is invalid").WithDetails(map[string]any{"email": input.Email})
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	quote, err := s.quotes.Quote(ctx, input.ProductSlug, input.Quantity, input.Mode)
	if err != nil {
		return nil, err
	}
	if err := pricing.CheckTotal(quote.TotalPrice); err != nil {
		return nil, err
	}
	detail, err := s.products.GetProductBySlug(ctx, quote.Slug)
	if err != nil {
		return nil, err
	}

	inquiry := &models.Inquiry{
		ProductID:   detail.Product.ID,
		ProductSlug: quote.Slug,
		Name:        name,
		Email:       strings.ToLower(email),
		Company:     trimPtr(input.Company),
		Phone:       trimPtr(input.Phone),
		Message:     trimPtr(input.Message),
		Mode:        quote.Mode,
		Quantity:    quote.Quantity,
		UnitPrice:   quote.UnitPrice,
		TotalPrice:  quote.TotalPrice,
		Currency:    quote.Currency,
		Status:      enums.InquiryStatusNew,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inquiry")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"inquiry_id":   inquiry.ID.String(),
		"product_slug": inquiry.ProductSlug,
		"mode":         inquiry.Mode,
		"quantity":     inquiry.Quantity,
	}), "inquiry.submitted")
	return inquiry, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, input.Status, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inquiries")
	}
	page, more := pagination.Trim(rows, limit)
	result := &ListResult{Inquiries: page}
	if more {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) (*models.Inquiry, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid inquiry status %q", status)
	}
	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inquiry")
	}
	if inquiry.Status == status {
		return inquiry, nil
	}
	if !inquiry.Status.CanTransitionTo(status) {
		return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "cannot move inquiry from %s to %s", inquiry.Status, status).
			WithDetails(map[string]any{"from": inquiry.Status, "to": status})
	}
	changed, err := s.repo.UpdateStatus(ctx, id, inquiry.Status, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inquiry status")
	}
	if changed == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "inquiry status changed concurrently")
	}
	inquiry.Status = status
	s.logg.Info(s.logg.WithField(ctx, "inquiry_id", id.String()), "inquiry.status_updated")
	return inquiry, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
