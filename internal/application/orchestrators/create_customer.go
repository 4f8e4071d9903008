package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tailorshop/internal/domain/audit"
	"tailorshop/internal/domain/customer"
)

// CustomerStoreForCreate defines the store interface needed by CreateCustomer.
type CustomerStoreForCreate interface {
	GetByMobile(ctx context.Context, mobile string) (customer.Customer, error)
	Save(ctx context.Context, c customer.Customer) error
}

// CreateCustomerInput carries the quick-add form.
type CreateCustomerInput struct {
	Name   string
	Mobile string
	Gender string
	Email  string
	City   string
	Area   string
	Notes  string
	Actor  Actor
}

// CreateCustomerDeps holds dependencies for CreateCustomer.
type CreateCustomerDeps struct {
	CustomerStore CustomerStoreForCreate
	AuditStore    AuditStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

var ErrMobileExists = errors.New("a customer with this mobile number already exists")

// ExecuteCreateCustomer adds a customer.
// PRE: Name and Mobile non-empty
// POST: Customer persisted and a Create history event written
// INVARIANT: Mobile numbers are unique
func ExecuteCreateCustomer(ctx context.Context, input CreateCustomerInput, deps CreateCustomerDeps) (customer.Customer, error) {
	now := nowOr(deps.Now)
	c := customer.Customer{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		Mobile:    strings.TrimSpace(input.Mobile),
		Gender:    customer.NormalizeGender(input.Gender),
		Email:     strings.TrimSpace(input.Email),
		City:      strings.TrimSpace(input.City),
		Area:      strings.TrimSpace(input.Area),
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
		LastVisit: now,
	}
	if err := c.Validate(); err != nil {
		return customer.Customer{}, err
	}

	if _, err := deps.CustomerStore.GetByMobile(ctx, c.Mobile); err == nil {
		return customer.Customer{}, ErrMobileExists
	}

	if err := deps.CustomerStore.Save(ctx, c); err != nil {
		return customer.Customer{}, err
	}

	slog.Info("customer_event", "event", "customer_created", "customer_id", c.ID, "actor", input.Actor.Name)
	recordAudit(ctx, deps.AuditStore, now, input.Actor, audit.ActionCreate, audit.EntityCustomer, c.ID, "Added customer "+c.Name)
	return c, nil
}
