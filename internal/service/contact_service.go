package service

import (
    "context"
    "fmt"

    "github.com/iliyamo/parksmart-reservation/internal/model"
    "github.com/iliyamo/parksmart-reservation/internal/repository"
)

// ContactService records contact form submissions.
type ContactService struct {
    store repository.Store
}

func NewContactService(store repository.Store) *ContactService {
    return &ContactService{store: store}
}

// Submit appends one contact record.  Field validation happens at the API
// boundary.
func (s *ContactService) Submit(ctx context.Context, in model.NewContact) (model.Contact, error) {
    c, err := s.store.CreateContact(ctx, in)
    if err != nil {
        return model.Contact{}, fmt.Errorf("create contact: %w", err)
    }
    return c, nil
}

// List returns all submissions in insertion order.
func (s *ContactService) List(ctx context.Context) ([]model.Contact, error) {
    cs, err := s.store.ListContacts(ctx)
    if err != nil {
        return nil, fmt.Errorf("list contacts: %w", err)
    }
    return cs, nil
}
