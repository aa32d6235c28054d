package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/khatahq/khata/internal/domain"
)

// ClientUseCase handles client directory business logic. Balances are
// never written here; only the ledger mutates them.
type ClientUseCase struct {
	clientRepo ClientRepository
	idGen      IDGenerator
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, idGen IDGenerator) *ClientUseCase {
	return &ClientUseCase{
		clientRepo: clientRepo,
		idGen:      idGen,
	}
}

// CreateClientInput represents input for creating a client.
type CreateClientInput struct {
	Name      string
	Phone     string
	Email     string
	PAN       string
	Aadhar    string
	WorkTypes []string
}

// CreateClient creates a new client with a zero balance. Phone, PAN, and
// Aadhar must be unique across clients when set.
func (uc *ClientUseCase) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.PAN = strings.ToUpper(strings.TrimSpace(input.PAN))

	if err := validateClientFields(input.Name, input.Phone, input.PAN, input.Aadhar); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	client := &domain.Client{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		PAN:       input.PAN,
		Aadhar:    input.Aadhar,
		WorkTypes: domain.NormalizeWorkTypes(input.WorkTypes),
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client by ID.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.clientRepo.GetByID(ctx, id)
}

// UpdateClientInput represents a partial client update. Nil fields keep
// their existing values. Balance is not updatable here.
type UpdateClientInput struct {
	Name      *string
	Phone     *string
	Email     *string
	PAN       *string
	Aadhar    *string
	WorkTypes []string
}

// UpdateClient applies a partial update to a client's directory fields.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}

	if input.Phone != nil {
		client.Phone = *input.Phone
	}

	if input.Email != nil {
		client.Email = *input.Email
	}

	if input.PAN != nil {
		client.PAN = strings.ToUpper(strings.TrimSpace(*input.PAN))
	}

	if input.Aadhar != nil {
		client.Aadhar = *input.Aadhar
	}

	if input.WorkTypes != nil {
		client.WorkTypes = domain.NormalizeWorkTypes(input.WorkTypes)
	}

	if err := validateClientFields(client.Name, client.Phone, client.PAN, client.Aadhar); err != nil {
		return nil, err
	}

	client.UpdatedAt = time.Now().UTC()

	if err := uc.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// ListClientsInput represents input for listing clients.
type ListClientsInput struct {
	Limit  int
	Offset int
}

// ListClients lists clients with pagination.
func (uc *ClientUseCase) ListClients(ctx context.Context, input ListClientsInput) ([]*domain.Client, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}

	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}

	return uc.clientRepo.List(ctx, input.Limit, input.Offset)
}

func validateClientFields(name, phone, pan, aadhar string) error {
	if err := domain.ValidateClientName(name); err != nil {
		return err
	}

	if err := domain.ValidatePhone(phone); err != nil {
		return err
	}

	if err := domain.ValidatePAN(pan); err != nil {
		return err
	}

	return domain.ValidateAadhar(aadhar)
}
