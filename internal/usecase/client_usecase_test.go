package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
	"github.com/khatahq/khata/internal/usecase/mocks"
)

func TestClientUseCase_CreateClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("client-1")

	var captured *domain.Client
	clientRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, client *domain.Client) error {
			captured = client
			return nil
		})

	uc := usecase.NewClientUseCase(clientRepo, idGen)

	client, err := uc.CreateClient(context.Background(), usecase.CreateClientInput{
		Name:      "  Meena Textiles  ",
		Phone:     "9876543210",
		PAN:       "abcde1234f",
		Aadhar:    "123456789012",
		WorkTypes: []string{"stitching", " stitching ", "dyeing"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured == nil {
		t.Fatal("client was not persisted")
	}

	if client.ID != "client-1" {
		t.Errorf("expected generated ID, got %q", client.ID)
	}

	if client.Name != "Meena Textiles" {
		t.Errorf("expected trimmed name, got %q", client.Name)
	}

	if client.PAN != "ABCDE1234F" {
		t.Errorf("expected uppercased PAN, got %q", client.PAN)
	}

	if len(client.WorkTypes) != 2 {
		t.Errorf("expected deduplicated work types, got %v", client.WorkTypes)
	}

	if client.Balance != 0 {
		t.Errorf("new client must start at zero balance, got %d", client.Balance)
	}
}

func TestClientUseCase_CreateClient_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.CreateClientInput
		errorType error
	}{
		{
			name:      "empty name",
			input:     usecase.CreateClientInput{Name: "   "},
			errorType: domain.ErrInvalidClientName,
		},
		{
			name:      "short phone",
			input:     usecase.CreateClientInput{Name: "A", Phone: "12345"},
			errorType: domain.ErrInvalidPhone,
		},
		{
			name:      "malformed pan",
			input:     usecase.CreateClientInput{Name: "A", PAN: "1234567890"},
			errorType: domain.ErrInvalidPAN,
		},
		{
			name:      "malformed aadhar",
			input:     usecase.CreateClientInput{Name: "A", Aadhar: "12"},
			errorType: domain.ErrInvalidAadhar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			clientRepo := mocks.NewMockClientRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)

			uc := usecase.NewClientUseCase(clientRepo, idGen)

			_, err := uc.CreateClient(context.Background(), tt.input)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestClientUseCase_CreateClient_DuplicatePhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("client-2")
	clientRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrDuplicatePhone)

	uc := usecase.NewClientUseCase(clientRepo, idGen)

	_, err := uc.CreateClient(context.Background(), usecase.CreateClientInput{
		Name:  "B",
		Phone: "9876543210",
	})
	if !errors.Is(err, domain.ErrDuplicatePhone) {
		t.Errorf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestClientUseCase_UpdateClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	existing := &domain.Client{
		ID:        "c1",
		Name:      "Meena Textiles",
		Phone:     "9876543210",
		WorkTypes: []string{"stitching"},
		Balance:   4200,
	}

	clientRepo.EXPECT().GetByID(gomock.Any(), "c1").Return(existing, nil)

	var captured *domain.Client
	clientRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, client *domain.Client) error {
			captured = client
			return nil
		})

	uc := usecase.NewClientUseCase(clientRepo, idGen)

	name := "Meena Fabrics"

	client, err := uc.UpdateClient(context.Background(), "c1", usecase.UpdateClientInput{
		Name: &name,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured == nil {
		t.Fatal("client was not persisted")
	}

	if client.Name != "Meena Fabrics" {
		t.Errorf("expected renamed client, got %q", client.Name)
	}

	// Untouched fields and the balance survive the partial update.
	if client.Phone != "9876543210" {
		t.Errorf("phone was clobbered: %q", client.Phone)
	}

	if client.Balance != 4200 {
		t.Errorf("balance must not change through directory updates, got %d", client.Balance)
	}
}

func TestClientUseCase_UpdateClient_InvalidMerge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	clientRepo.EXPECT().GetByID(gomock.Any(), "c1").Return(&domain.Client{ID: "c1", Name: "A"}, nil)

	uc := usecase.NewClientUseCase(clientRepo, idGen)

	phone := "not-a-phone"

	_, err := uc.UpdateClient(context.Background(), "c1", usecase.UpdateClientInput{
		Phone: &phone,
	})
	if !errors.Is(err, domain.ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestClientUseCase_ListClients_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clientRepo := mocks.NewMockClientRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	clientRepo.EXPECT().List(gomock.Any(), usecase.DefaultPageSize, 0).Return(nil, nil)
	clientRepo.EXPECT().List(gomock.Any(), usecase.MaxPageSize, 40).Return(nil, nil)

	uc := usecase.NewClientUseCase(clientRepo, idGen)

	if _, err := uc.ListClients(context.Background(), usecase.ListClientsInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.ListClients(context.Background(), usecase.ListClientsInput{Limit: 1000, Offset: 40}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
