package controllers_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autoflow/autoflow_backend/models"
)

// --- Mocks ---

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) UsernamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]string), args.Error(1)
}

// MockAdvertisementRepository
type MockAdvertisementRepository struct {
	mock.Mock
}

func (m *MockAdvertisementRepository) Insert(ctx context.Context, ad *models.Advertisement) (primitive.ObjectID, error) {
	args := m.Called(ctx, ad)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockAdvertisementRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementRepository) ListByStatus(ctx context.Context, status string) ([]models.Advertisement, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementRepository) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Advertisement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementRepository) IDsByOwner(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockAdvertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *MockAdvertisementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdvertisementRepository) InsertImages(ctx context.Context, images []models.AdvertisementImage) error {
	args := m.Called(ctx, images)
	return args.Error(0)
}

func (m *MockAdvertisementRepository) ImagesByAdvertisement(ctx context.Context, adID primitive.ObjectID) ([]models.AdvertisementImage, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdvertisementImage), args.Error(1)
}

func (m *MockAdvertisementRepository) ImagesByAdvertisements(ctx context.Context, adIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.AdvertisementImage, error) {
	args := m.Called(ctx, adIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID][]models.AdvertisementImage), args.Error(1)
}

func (m *MockAdvertisementRepository) DeleteImages(ctx context.Context, adID primitive.ObjectID) error {
	args := m.Called(ctx, adID)
	return args.Error(0)
}
