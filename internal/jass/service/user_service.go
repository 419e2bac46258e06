package service

import (
	"context"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/google/uuid"
)

// UserService manages operator and client accounts.
type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

type CreateUserRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	FullName       string `json:"full_name" binding:"required"`
	DocumentNumber string `json:"document_number"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
}

type UpdateUserRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	DocumentNumber string `json:"document_number"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
}

func (s *UserService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	return s.users.FindAll(ctx, page, pageSize, filters)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	role := req.Role
	if role == "" {
		role = entity.RoleOperator
	}
	if role != entity.RoleAdmin && role != entity.RoleOperator && role != entity.RoleClient {
		return nil, &ValidationError{Fields: map[string]string{"role": "unknown role: " + role}}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:             uuid.New().String()[:32],
		OrganizationID: req.OrganizationID,
		Username:       req.Username,
		PasswordHash:   hash,
		FullName:       req.FullName,
		DocumentNumber: req.DocumentNumber,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           role,
		RecordStatus:   entity.RecordStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FullName = req.FullName
	user.DocumentNumber = req.DocumentNumber
	user.Email = req.Email
	user.Phone = req.Phone
	if req.Role != "" {
		if req.Role != entity.RoleAdmin && req.Role != entity.RoleOperator && req.Role != entity.RoleClient {
			return nil, &ValidationError{Fields: map[string]string{"role": "unknown role: " + req.Role}}
		}
		user.Role = req.Role
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Deactivate(ctx context.Context, id string) error {
	return s.users.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}

func (s *UserService) Reactivate(ctx context.Context, id string) error {
	return s.users.SetRecordStatus(ctx, id, entity.RecordStatusActive)
}
