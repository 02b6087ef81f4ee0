package services

import (
	"context"
	"errors"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"
	"fleethub/internal/validators"
	"fleethub/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context, principal *models.Principal) (*ProfileResponse, error)
	ChangePassword(ctx context.Context, principal *models.Principal, request *validators.ChangePasswordRequest) error
}

type authService struct {
	userRepo   interfaces.UserRepository
	vendorRepo interfaces.VendorRepository
	jwtSecret  string
	logger     *logger.Logger
}

type AuthResponse struct {
	Token  string         `json:"token"`
	User   *models.User   `json:"user"`
	Vendor *models.Vendor `json:"vendor"`
}

type ProfileResponse struct {
	User   *models.User   `json:"user"`
	Vendor *models.Vendor `json:"vendor"`
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	vendorRepo interfaces.VendorRepository,
	jwtSecret string,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error) {
	if errs := validators.ValidateLogin(request); len(errs) > 0 {
		return nil, utils.NewValidationError(errs.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
		}
		return nil, utils.NewInternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		s.logger.WithField("email", request.Email).Warn("Failed login attempt")
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
	}

	vendor, err := s.vendorRepo.GetByID(ctx, user.VendorID)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}

	token, err := utils.GenerateToken(user.ID, user.VendorID, string(user.Role), s.jwtSecret, utils.JWTAccessTokenTTL)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":   user.ID.Hex(),
		"vendor_id": user.VendorID.Hex(),
	}).Info("User logged in")

	return &AuthResponse{Token: token, User: user, Vendor: vendor}, nil
}

func (s *authService) GetProfile(ctx context.Context, principal *models.Principal) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, translateRepoErr(err, "user")
	}
	vendor, err := s.vendorRepo.GetByID(ctx, user.VendorID)
	if err != nil {
		return nil, translateRepoErr(err, "vendor")
	}
	return &ProfileResponse{User: user, Vendor: vendor}, nil
}

func (s *authService) ChangePassword(ctx context.Context, principal *models.Principal, request *validators.ChangePasswordRequest) error {
	if errs := validators.ValidateChangePassword(request); len(errs) > 0 {
		return utils.NewValidationError(errs.Error())
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return translateRepoErr(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.CurrentPassword)); err != nil {
		return utils.NewForbiddenError("current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewInternalError(err)
	}

	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"passwordHash": string(newHash)}); err != nil {
		return translateRepoErr(err, "user")
	}

	s.logger.WithField("user_id", user.ID.Hex()).Info("Password changed")
	return nil
}
