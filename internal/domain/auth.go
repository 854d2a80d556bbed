package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/authenticator"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	Refresh(context.Context, *model.RefreshTokenRequest) (*model.RefreshTokenResponse, error)
}

type authDomain struct {
	userRepo           repository.UserRepository
	accessTokenEngine  authenticator.TokenEngine[model.AccessToken]
	refreshTokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	accessTokenEngine authenticator.TokenEngine[model.AccessToken],
	refreshTokenEngine authenticator.TokenEngine[model.AccessToken],
) AuthDomain {
	return &authDomain{
		userRepo:           userRepo,
		accessTokenEngine:  accessTokenEngine,
		refreshTokenEngine: refreshTokenEngine,
	}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, errorx.New(errorx.BadRequest, "Invalid email")
	}

	if len(req.Name) < 3 || len(req.Name) > 50 {
		return nil, errorx.New(errorx.BadRequest, "Name must have from 3 to 50 characters")
	}

	if len(req.Password) < 8 {
		return nil, errorx.New(errorx.BadRequest, "Password must have at least 8 characters")
	}

	if _, err := d.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Duplicated email")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.userRepo.GetByName(ctx, req.Name); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Duplicated name")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by name: %v", err)
		return nil, errorx.Unknown
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash the password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:           entity.Base{ID: uuid.NewString()},
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: string(hashed),
		Role:           entity.UserRole,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Incorrect email or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password))
	if err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "Incorrect email or password")
	}

	tokens, err := d.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	tokens.User = model.ConvertUser(user, true)
	return tokens, nil
}

func (d *authDomain) Refresh(
	ctx context.Context, req *model.RefreshTokenRequest,
) (*model.RefreshTokenResponse, error) {
	info, err := d.refreshTokenEngine.Verify(req.RefreshToken)
	if err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
	}

	user, err := d.userRepo.GetByID(ctx, info.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	tokens, err := d.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.RefreshTokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (d *authDomain) generateTokens(
	ctx context.Context, user *entity.User,
) (*model.LoginResponse, error) {
	token := model.AccessToken{ID: user.ID, Name: user.Name}

	accessToken, err := d.accessTokenEngine.Generate(user.ID, token)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	refreshToken, err := d.refreshTokenEngine.Generate(user.ID, token)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate refresh token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
