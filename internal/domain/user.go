package domain

import (
	"context"
	"errors"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	Update(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	GetAchievements(context.Context, *model.GetUserAchievementsRequest) (*model.GetUserAchievementsResponse, error)
}

type userDomain struct {
	userRepo        repository.UserRepository
	achievementRepo repository.AchievementRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	achievementRepo repository.AchievementRepository,
) UserDomain {
	return &userDomain{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: model.ConvertUser(user, false)}, nil
}

func (d *userDomain) Update(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if req.Name != "" && (len(req.Name) < 3 || len(req.Name) > 50) {
		return nil, errorx.New(errorx.BadRequest, "Name must have from 3 to 50 characters")
	}

	if req.Name != "" {
		existing, err := d.userRepo.GetByName(ctx, req.Name)
		if err == nil && existing.ID != userID {
			return nil, errorx.New(errorx.AlreadyExists, "Duplicated name")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by name: %v", err)
			return nil, errorx.Unknown
		}
	}

	err := d.userRepo.UpdateByID(ctx, userID, &entity.User{
		Name:     req.Name,
		Bio:      []byte(req.Bio),
		Location: req.Location,
		Timezone: req.Timezone,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetAchievements(
	ctx context.Context, req *model.GetUserAchievementsRequest,
) (*model.GetUserAchievementsResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	achievements, err := d.achievementRepo.GetList(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievements: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Achievement{}
	for _, a := range achievements {
		result = append(result, model.ConvertAchievement(&a))
	}

	return &model.GetUserAchievementsResponse{Achievements: result}, nil
}
