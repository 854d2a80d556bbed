package domain

import (
	"context"
	"testing"

	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/internal/repository"
	"github.com/questparty/backend/pkg/authenticator"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/testutil"
	"github.com/questparty/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestAuthDomain(ctx context.Context) AuthDomain {
	cfg := xcontext.Configs(ctx)
	return NewAuthDomain(
		repository.NewUserRepository(),
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken),
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.RefreshToken),
	)
}

func Test_authDomain_Register(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	authDomain := newTestAuthDomain(ctx)

	resp, err := authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "dave@example.com",
		Name:     "dave",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "dave", resp.User.Name)
	require.Equal(t, "dave@example.com", resp.User.Email)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "dave@example.com",
		Name:     "another-dave",
		Password: "super-secret",
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Duplicated email"), err)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Email:    testutil.User1.Email,
		Name:     "fresh-name",
		Password: "super-secret",
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Duplicated email"), err)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "short@example.com",
		Name:     "shorty",
		Password: "1234567",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Password must have at least 8 characters"), err)
}

func Test_authDomain_LoginAndRefresh(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain := newTestAuthDomain(ctx)

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "erin@example.com",
		Name:     "erin",
		Password: "super-secret",
	})
	require.NoError(t, err)

	loginResp, err := authDomain.Login(ctx, &model.LoginRequest{
		Email:    "erin@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, loginResp.AccessToken)
	require.NotEmpty(t, loginResp.RefreshToken)
	require.Equal(t, "erin", loginResp.User.Name)

	_, err = authDomain.Login(ctx, &model.LoginRequest{
		Email:    "erin@example.com",
		Password: "wrong-password",
	})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Incorrect email or password"), err)

	refreshResp, err := authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, refreshResp.AccessToken)

	_, err = authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: "not-a-token",
	})
	require.Error(t, err)
}
