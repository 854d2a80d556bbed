package middleware

import (
	"context"
	"strings"

	"github.com/questparty/backend/internal/model"
	"github.com/questparty/backend/pkg/authenticator"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
)

type AuthVerifier struct {
	accessTokenEngine authenticator.TokenEngine[model.AccessToken]
	optional          bool
}

func NewAuthVerifier(engine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{accessTokenEngine: engine}
}

// WithOptional lets unauthenticated requests through without a user id
// instead of failing them.
func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() func(context.Context) (context.Context, error) {
	return func(ctx context.Context) (context.Context, error) {
		token := a.extractToken(ctx)
		if token == "" {
			if a.optional {
				return ctx, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		info, err := a.accessTokenEngine.Verify(token)
		if err != nil {
			if a.optional {
				return ctx, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func (a *AuthVerifier) extractToken(ctx context.Context) string {
	r := xcontext.HTTPRequest(ctx)

	authorization := r.Header.Get("Authorization")
	if after, found := strings.CutPrefix(authorization, "Bearer "); found {
		return after
	}

	cookie, err := r.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err == nil {
		return cookie.Value
	}

	return ""
}
