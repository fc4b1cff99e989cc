package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/nextdash/dashboard-backend/config"
)

var ErrFirebaseDisabled = errors.New("firebase verifier requested but AUTH_MODE is not firebase")

// NewFirebaseVerifier builds the ID-token verifier that guards /api/v1.
// It is only called when AUTH_MODE=firebase; header mode never touches the
// Admin SDK. The returned client satisfies middleware.TokenVerifier.
func NewFirebaseVerifier(ctx context.Context, cfg *config.AuthConfig) (*auth.Client, error) {
	if cfg.Mode != config.AuthModeFirebase {
		return nil, fmt.Errorf("%w (mode=%q)", ErrFirebaseDisabled, cfg.Mode)
	}
	if cfg.FirebaseCredentialsPath == "" {
		return nil, fmt.Errorf("AUTH_MODE=firebase requires FIREBASE_CREDENTIALS_PATH")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return client, nil
}
