package auth

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier checks Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier builds a verifier from a base64-encoded service
// account JSON document.
func NewFirebaseVerifier(ctx context.Context, encodedServiceKey string) (*FirebaseVerifier, error) {
	creds, err := base64.StdEncoding.DecodeString(encodedServiceKey)
	if err != nil {
		return nil, fmt.Errorf("decode firebase service key: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return emailClaim(token.Claims)
}

func emailClaim(claims map[string]interface{}) (string, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrNoEmail
	}
	return email, nil
}
