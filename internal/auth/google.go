package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProfile is the slice of the Google userinfo response the tracker
// cares about.
type GoogleProfile struct {
	GoogleID string
	Email    string
	Name     string
}

// GoogleVerifier runs the OAuth authorization-code flow against Google and
// resolves the resulting token to a profile.
type GoogleVerifier struct {
	config *oauth2.Config
}

func NewGoogleVerifier(clientID, clientSecret, redirectURL string) *GoogleVerifier {
	return &GoogleVerifier{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				goauth2.UserinfoEmailScope,
				goauth2.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthURL returns the Google consent page URL carrying the CSRF state.
func (v *GoogleVerifier) AuthURL(state string) string {
	return v.config.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and fetches the user's
// profile with it.
func (v *GoogleVerifier) Exchange(ctx context.Context, code string) (GoogleProfile, error) {
	token, err := v.config.Exchange(ctx, code)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("token exchange: %w", err)
	}

	svc, err := goauth2.NewService(ctx, option.WithTokenSource(v.config.TokenSource(ctx, token)))
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return GoogleProfile{}, fmt.Errorf("userinfo response missing id or email")
	}

	return GoogleProfile{
		GoogleID: info.Id,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}
