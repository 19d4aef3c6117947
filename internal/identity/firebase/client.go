// Package firebase implements model.IdentityProvider on the Firebase Auth
// (Identity Toolkit v3) REST API.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/dtroode/tap-portal-server/internal/model"
)

const (
	requestVerifyEmail   = "VERIFY_EMAIL"
	requestPasswordReset = "PASSWORD_RESET"
)

// relyingParty is the subset of the Identity Toolkit relying party API in use.
type relyingParty interface {
	SignupNewUser(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest) (*identitytoolkit.SignupNewUserResponse, error)
	VerifyPassword(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest) (*identitytoolkit.VerifyPasswordResponse, error)
	GetAccountInfo(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest) (*identitytoolkit.GetAccountInfoResponse, error)
	GetOobConfirmationCode(ctx context.Context, req *identitytoolkit.Relyingparty) (*identitytoolkit.GetOobConfirmationCodeResponse, error)
	ResetPassword(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyResetPasswordRequest) (*identitytoolkit.ResetPasswordResponse, error)
	DeleteAccount(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest) (*identitytoolkit.DeleteAccountResponse, error)
}

type relyingPartyService struct {
	svc *identitytoolkit.RelyingpartyService
}

func (r relyingPartyService) SignupNewUser(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest) (*identitytoolkit.SignupNewUserResponse, error) {
	return r.svc.SignupNewUser(req).Context(ctx).Do()
}

func (r relyingPartyService) VerifyPassword(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest) (*identitytoolkit.VerifyPasswordResponse, error) {
	return r.svc.VerifyPassword(req).Context(ctx).Do()
}

func (r relyingPartyService) GetAccountInfo(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest) (*identitytoolkit.GetAccountInfoResponse, error) {
	return r.svc.GetAccountInfo(req).Context(ctx).Do()
}

func (r relyingPartyService) GetOobConfirmationCode(ctx context.Context, req *identitytoolkit.Relyingparty) (*identitytoolkit.GetOobConfirmationCodeResponse, error) {
	return r.svc.GetOobConfirmationCode(req).Context(ctx).Do()
}

func (r relyingPartyService) ResetPassword(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyResetPasswordRequest) (*identitytoolkit.ResetPasswordResponse, error) {
	return r.svc.ResetPassword(req).Context(ctx).Do()
}

func (r relyingPartyService) DeleteAccount(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest) (*identitytoolkit.DeleteAccountResponse, error) {
	return r.svc.DeleteAccount(req).Context(ctx).Do()
}

// Options configures access to the identity provider.
type Options struct {
	APIKey          string
	CredentialsFile string
	// Endpoint overrides the API base URL, e.g. for the Auth emulator.
	Endpoint string
}

var _ model.IdentityProvider = (*Client)(nil)

type Client struct {
	rp relyingParty
}

// New creates a client. Lookup needs service account credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	var clientOpts []option.ClientOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := identitytoolkit.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit service: %w", err)
	}

	return NewClientWithAPI(relyingPartyService{svc: svc.Relyingparty}), nil
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(rp relyingParty) *Client {
	return &Client{rp: rp}
}

func (c *Client) SignUp(ctx context.Context, email, password string) (model.Identity, error) {
	resp, err := c.rp.SignupNewUser(ctx, &identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if hasReason(err, "EMAIL_EXISTS") {
			return model.Identity{}, model.ErrAlreadyExists
		}
		return model.Identity{}, fmt.Errorf("failed to sign up: %w", err)
	}

	return model.Identity{UID: resp.LocalId, Email: resp.Email, IDToken: resp.IdToken}, nil
}

// VerifyPassword checks the password and returns the identity with its current
// verification state.
func (c *Client) VerifyPassword(ctx context.Context, email, password string) (model.Identity, error) {
	resp, err := c.rp.VerifyPassword(ctx, &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		if hasReason(err, "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_EMAIL") {
			return model.Identity{}, model.ErrInvalidPassword
		}
		return model.Identity{}, fmt.Errorf("failed to verify password: %w", err)
	}

	info, err := c.accountInfo(ctx, &identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{IdToken: resp.IdToken})
	if err != nil {
		return model.Identity{}, err
	}
	info.IDToken = resp.IdToken

	return info, nil
}

// Lookup fetches the provider record for uid.
func (c *Client) Lookup(ctx context.Context, uid string) (model.Identity, error) {
	return c.accountInfo(ctx, &identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{LocalId: []string{uid}})
}

func (c *Client) accountInfo(ctx context.Context, req *identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest) (model.Identity, error) {
	resp, err := c.rp.GetAccountInfo(ctx, req)
	if err != nil {
		if hasReason(err, "USER_NOT_FOUND", "INVALID_ID_TOKEN") {
			return model.Identity{}, model.ErrNotFound
		}
		return model.Identity{}, fmt.Errorf("failed to get account info: %w", err)
	}
	if len(resp.Users) == 0 {
		return model.Identity{}, model.ErrNotFound
	}

	u := resp.Users[0]
	return model.Identity{
		UID:           u.LocalId,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Disabled:      u.Disabled,
	}, nil
}

func (c *Client) SendVerificationEmail(ctx context.Context, identity model.Identity) error {
	_, err := c.rp.GetOobConfirmationCode(ctx, &identitytoolkit.Relyingparty{
		RequestType: requestVerifyEmail,
		Email:       identity.Email,
		IdToken:     identity.IDToken,
	})
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	_, err := c.rp.GetOobConfirmationCode(ctx, &identitytoolkit.Relyingparty{
		RequestType: requestPasswordReset,
		Email:       email,
	})
	if err != nil {
		if hasReason(err, "EMAIL_NOT_FOUND") {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to send password reset: %w", err)
	}
	return nil
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	_, err := c.rp.ResetPassword(ctx, &identitytoolkit.IdentitytoolkitRelyingpartyResetPasswordRequest{
		OobCode:     code,
		NewPassword: newPassword,
	})
	if err != nil {
		if hasReason(err, "INVALID_OOB_CODE", "EXPIRED_OOB_CODE") {
			return model.ErrInvalidResetCode
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// DeleteAccount deletes by id token when one is at hand, which works with an API
// key alone; deleting by uid needs service account credentials.
func (c *Client) DeleteAccount(ctx context.Context, identity model.Identity) error {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest{IdToken: identity.IDToken}
	if identity.IDToken == "" {
		req.LocalId = identity.UID
	}

	if _, err := c.rp.DeleteAccount(ctx, req); err != nil {
		if hasReason(err, "USER_NOT_FOUND") {
			return nil
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// hasReason reports whether err is a googleapi error whose message starts with one
// of the given provider codes, e.g. "WEAK_PASSWORD : Password should be ...".
func hasReason(err error, reasons ...string) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, reason := range reasons {
		if strings.HasPrefix(apiErr.Message, reason) {
			return true
		}
	}
	return false
}
