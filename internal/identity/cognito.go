package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// cognitoAPI is the subset of the Cognito client used here.
type cognitoAPI interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

// Cognito is a user pool app client using the USER_PASSWORD_AUTH flow.
type Cognito struct {
	api      cognitoAPI
	clientID string
}

func NewCognito(ctx context.Context, region, clientID string) (*Cognito, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Cognito{api: cip.NewFromConfig(cfg), clientID: clientID}, nil
}

// New picks Cognito when a client id is configured and Unconfigured
// otherwise.
func New(ctx context.Context, region, clientID string) (Provider, error) {
	if clientID == "" {
		slog.Warn("COGNITO_CLIENT_ID not set, auth endpoints will fail")
		return Unconfigured{}, nil
	}
	return NewCognito(ctx, region, clientID)
}

func (c *Cognito) SignUp(ctx context.Context, email, password, name string) error {
	_, err := c.api.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("name"), Value: aws.String(name)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return nil
}

func (c *Cognito) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := c.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return nil
}

func (c *Cognito) Authenticate(ctx context.Context, email, password string) (string, error) {
	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRejected, err)
	}
	if out.AuthenticationResult == nil {
		// A challenge (MFA, new password) is not supported.
		return "", fmt.Errorf("%w: challenge %s not supported", ErrRejected, out.ChallengeName)
	}
	return aws.ToString(out.AuthenticationResult.AccessToken), nil
}
