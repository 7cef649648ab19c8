package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCognito struct {
	signUp  *cip.SignUpInput
	confirm *cip.ConfirmSignUpInput
	auth    *cip.InitiateAuthInput
	authOut *cip.InitiateAuthOutput
	err     error
}

func (f *fakeCognito) SignUp(_ context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	f.signUp = in
	return &cip.SignUpOutput{}, f.err
}

func (f *fakeCognito) ConfirmSignUp(_ context.Context, in *cip.ConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	f.confirm = in
	return &cip.ConfirmSignUpOutput{}, f.err
}

func (f *fakeCognito) InitiateAuth(_ context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.auth = in
	return f.authOut, f.err
}

func TestCognito_SignUpSendsAttributes(t *testing.T) {
	fake := &fakeCognito{}
	c := &Cognito{api: fake, clientID: "client-1"}

	require.NoError(t, c.SignUp(context.Background(), "a@x.io", "Secret123!", "Ana"))
	assert.Equal(t, "client-1", aws.ToString(fake.signUp.ClientId))
	assert.Equal(t, "a@x.io", aws.ToString(fake.signUp.Username))
	require.Len(t, fake.signUp.UserAttributes, 2)
	assert.Equal(t, "Ana", aws.ToString(fake.signUp.UserAttributes[1].Value))
}

func TestCognito_Authenticate(t *testing.T) {
	fake := &fakeCognito{authOut: &cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{AccessToken: aws.String("tok")},
	}}
	c := &Cognito{api: fake, clientID: "client-1"}

	tok, err := c.Authenticate(context.Background(), "a@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	assert.Equal(t, types.AuthFlowTypeUserPasswordAuth, fake.auth.AuthFlow)
	assert.Equal(t, "a@x.io", fake.auth.AuthParameters["USERNAME"])
}

func TestCognito_ChallengeIsRejected(t *testing.T) {
	fake := &fakeCognito{authOut: &cip.InitiateAuthOutput{ChallengeName: types.ChallengeNameTypeNewPasswordRequired}}
	c := &Cognito{api: fake, clientID: "client-1"}

	_, err := c.Authenticate(context.Background(), "a@x.io", "pw")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestCognito_ErrorsAreWrapped(t *testing.T) {
	cause := errors.New("CodeMismatchException")
	c := &Cognito{api: &fakeCognito{err: cause}, clientID: "client-1"}

	err := c.ConfirmSignUp(context.Background(), "a@x.io", "123")
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, cause)
}

func TestNew_WithoutClientID(t *testing.T) {
	p, err := New(context.Background(), "us-east-1", "")
	require.NoError(t, err)
	_, err = p.Authenticate(context.Background(), "a@x.io", "pw")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
