package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "x",
		"DEBUG":   "true",
		"ORIGINS": " https://a.io, ,https://b.io ",
		"TIMEOUT": "7",
		"EMPTY":   "",
	}
	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(c, "BAD_INT", 8080))
	assert.Equal(t, 1, GetInt(nil, "PORT", 1))
	assert.True(t, GetBool(c, "DEBUG", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))
	assert.Equal(t, 7*time.Second, GetSeconds(c, "TIMEOUT", 10))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("SITE_TEST_VALUE", "a=b")
	c := New()
	assert.Equal(t, "a=b", c["SITE_TEST_VALUE"])
}

type fakeSSM struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
	err   error
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, _ *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestLoadParameters(t *testing.T) {
	client := &fakeSSM{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{{Name: aws.String("/site/prod/database-url"), Value: aws.String("postgres://x")}},
			NextToken:  aws.String("next"),
		},
		{
			Parameters: []types.Parameter{{Name: aws.String("/site/prod/jwt_secret"), Value: aws.String("s")}},
		},
	}}

	params, err := loadParameters(context.Background(), client, "/site/prod")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "s"}, params)
	assert.Equal(t, 2, client.calls)

	_, err = loadParameters(context.Background(), &fakeSSM{err: errors.New("denied")}, "/site")
	assert.Error(t, err)
}
