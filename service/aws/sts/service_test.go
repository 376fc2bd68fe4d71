package awssts

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSTS struct {
	output *sts.GetCallerIdentityOutput
	err    error
}

func (f fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f.output, f.err
}

func TestGetAccountInfo(t *testing.T) {
	svc := &service{client: fakeSTS{output: &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:sts::123456789012:assumed-role/reclaimer/session"),
	}}}

	info, err := svc.GetAccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.AccountInfo{
		Provider:    "aws",
		AccountID:   "123456789012",
		AccountName: "arn:aws:sts::123456789012:assumed-role/reclaimer/session",
	}, info)
}

func TestGetAccountInfo_Error(t *testing.T) {
	svc := &service{client: fakeSTS{err: errors.New("ExpiredToken")}}

	_, err := svc.GetAccountInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getting caller identity")
}
