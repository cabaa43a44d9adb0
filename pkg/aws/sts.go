package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ErrMissingAccountID is returned when the caller identity has no account
var ErrMissingAccountID = errors.New("caller identity returned no account id")

// STSAPI is the subset of the STS client used to identify the account
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// NewSTSClient creates an STS client from cfg
func NewSTSClient(cfg aws.Config) STSAPI {
	return sts.NewFromConfig(cfg)
}

// ResolveAccountID returns the account of the current credentials
func ResolveAccountID(ctx context.Context, client STSAPI) (string, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", wrapAPIError("sts", err)
	}
	account := aws.ToString(out.Account)
	if account == "" {
		return "", ErrMissingAccountID
	}
	return account, nil
}
