package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rpupo63/portfolio-blog-backend/errs"
)

// SSMParameterAPI is the slice of the SSM client used here.
type SSMParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ResolveSSMParameter fetches a (possibly encrypted) string parameter.
func ResolveSSMParameter(ctx context.Context, client SSMParameterAPI, name string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", errs.NewConfigError(name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", errs.NewConfigError(name, fmt.Errorf("parameter %s has no value", name))
	}
	return aws.ToString(out.Parameter.Value), nil
}

// ResolveDataURL fills DataURL from SSM when a parameter name is configured
// and no URL was given directly.
func (b *BlogConfig) ResolveDataURL(ctx context.Context, client SSMParameterAPI) error {
	if b.DataURL != "" || b.DataURLParameter == "" {
		return nil
	}
	value, err := ResolveSSMParameter(ctx, client, b.DataURLParameter)
	if err != nil {
		return err
	}
	b.DataURL = value
	return nil
}
