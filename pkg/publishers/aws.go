package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves the default AWS config for region. Static
// credentials, when given, replace the default provider chain.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil {
		provider := credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)
		opts = append(opts, awscfg.WithCredentialsProvider(provider))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// awsMessage is the JSON body and string attributes shared by SQS and SNS.
func awsMessage(evt Event) (string, map[string]string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", nil, fmt.Errorf("marshal event: %w", err)
	}
	return string(payload), evt.attributes(), nil
}
