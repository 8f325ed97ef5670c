package config

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// SSMPathVar names the environment variable holding the Parameter Store path
// whose parameters are exported into the environment before parsing.
const SSMPathVar = "SSM_PARAMETER_PATH"

func loadSSMParameters(ctx context.Context) error {
	parameterPath := os.Getenv(SSMPathVar)
	if parameterPath == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}

	values, err := fetchParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath)
	if err != nil {
		return err
	}

	applied := 0
	for key, value := range values {
		// Values already present in the environment take precedence
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
		applied++
	}

	log.Info().Str("path", parameterPath).Int("applied", applied).Msg("Loaded configuration from SSM")
	return nil
}

// fetchParameters reads every decrypted parameter below parameterPath and
// returns them keyed by environment variable name.
func fetchParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, parameterPath string) (map[string]string, error) {
	values := make(map[string]string)

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			if name == "" {
				continue
			}
			values[envKey(name)] = aws.ToString(p.Value)
		}
	}

	return values, nil
}

// envKey turns "/pressdeck/prod/jwt-secret" into "JWT_SECRET".
func envKey(parameterName string) string {
	key := path.Base(parameterName)
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, ".", "_")
	return strings.ToUpper(key)
}
