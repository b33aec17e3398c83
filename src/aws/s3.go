package aws

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/mediaprobe/MediaProbe/src/global"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

type S3Instance struct {
	svc *s3.S3
}

func NewS3(ctx global.Context) global.AwsS3 {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(ctx.Config().Aws.Region),
		Credentials: credentials.NewStaticCredentials(
			ctx.Config().Aws.AccessToken,
			ctx.Config().Aws.SecretKey,
			"",
		),
	})
	if err != nil {
		logrus.Fatal("failed to connect to aws: ", err)
	}

	return &S3Instance{svc: s3.New(sess)}
}

func (a *S3Instance) OpenObject(bucket, key string, opts reader.S3Options) reader.Source {
	return reader.NewS3(a.svc, bucket, key, opts)
}
