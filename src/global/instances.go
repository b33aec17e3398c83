package global

import (
	"github.com/streadway/amqp"

	"github.com/mediaprobe/MediaProbe/src/reader"
)

type Instances struct {
	AwsS3 AwsS3
	Rmq   Rmq
}

type AwsS3 interface {
	// OpenObject returns a ranged byte source over s3://bucket/key.
	OpenObject(bucket, key string, opts reader.S3Options) reader.Source
}

type Rmq interface {
	Subscribe(name string) (<-chan amqp.Delivery, error)
	Publish(queue string, contentType string, deliveryMode uint8, msg []byte) error
	Shutdown()
}
