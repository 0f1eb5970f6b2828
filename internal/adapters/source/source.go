// Package source は取り込み対象のファイルをローカルパスまたは S3 から開きます。
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

var ErrInvalidLocation = errors.New("source: invalid location")

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener はローカルファイルと s3://bucket/key を同じ手順で開きます。
// S3 クライアントは最初の S3 参照時に生成されます。
type Opener struct {
	region string

	once   sync.Once
	client objectGetter
	err    error
}

// NewOpener は Opener を生成します。region が空なら AWS の既定設定に従います。
func NewOpener(region string) *Opener {
	return &Opener{region: region}
}

// Open は location を開きます。呼び出し側で Close してください。
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}

	if !strings.HasPrefix(location, s3Scheme) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("source: open %s: %w", location, err)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}

	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("source: get object s3://%s/%s: %w", bucket, key, err)
	}
	return resp.Body, nil
}

func (o *Opener) s3Client(ctx context.Context) (objectGetter, error) {
	o.once.Do(func() {
		if o.client != nil {
			return
		}
		var opts []func(*awsconfig.LoadOptions) error
		if o.region != "" {
			opts = append(opts, awsconfig.WithRegion(o.region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			o.err = fmt.Errorf("source: load AWS config: %w", err)
			return
		}
		o.client = s3.NewFromConfig(cfg)
	})
	return o.client, o.err
}

// ParseS3URI は s3://bucket/key を bucket と key に分解します。
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3 uri", ErrInvalidLocation, uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs bucket and key", ErrInvalidLocation, uri)
	}
	return bucket, key, nil
}
