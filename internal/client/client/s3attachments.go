package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/google/uuid"
)

// S3Config locates the S3-compatible bucket receipts are written to.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	URLExpiry time.Duration
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var loadAWSConfig = config.LoadDefaultConfig

// S3Attachments decorates a Client so receipts go straight to object
// storage. The returned file URL is a presigned GET; the key is empty since
// no bill record exists yet, so the following UpdateBill creates one.
type S3Attachments struct {
	Client

	objects   objectPutter
	presigner objectPresigner
	bucket    string
	expiry    time.Duration
	now       func() time.Time
}

func NewS3Attachments(ctx context.Context, base Client, cfg S3Config) (*S3Attachments, error) {
	awsCfg, err := loadAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &S3Attachments{
		Client:    base,
		objects:   s3c,
		presigner: s3.NewPresignClient(s3c),
		bucket:    cfg.Bucket,
		expiry:    expiry,
		now:       time.Now,
	}, nil
}

// ObjectKey lays receipts out by upload day: receipts/2022/11/03/<uuid>.jpg
func ObjectKey(t time.Time, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("receipts/%04d/%02d/%02d/%s%s", t.Year(), t.Month(), t.Day(), uuid.NewString(), ext)
}

func (s *S3Attachments) CreateBillAttachment(ctx context.Context, upload models.AttachmentUpload) (models.Attachment, error) {
	var content []byte
	if upload.Content != nil {
		b, err := io.ReadAll(upload.Content)
		if err != nil {
			return models.Attachment{}, fmt.Errorf("read attachment %s: %w", upload.FileName, err)
		}
		content = b
	}

	key := ObjectKey(s.now().UTC(), upload.FileName)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
		Metadata: map[string]string{
			"email":    upload.Email,
			"filename": upload.FileName,
		},
	}
	if upload.ContentType != "" {
		in.ContentType = aws.String(upload.ContentType)
	}

	if _, err := s.objects.PutObject(ctx, in); err != nil {
		return models.Attachment{}, &TransportError{Message: fmt.Sprintf("put object %s: %v", key, err), Err: err}
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("presign %s: %w", key, err)
	}

	return models.Attachment{FileURL: req.URL}, nil
}
