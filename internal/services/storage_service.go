// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/utils"
)

const (
	maxImageSize   = 5 * 1024 * 1024
	localUploadDir = "./uploads"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// StorageService stores product images in S3, or on local disk when no AWS
// credentials are configured.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
	localDir string
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		return &StorageService{config: config, localDir: localUploadDir}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// NewLocalStorageService writes uploads under dir.
func NewLocalStorageService(config *config.Config, dir string) *StorageService {
	return &StorageService{config: config, localDir: dir}
}

func (s *StorageService) LocalDir() string {
	return s.localDir
}

// UploadProductImage stores one image and returns its public URL. The
// content type is sniffed from the bytes, not taken from the client.
func (s *StorageService) UploadProductImage(file multipart.File, header *multipart.FileHeader, slug string) (*UploadResult, error) {
	if header.Size > maxImageSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, maxImageSize)
	}

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileBytes) > maxImageSize {
		return nil, fmt.Errorf("file exceeds maximum allowed size %d bytes", maxImageSize)
	}

	contentType := http.DetectContentType(fileBytes)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("file type %s is not allowed", contentType)
	}

	key := s.generateKey(slug, ext)
	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, contentType)
	}
	return s.uploadToLocal(fileBytes, key, contentType)
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	path := filepath.Join(s.localDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("http://%s:%s/uploads/%s", s.config.Server.Host, s.config.Server.Port, key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(key string) error {
	if s.s3Client == nil {
		path := filepath.Join(s.localDir, filepath.FromSlash(key))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		logrus.WithField("key", key).Info("Local upload deleted")
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// generateKey builds produtos/<slug>/<date>_<id><ext>.
func (s *StorageService) generateKey(slug, ext string) string {
	if !utils.IsSlug(slug) {
		slug = "sem-slug"
	}
	id := uuid.New()
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("produtos/%s/%s_%s%s", slug, timestamp, id.String()[:8], ext)
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
