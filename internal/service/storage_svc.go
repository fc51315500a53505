package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口
// 报告归档和面单文件都走这里
type StorageProvider interface {
	// Upload 上传文件，返回访问 URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)

	// Delete 删除文件
	Delete(ctx context.Context, url string) error

	// GetSignedURL 获取签名 URL（私有桶场景）
	GetSignedURL(ctx context.Context, url string, expires time.Duration) (signedURL string, err error)
}

// ==================== 配置 ====================

type StorageConfig struct {
	Provider  string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // 本地模式下是对外 URL 前缀
	BasePath  string // 路径前缀
}

// NewStorageProvider 按配置创建存储提供者
func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client   *s3.Client
	bucket   string
	region   string
	basePath string
}

func NewS3Storage(cfg *StorageConfig) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %v", err)
	}

	return &S3Storage{
		client:   s3.NewFromConfig(awsCfg),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		basePath: cfg.BasePath,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := s.generateKey(filename)

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传S3失败: %v", err)
	}

	return s.publicURL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key := s.extractKey(url)
	if key == "" {
		return fmt.Errorf("无法解析文件路径")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Storage) GetSignedURL(ctx context.Context, url string, expires time.Duration) (string, error) {
	key := s.extractKey(url)
	if key == "" {
		return "", fmt.Errorf("无法解析文件路径")
	}

	presignClient := s3.NewPresignClient(s.client)
	presigned, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

func (s *S3Storage) generateKey(filename string) string {
	ext := filepath.Ext(filename)
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	datePath := time.Now().Format("2006/01/02")
	if s.basePath != "" {
		return fmt.Sprintf("%s/%s/%s", s.basePath, datePath, name)
	}
	return fmt.Sprintf("%s/%s", datePath, name)
}

func (s *S3Storage) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) extractKey(url string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	return strings.TrimPrefix(url, prefix)
}

// ==================== 本地存储 (开发测试用) ====================

type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(cfg *StorageConfig) (*LocalStorage, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "./uploads"
	}
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = "http://localhost:8080/uploads"
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("创建本地存储目录失败: %v", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	dir := filepath.Join(s.basePath, datePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %v", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, datePath, name), nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	rel := strings.TrimPrefix(url, s.baseURL+"/")
	if rel == url {
		return fmt.Errorf("无法解析文件路径")
	}
	return os.Remove(filepath.Join(s.basePath, filepath.FromSlash(rel)))
}

func (s *LocalStorage) GetSignedURL(ctx context.Context, url string, expires time.Duration) (string, error) {
	return url, nil // 本地存储无需签名
}
