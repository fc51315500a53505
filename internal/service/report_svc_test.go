package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

const reportTSV = "sku\tquantity\nSKU-A\t10\nSKU-B\t5\n"

// newReportsTestServer 模拟报告状态查询、文档元数据和预签名下载三个端点
// status 控制 GetReport 返回的 processingStatus
func newReportsTestServer(status string) *httptest.Server {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/reports/2021-06-30/reports/"):
			w.Write([]byte(`{"reportId":"rpt-1","reportType":"GET_MERCHANT_LISTINGS_ALL_DATA",
				"processingStatus":"` + status + `","reportDocumentId":"doc-1"}`))

		case strings.HasPrefix(r.URL.Path, "/reports/2021-06-30/documents/"):
			w.Write([]byte(`{"reportDocumentId":"doc-1","url":"` + server.URL + `/download/doc-1",
				"compressionAlgorithm":"GZIP"}`))

		case strings.HasPrefix(r.URL.Path, "/download/"):
			// 预签名下载不带 token，内容 gzip 压缩
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			gz.Write([]byte(reportTSV))
			gz.Close()
			w.Write(buf.Bytes())

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return server
}

func newReportService(t *testing.T, endpoint, storageDir string) *ReportService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ChannelConnection{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	connRepo := repository.NewConnectionRepository(db)
	seedConnection(t, db, &model.ChannelConnection{
		UserID:         1,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		AccessToken:    "valid-token",
		RefreshToken:   "rt-1",
		TokenExpiresAt: time.Now().Add(time.Hour),
	})

	cfg := spapi.DefaultConfig()
	cfg.Endpoint = endpoint
	client := spapi.NewClient(cfg)

	storage, err := NewLocalStorage(&StorageConfig{
		BasePath: storageDir,
		Endpoint: "http://files.test/uploads",
	})
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}

	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs"})
	return NewReportService(NewTokenService(connRepo, lwa), client, connRepo, storage)
}

func TestArchiveReport_WritesDecompressedDocument(t *testing.T) {
	server := newReportsTestServer("DONE")
	defer server.Close()

	dir := t.TempDir()
	svc := newReportService(t, server.URL, dir)

	url, err := svc.ArchiveReport(context.Background(), 1, "rpt-1")
	if err != nil {
		t.Fatalf("ArchiveReport() 失败: %v", err)
	}
	if !strings.HasPrefix(url, "http://files.test/uploads/") {
		t.Errorf("归档 URL = %s, 应在存储前缀下", url)
	}

	// 落盘内容应是解压后的 TSV
	var found string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			found = path
		}
		return nil
	})
	if found == "" {
		t.Fatal("存储目录中没有归档文件")
	}
	data, err := os.ReadFile(found)
	if err != nil {
		t.Fatalf("读取归档文件失败: %v", err)
	}
	if string(data) != reportTSV {
		t.Errorf("归档内容 = %q, want %q", data, reportTSV)
	}
}

func TestArchiveReport_FatalStatus(t *testing.T) {
	server := newReportsTestServer("FATAL")
	defer server.Close()

	svc := newReportService(t, server.URL, t.TempDir())

	_, err := svc.ArchiveReport(context.Background(), 1, "rpt-1")
	if err == nil {
		t.Fatal("FATAL 状态应报错")
	}
	if !strings.Contains(err.Error(), "FATAL") {
		t.Errorf("错误应包含失败状态: %v", err)
	}
}

func TestArchiveReport_NotConnected(t *testing.T) {
	server := newReportsTestServer("DONE")
	defer server.Close()

	svc := newReportService(t, server.URL, t.TempDir())

	_, err := svc.ArchiveReport(context.Background(), 99, "rpt-1")
	if err != ErrNotConnected {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}
