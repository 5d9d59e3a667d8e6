package backup

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "modernc.org/sqlite"
)

// s3Client is the slice of the S3 API the manager uses.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config holds S3-compatible storage settings and the snapshot schedule.
type Config struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Prefix     string
	Passphrase string
	Interval   time.Duration
	Retention  time.Duration
}

// Enabled reports whether enough is configured to upload snapshots.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != "" && c.Passphrase != ""
}

// ErrDisabled is returned by operations that need storage when none is set.
var ErrDisabled = errors.New("backup not configured")

const keyTimeFormat = "2006-01-02T150405.000Z"

// Manager takes encrypted snapshots of the database and keeps them in an
// S3-compatible bucket.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	db     *sql.DB
	client s3Client
	now    func() time.Time
	logger *slog.Logger
}

func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
	if cfg.Enabled() {
		m.client = newS3Client(cfg)
	}
	return m
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start runs a snapshot and retention sweep every Interval until ctx ends.
// It returns immediately when backups are disabled.
func (m *Manager) Start(ctx context.Context) {
	if m.client == nil || m.cfg.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			key, err := m.Run(ctx)
			if err != nil {
				m.logger.Error("scheduled backup failed", "error", err)
				continue
			}
			m.logger.Info("backup uploaded", "key", key)
			if n, err := m.Cleanup(ctx); err != nil {
				m.logger.Error("backup cleanup failed", "error", err)
			} else if n > 0 {
				m.logger.Info("old backups removed", "count", n)
			}
		}
	}
}

// Run snapshots the database, seals it and uploads it, returning the
// object key. Runs are serialized.
func (m *Manager) Run(ctx context.Context) (string, error) {
	if m.client == nil {
		return "", ErrDisabled
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot, err := m.snapshot(ctx)
	if err != nil {
		return "", err
	}
	sealed, err := Seal(snapshot, m.cfg.Passphrase)
	if err != nil {
		return "", fmt.Errorf("seal snapshot: %w", err)
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("key suffix: %w", err)
	}
	// Time first so keys sort chronologically; the suffix keeps runs in the
	// same millisecond apart.
	key := m.cfg.Prefix + "backup-" + m.now().Format(keyTimeFormat) + "-" + hex.EncodeToString(suffix) + ".db.enc"
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	return key, nil
}

// snapshot writes a consistent copy of the database with VACUUM INTO and
// returns its bytes.
func (m *Manager) snapshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "shoplist-backup-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return nil, fmt.Errorf("vacuum into snapshot: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// List returns the keys of stored backups, oldest first.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	objects, err := m.objects(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.key)
	}
	return keys, nil
}

// Cleanup deletes backups older than Retention and reports how many went.
// A zero Retention keeps everything.
func (m *Manager) Cleanup(ctx context.Context) (int, error) {
	if m.cfg.Retention <= 0 {
		return 0, nil
	}
	objects, err := m.objects(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := m.now().Add(-m.cfg.Retention)
	removed := 0
	for _, o := range objects {
		if !o.modified.Before(cutoff) {
			continue
		}
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.Bucket),
			Key:    aws.String(o.key),
		}); err != nil {
			m.logger.Warn("failed to delete old backup", "key", o.key, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

type object struct {
	key      string
	modified time.Time
}

func (m *Manager) objects(ctx context.Context) ([]object, error) {
	if m.client == nil {
		return nil, ErrDisabled
	}
	var out []object
	p := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.Bucket),
		Prefix: aws.String(m.cfg.Prefix + "backup-"),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		for _, o := range page.Contents {
			key := aws.ToString(o.Key)
			if !strings.HasSuffix(key, ".db.enc") {
				continue
			}
			out = append(out, object{key: key, modified: aws.ToTime(o.LastModified)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out, nil
}

// Restore downloads key, decrypts it, checks its integrity and writes it to
// dst. The service must not have dst open.
func (m *Manager) Restore(ctx context.Context, key, dst string) error {
	if m.client == nil {
		return ErrDisabled
	}
	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	sealed, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	plain, err := Open(sealed, m.cfg.Passphrase)
	if err != nil {
		return fmt.Errorf("decrypt backup %s: %w", key, err)
	}

	tmp := dst + ".restore"
	if err := os.WriteFile(tmp, plain, 0o600); err != nil {
		return fmt.Errorf("write restored db: %w", err)
	}
	defer os.Remove(tmp)

	if err := checkIntegrity(ctx, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	os.Remove(dst + "-wal")
	os.Remove(dst + "-shm")
	return nil
}

func checkIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}
