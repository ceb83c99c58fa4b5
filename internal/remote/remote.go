// Package remote talks to the Firestore project that hosts lessons and advisors.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/verte-zerg/finlearn/internal/lessons"
	"github.com/verte-zerg/finlearn/internal/model"
)

// Collection names in the remote project.
const (
	LessonsCollection  = "lessons"
	AdvisorsCollection = "advisors"
)

const (
	placeholderProject = "YOUR_PROJECT_ID"
	defaultTimeout     = 10 * time.Second
)

// Configured reports whether projectID names a real project.
func Configured(projectID string) bool {
	projectID = strings.TrimSpace(projectID)
	return projectID != "" && !strings.Contains(projectID, placeholderProject)
}

// Client reads and writes remote collections.
type Client struct {
	fs      *firestore.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New connects to the configured project. It returns lessons.ErrNotConfigured
// when the remote is disabled or has no usable project ID.
func New(ctx context.Context, cfg model.RemoteConfig, logger *zap.Logger) (*Client, error) {
	if !cfg.Enabled || !Configured(cfg.ProjectID) {
		return nil, lessons.ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	fs, err := firestore.NewClient(ctx, strings.TrimSpace(cfg.ProjectID), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to firestore: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{fs: fs, timeout: timeout, logger: logger}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.fs.Close()
}

// FetchLessons reads the lessons collection. Documents that do not decode are
// logged and skipped.
func (c *Client) FetchLessons(ctx context.Context) ([]model.Lesson, error) {
	docs, err := c.documents(ctx, LessonsCollection)
	if err != nil {
		return nil, err
	}
	out := make([]model.Lesson, 0, len(docs))
	for _, doc := range docs {
		lesson, err := DecodeLesson(doc.id, doc.data)
		if err != nil {
			c.logger.Warn("skipping undecodable lesson", zap.String("doc", doc.id), zap.Error(err))
			continue
		}
		out = append(out, lesson)
	}
	return out, nil
}

// FetchAdvisors reads the raw advisor documents. The document ID is stored
// under "id" when the document has none.
func (c *Client) FetchAdvisors(ctx context.Context) ([]map[string]any, error) {
	docs, err := c.documents(ctx, AdvisorsCollection)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		if _, ok := doc.data["id"]; !ok {
			doc.data["id"] = doc.id
		}
		out = append(out, doc.data)
	}
	return out, nil
}

// PushLesson upserts one lesson keyed by its ID, merging with existing fields.
func (c *Client) PushLesson(ctx context.Context, lesson model.Lesson) error {
	data, err := EncodeLesson(lesson)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.fs.Collection(LessonsCollection).Doc(lesson.ID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to push lesson %s: %w", lesson.ID, err)
	}
	return nil
}

type document struct {
	id   string
	data map[string]any
}

func (c *Client) documents(ctx context.Context, collection string) ([]document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	snaps, err := c.fs.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	out := make([]document, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, document{id: snap.Ref.ID, data: snap.Data()})
	}
	return out, nil
}

// DecodeLesson converts a document into a lesson. A missing id field falls
// back to the document ID.
func DecodeLesson(docID string, data map[string]any) (model.Lesson, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("failed to encode document: %w", err)
	}
	var lesson model.Lesson
	if err := json.Unmarshal(raw, &lesson); err != nil {
		return model.Lesson{}, fmt.Errorf("failed to decode lesson: %w", err)
	}
	if lesson.ID == "" {
		lesson.ID = docID
	}
	return lesson, nil
}

// EncodeLesson converts a lesson into document fields.
func EncodeLesson(lesson model.Lesson) (map[string]any, error) {
	raw, err := json.Marshal(lesson)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lesson: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to encode lesson: %w", err)
	}
	return data, nil
}
